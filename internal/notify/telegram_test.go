package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bytecore/internal/models"
)

func testOrder() models.Order {
	id, _ := primitive.ObjectIDFromHex("656e6577206f726465722121")
	return models.Order{
		ID: id,
		Customer: models.OrderCustomer{
			Name:    "Afroj Khan",
			Phone:   "9876543210",
			Address: "12 MG Road",
			City:    "Lucknow",
			Pincode: "226001",
		},
		Items: []models.OrderItem{
			{ProductID: "p1", Title: "Dell Inspiron 5440", Price: 45999, Quantity: 1},
			{ProductID: "p2", Title: "MacBook Air M1", Price: 55000, Quantity: 2},
		},
		Total:         155999,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        models.OrderStatusPending,
	}
}

func TestFormatOrderMessage(t *testing.T) {
	msg := FormatOrderMessage(testOrder())

	for _, want := range []string{
		"NEW ORDER PLACED",
		"#656e6577206f726465722121",
		"Afroj Khan",
		"9876543210",
		"12 MG Road, Lucknow - 226001",
		"Dell Inspiron 5440 (x1) - ₹45,999",
		"MacBook Air M1 (x2) - ₹55,000",
		"₹1,55,999",
		"Cash on Delivery",
		"Pending",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected message to contain %q, got:\n%s", want, msg)
		}
	}
}

func TestFormatAmountIndianGrouping(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{999, "999"},
		{45999, "45,999"},
		{155999, "1,55,999"},
		{11500000, "1,15,00,000"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.amount); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestSendPostsToTelegramAPI(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("bot-token", "chat-42")
	tg.baseURL = srv.URL

	if !tg.Send(context.Background(), "hello") {
		t.Fatal("expected Send to report success")
	}
	if gotPath != "/botbot-token/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["chat_id"] != "chat-42" || gotBody["text"] != "hello" || gotBody["parse_mode"] != "HTML" {
		t.Fatalf("unexpected payload %+v", gotBody)
	}
}

func TestSendSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tg := NewTelegram("bot-token", "chat-42")
	tg.baseURL = srv.URL

	if tg.Send(context.Background(), "hello") {
		t.Fatal("expected Send to report failure on 502")
	}

	unconfigured := NewTelegram("", "")
	if unconfigured.Send(context.Background(), "hello") {
		t.Fatal("expected Send to report failure when unconfigured")
	}
}
