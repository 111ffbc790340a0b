package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"bytecore/internal/models"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Telegram delivers order notifications to the store owner's chat. Send never
// returns an error: a notification that fails to go out must not disturb the
// caller, so failures are logged and reported as false.
type Telegram struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  defaultTelegramAPI,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts a message to the configured chat. Returns true only when the
// Telegram API accepted the delivery.
func (t *Telegram) Send(ctx context.Context, text string) bool {
	if t.botToken == "" || t.chatID == "" {
		log.Println("[NOTIFY] [WARN] telegram not configured, skipping notification")
		return false
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		log.Println("[NOTIFY] [ERROR] telegram payload marshal failed:", err)
		return false
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Println("[NOTIFY] [ERROR] telegram request build failed:", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Println("[NOTIFY] [ERROR] telegram send failed:", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Println("[NOTIFY] [ERROR] telegram send rejected with status:", resp.StatusCode)
		return false
	}
	return true
}

// NotifyOrderPlaced formats and sends the new-order announcement.
func (t *Telegram) NotifyOrderPlaced(ctx context.Context, order models.Order) bool {
	return t.Send(ctx, FormatOrderMessage(order))
}

// FormatOrderMessage renders the HTML message posted to the store owner when
// an order is placed.
func FormatOrderMessage(order models.Order) string {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, "• %s (x%d) - ₹%s\n", item.Title, item.Quantity, formatAmount(item.Price))
	}

	address := order.Customer.Address
	if order.Customer.City != "" {
		address = fmt.Sprintf("%s, %s - %s", order.Customer.Address, order.Customer.City, order.Customer.Pincode)
	}

	return strings.TrimSpace(fmt.Sprintf(`
<b>🚀 NEW ORDER PLACED!</b>
---------------------------
<b>Order ID:</b> #%s
<b>Customer:</b> %s
<b>Phone:</b> %s
<b>Address:</b> %s

<b>Products:</b>
%s
<b>Total Amount:</b> ₹%s
<b>Payment Method:</b> %s
<b>Status:</b> %s
---------------------------
<i>Check Admin Dashboard for details.</i>`,
		order.ID.Hex(),
		order.Customer.Name,
		order.Customer.Phone,
		address,
		items.String(),
		formatAmount(order.Total),
		order.PaymentMethod,
		order.Status,
	))
}

// formatAmount renders a rupee amount with Indian digit grouping, matching
// the storefront's display format (1,23,456).
func formatAmount(amount float64) string {
	whole := fmt.Sprintf("%.0f", amount)

	negative := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	if len(whole) > 3 {
		head := whole[:len(whole)-3]
		tail := whole[len(whole)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		whole = strings.Join(groups, ",") + "," + tail
	}

	if negative {
		return "-" + whole
	}
	return whole
}
