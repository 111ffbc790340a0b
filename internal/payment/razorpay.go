package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"bytecore/internal/checkout"
)

const defaultRazorpayAPI = "https://api.razorpay.com"

// ErrSignatureMismatch rejects a payment confirmation whose signature does
// not match the gateway order and payment identifiers.
var ErrSignatureMismatch = errors.New("payment signature mismatch")

// Razorpay opens gateway orders and verifies the signed confirmations the
// shopper's payment UI delivers back.
type Razorpay struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultRazorpayAPI,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// OpenSession creates a gateway order for the given rupee amount. The
// gateway works in paise, the smallest currency unit.
func (r *Razorpay) OpenSession(ctx context.Context, amount float64, receipt string) (checkout.PaymentSession, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: "INR",
		Receipt:  receipt,
	})
	if err != nil {
		return checkout.PaymentSession{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return checkout.PaymentSession{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(req)
	if err != nil {
		return checkout.PaymentSession{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return checkout.PaymentSession{}, fmt.Errorf("gateway order creation failed with status %d", resp.StatusCode)
	}

	var created createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return checkout.PaymentSession{}, err
	}
	if created.ID == "" {
		return checkout.PaymentSession{}, errors.New("gateway returned no order id")
	}

	return checkout.PaymentSession{
		Reference:   created.ID,
		Amount:      amount,
		Currency:    "INR",
		Description: receipt,
	}, nil
}

// VerifyConfirmation checks the HMAC-SHA256 signature Razorpay computes over
// "<orderRef>|<paymentID>" with the key secret.
func (r *Razorpay) VerifyConfirmation(reference, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(r.keySecret))
	mac.Write([]byte(reference + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
