package checkout

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bytecore/internal/cart"
	"bytecore/internal/models"
)

// OrderStore is the durable side of placement. Persistence is the durability
// boundary: an order exists once CreateOrder returns without error.
type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) (primitive.ObjectID, error)
}

// Notifier announces a persisted order. It is best-effort by contract: it
// reports acceptance as a bool and never errors into the caller.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, order models.Order) bool
}

// PaymentSession is the handle the shopper's payment UI needs to collect an
// online payment.
type PaymentSession struct {
	Reference   string  `json:"reference"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// PaymentCollector opens a gateway payment session and later verifies the
// confirmation the gateway's callback carries.
type PaymentCollector interface {
	OpenSession(ctx context.Context, amount float64, receipt string) (PaymentSession, error)
	VerifyConfirmation(reference, paymentID, signature string) error
}

// Payment method selectors accepted on a Request.
const (
	MethodCOD    = "COD"
	MethodOnline = "Online"
)

// Request is the user-submitted intent to purchase: shipping fields plus the
// chosen payment method. The cart contents are snapshotted by the workflow at
// submit time, not carried here.
type Request struct {
	Name          string
	Phone         string
	Address       string
	City          string
	Pincode       string
	PaymentMethod string
	UserID        *primitive.ObjectID
}

// Outcome is what a placement call resolves to. Order is set once the record
// is durable; Payment is set instead while an online payment awaits its
// confirmation callback.
type Outcome struct {
	Order            *models.Order
	Payment          *PaymentSession
	NotificationSent bool
}

type pendingPayment struct {
	req      Request
	snapshot []cart.Line
	total    float64
	session  PaymentSession
}

// Workflow runs the order placement lifecycle for one session:
// Idle -> Submitting -> (AwaitingPayment)? -> Persisting -> Notifying ->
// Completed, with Failed reachable from any pre-notification step. Only one
// placement may be active at a time.
type Workflow struct {
	cart     *cart.Cart
	store    OrderStore
	notifier Notifier
	payments PaymentCollector

	mu      sync.Mutex
	state   State
	pending *pendingPayment
}

func New(c *cart.Cart, store OrderStore, notifier Notifier, payments PaymentCollector) *Workflow {
	return &Workflow{
		cart:     c,
		store:    store,
		notifier: notifier,
		payments: payments,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// PlaceOrder validates the request, snapshots the cart, and either persists
// immediately (cash on delivery) or opens an online payment session and
// suspends until ConfirmPayment or CancelPayment.
func (w *Workflow) PlaceOrder(ctx context.Context, req Request) (*Outcome, error) {
	w.mu.Lock()
	if w.state.Active() {
		w.mu.Unlock()
		return nil, ErrConcurrentSubmission
	}
	w.state = StateSubmitting
	w.mu.Unlock()

	if err := validateRequest(req); err != nil {
		w.setState(StateIdle)
		return nil, err
	}

	snapshot := w.cart.Snapshot()
	if len(snapshot) == 0 {
		w.setState(StateIdle)
		return nil, ErrEmptyCart
	}
	total := snapshotTotal(snapshot)

	switch req.PaymentMethod {
	case MethodOnline:
		session, err := w.payments.OpenSession(ctx, total, "Bytecore Store purchase")
		if err != nil {
			w.setState(StateFailed)
			return nil, &PaymentError{Err: err}
		}
		w.mu.Lock()
		w.pending = &pendingPayment{req: req, snapshot: snapshot, total: total, session: session}
		w.state = StateAwaitingPayment
		w.mu.Unlock()
		return &Outcome{Payment: &session}, nil

	case MethodCOD:
		return w.persistAndNotify(ctx, req, snapshot, total, "", models.OrderStatusPending, models.PaymentMethodCOD)

	default:
		w.setState(StateIdle)
		return nil, ValidationError{Field: "paymentMethod"}
	}
}

// ConfirmPayment resumes a suspended online placement with the gateway's
// confirmation. A bad signature fails the attempt; the cart stays intact.
func (w *Workflow) ConfirmPayment(ctx context.Context, paymentID, signature string) (*Outcome, error) {
	w.mu.Lock()
	if w.state != StateAwaitingPayment || w.pending == nil {
		w.mu.Unlock()
		return nil, ErrNotAwaitingPayment
	}
	pending := w.pending
	w.pending = nil
	w.state = StateSubmitting
	w.mu.Unlock()

	if err := w.payments.VerifyConfirmation(pending.session.Reference, paymentID, signature); err != nil {
		w.setState(StateFailed)
		return nil, &PaymentError{Err: err}
	}

	req := pending.req
	return w.persistAndNotify(ctx, req, pending.snapshot, pending.total, paymentID, models.OrderStatusPaid, models.PaymentMethodOnline)
}

// CancelPayment abandons a pending online payment and returns to Idle with
// the cart and shipping data untouched. Nothing has been written.
func (w *Workflow) CancelPayment() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateAwaitingPayment {
		return ErrNotAwaitingPayment
	}
	w.pending = nil
	w.state = StateIdle
	return nil
}

func (w *Workflow) persistAndNotify(ctx context.Context, req Request, snapshot []cart.Line, total float64, paymentID, status, method string) (*Outcome, error) {
	w.setState(StatePersisting)

	order := buildOrder(req, snapshot, total, paymentID, status, method)
	orderID, err := w.store.CreateOrder(ctx, order)
	if err != nil {
		// The cart is deliberately NOT cleared: the shopper retries with the
		// same cart and shipping data.
		w.setState(StateFailed)
		return nil, &PersistenceError{Err: err}
	}
	order.ID = orderID

	w.setState(StateNotifying)
	sent := false
	if w.notifier != nil {
		sent = w.notifier.NotifyOrderPlaced(ctx, order)
		if !sent {
			log.Println("[CHECKOUT] [WARN] notification failed to send, order", orderID.Hex(), "was saved")
		}
	}

	w.setState(StateCompleted)
	w.cart.Clear()

	return &Outcome{Order: &order, NotificationSent: sent}, nil
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func validateRequest(req Request) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", req.Name},
		{"phone", req.Phone},
		{"address", req.Address},
		{"city", req.City},
		{"pincode", req.Pincode},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return ValidationError{Field: field.name}
		}
	}
	return nil
}

func snapshotTotal(lines []cart.Line) float64 {
	total := 0.0
	for i := range lines {
		total += float64(lines[i].Quantity) * lines[i].UnitPrice
	}
	return total
}

func buildOrder(req Request, snapshot []cart.Line, total float64, paymentID, status, method string) models.Order {
	items := make([]models.OrderItem, 0, len(snapshot))
	for _, line := range snapshot {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.UnitPrice,
			Image:     line.Image,
			Quantity:  line.Quantity,
		})
	}

	return models.Order{
		UserID: req.UserID,
		Customer: models.OrderCustomer{
			Name:    strings.TrimSpace(req.Name),
			Phone:   strings.TrimSpace(req.Phone),
			Address: strings.TrimSpace(req.Address),
			City:    strings.TrimSpace(req.City),
			Pincode: strings.TrimSpace(req.Pincode),
		},
		Items:         items,
		Total:         total,
		PaymentMethod: method,
		PaymentID:     paymentID,
		Status:        status,
		CreatedAt:     time.Now(),
	}
}
