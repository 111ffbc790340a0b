package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bytecore/internal/cart"
	"bytecore/internal/models"
)

type fakeStore struct {
	mu      sync.Mutex
	orders  []models.Order
	failing bool
}

func (s *fakeStore) CreateOrder(_ context.Context, order models.Order) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return primitive.NilObjectID, errors.New("write failed")
	}
	s.orders = append(s.orders, order)
	return primitive.NewObjectID(), nil
}

type fakeNotifier struct {
	accept   bool
	messages int
	onNotify func(order models.Order)
}

func (n *fakeNotifier) NotifyOrderPlaced(_ context.Context, order models.Order) bool {
	n.messages++
	if n.onNotify != nil {
		n.onNotify(order)
	}
	return n.accept
}

type fakeCollector struct {
	openErr   error
	verifyErr error
	sessions  int
}

func (c *fakeCollector) OpenSession(_ context.Context, amount float64, receipt string) (PaymentSession, error) {
	if c.openErr != nil {
		return PaymentSession{}, c.openErr
	}
	c.sessions++
	return PaymentSession{Reference: "order_ref_1", Amount: amount, Currency: "INR", Description: receipt}, nil
}

func (c *fakeCollector) VerifyConfirmation(reference, paymentID, signature string) error {
	return c.verifyErr
}

func validRequest(method string) Request {
	return Request{
		Name:          "Afroj Khan",
		Phone:         "9876543210",
		Address:       "12 MG Road",
		City:          "Lucknow",
		Pincode:       "226001",
		PaymentMethod: method,
	}
}

func newTestWorkflow(c *cart.Cart, store OrderStore, notifier *fakeNotifier, collector *fakeCollector) *Workflow {
	return New(c, store, notifier, collector)
}

func TestPlaceOrderCashOnDelivery(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", Title: "Dell Inspiron", UnitPrice: 45999}, 1)

	store := &fakeStore{}
	notifier := &fakeNotifier{accept: true}
	w := newTestWorkflow(c, store, notifier, &fakeCollector{})

	outcome, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD))
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	if outcome.Order == nil {
		t.Fatal("expected an order in the outcome")
	}
	if outcome.Order.Status != models.OrderStatusPending {
		t.Fatalf("expected status Pending, got %s", outcome.Order.Status)
	}
	if outcome.Order.Total != 45999 {
		t.Fatalf("expected total 45999, got %v", outcome.Order.Total)
	}
	if outcome.Order.PaymentMethod != models.PaymentMethodCOD {
		t.Fatalf("unexpected payment method %s", outcome.Order.PaymentMethod)
	}
	if outcome.Order.ID.IsZero() {
		t.Fatal("expected a server-assigned order id")
	}
	if c.ItemCount() != 0 {
		t.Fatal("cart should be cleared after completion")
	}
	if w.State() != StateCompleted {
		t.Fatalf("expected Completed, got %s", w.State())
	}
	if notifier.messages != 1 {
		t.Fatalf("expected exactly one notification, got %d", notifier.messages)
	}
}

func TestCartClearedOnlyAfterCompletion(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 45999}, 1)

	store := &fakeStore{}
	notifier := &fakeNotifier{accept: true}
	notifier.onNotify = func(models.Order) {
		if c.ItemCount() != 1 {
			t.Error("cart must not be cleared before the workflow completes")
		}
	}
	w := newTestWorkflow(c, store, notifier, &fakeCollector{})

	if _, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD)); err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if c.ItemCount() != 0 {
		t.Fatal("cart should be empty after completion")
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	w := newTestWorkflow(cart.New(), &fakeStore{}, &fakeNotifier{accept: true}, &fakeCollector{})

	_, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD))
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if w.State() != StateIdle {
		t.Fatalf("expected workflow back at Idle, got %s", w.State())
	}
}

func TestPlaceOrderMissingShippingField(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 100}, 1)
	store := &fakeStore{}
	w := newTestWorkflow(c, store, &fakeNotifier{accept: true}, &fakeCollector{})

	req := validRequest(MethodCOD)
	req.Phone = "   "

	_, err := w.PlaceOrder(context.Background(), req)
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "phone" {
		t.Fatalf("expected phone to be flagged, got %s", validationErr.Field)
	}
	if len(store.orders) != 0 {
		t.Fatal("nothing may be written on validation failure")
	}
	if w.State() != StateIdle {
		t.Fatalf("expected Idle, got %s", w.State())
	}
}

func TestPersistenceFailurePreservesCart(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 45999}, 2)

	store := &fakeStore{failing: true}
	notifier := &fakeNotifier{accept: true}
	w := newTestWorkflow(c, store, notifier, &fakeCollector{})

	_, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD))
	var persistenceErr *PersistenceError
	if !errors.As(err, &persistenceErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if c.ItemCount() != 2 {
		t.Fatalf("cart must survive a failed write, item count %d", c.ItemCount())
	}
	if notifier.messages != 0 {
		t.Fatal("notification must never be attempted for an unpersisted order")
	}
	if w.State() != StateFailed {
		t.Fatalf("expected Failed, got %s", w.State())
	}

	// A retry with the same data must succeed without re-entering anything.
	store.failing = false
	outcome, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD))
	if err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if outcome.Order == nil || outcome.Order.Total != 91998 {
		t.Fatalf("unexpected retry outcome: %+v", outcome)
	}
	if c.ItemCount() != 0 {
		t.Fatal("cart should be cleared after the successful retry")
	}
}

func TestNotificationFailureDoesNotFailPlacement(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 1000}, 1)

	store := &fakeStore{}
	notifier := &fakeNotifier{accept: false}
	w := newTestWorkflow(c, store, notifier, &fakeCollector{})

	outcome, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD))
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if outcome.Order == nil {
		t.Fatal("expected a valid order despite the failed notification")
	}
	if outcome.NotificationSent {
		t.Fatal("expected NotificationSent=false")
	}
	if w.State() != StateCompleted {
		t.Fatalf("expected Completed, got %s", w.State())
	}
	if c.ItemCount() != 0 {
		t.Fatal("cart should still be cleared")
	}
	if len(store.orders) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(store.orders))
	}
}

func TestOnlinePaymentSuspendsAndResumes(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 55000}, 1)

	store := &fakeStore{}
	collector := &fakeCollector{}
	w := newTestWorkflow(c, store, &fakeNotifier{accept: true}, collector)

	outcome, err := w.PlaceOrder(context.Background(), validRequest(MethodOnline))
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if outcome.Payment == nil || outcome.Payment.Reference != "order_ref_1" {
		t.Fatalf("expected a payment session, got %+v", outcome)
	}
	if w.State() != StateAwaitingPayment {
		t.Fatalf("expected AwaitingPayment, got %s", w.State())
	}
	if len(store.orders) != 0 {
		t.Fatal("no record may be written while awaiting payment")
	}
	if c.ItemCount() != 1 {
		t.Fatal("cart must be preserved while awaiting payment")
	}

	confirmed, err := w.ConfirmPayment(context.Background(), "pay_123", "sig")
	if err != nil {
		t.Fatalf("ConfirmPayment returned error: %v", err)
	}
	if confirmed.Order == nil || confirmed.Order.Status != models.OrderStatusPaid {
		t.Fatalf("expected a Paid order, got %+v", confirmed.Order)
	}
	if confirmed.Order.PaymentID != "pay_123" {
		t.Fatalf("expected payment reference pay_123, got %s", confirmed.Order.PaymentID)
	}
	if c.ItemCount() != 0 {
		t.Fatal("cart should be cleared after confirmed payment")
	}
}

func TestAbandonedPaymentCanBeCancelled(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 100}, 1)

	store := &fakeStore{}
	w := newTestWorkflow(c, store, &fakeNotifier{accept: true}, &fakeCollector{})

	if _, err := w.PlaceOrder(context.Background(), validRequest(MethodOnline)); err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	// A second submit while suspended is rejected, not interleaved.
	if _, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD)); !errors.Is(err, ErrConcurrentSubmission) {
		t.Fatalf("expected ErrConcurrentSubmission, got %v", err)
	}

	if err := w.CancelPayment(); err != nil {
		t.Fatalf("CancelPayment returned error: %v", err)
	}
	if w.State() != StateIdle {
		t.Fatalf("expected Idle after cancel, got %s", w.State())
	}
	if c.ItemCount() != 1 {
		t.Fatal("cart must survive an abandoned payment")
	}
	if len(store.orders) != 0 {
		t.Fatal("no partial state may be written")
	}

	// The shopper can retry from scratch.
	if _, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD)); err != nil {
		t.Fatalf("retry after cancel returned error: %v", err)
	}
}

func TestBadPaymentSignatureFailsAttempt(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 100}, 1)

	collector := &fakeCollector{verifyErr: errors.New("signature mismatch")}
	store := &fakeStore{}
	w := newTestWorkflow(c, store, &fakeNotifier{accept: true}, collector)

	if _, err := w.PlaceOrder(context.Background(), validRequest(MethodOnline)); err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	_, err := w.ConfirmPayment(context.Background(), "pay_123", "bad")
	var paymentErr *PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentError, got %v", err)
	}
	if len(store.orders) != 0 {
		t.Fatal("no record may be written for an unverified payment")
	}
	if c.ItemCount() != 1 {
		t.Fatal("cart must be preserved")
	}
}

type blockingStore struct {
	fakeStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) CreateOrder(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
	close(s.entered)
	<-s.release
	return s.fakeStore.CreateOrder(ctx, order)
}

func TestConcurrentSubmitIsRejected(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 100}, 1)

	store := &blockingStore{entered: make(chan struct{}), release: make(chan struct{})}
	w := newTestWorkflow(c, store, &fakeNotifier{accept: true}, &fakeCollector{})

	done := make(chan error, 1)
	go func() {
		_, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD))
		done <- err
	}()

	// Wait until the first submit is inside the persistence step, then race
	// a second one against it.
	<-store.entered
	if _, err := w.PlaceOrder(context.Background(), validRequest(MethodCOD)); !errors.Is(err, ErrConcurrentSubmission) {
		t.Fatalf("expected ErrConcurrentSubmission, got %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("winning submit returned error: %v", err)
	}
	if len(store.orders) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(store.orders))
	}
}

func TestConfirmWithoutPendingPayment(t *testing.T) {
	w := newTestWorkflow(cart.New(), &fakeStore{}, &fakeNotifier{accept: true}, &fakeCollector{})

	if _, err := w.ConfirmPayment(context.Background(), "pay_1", "sig"); !errors.Is(err, ErrNotAwaitingPayment) {
		t.Fatalf("expected ErrNotAwaitingPayment, got %v", err)
	}
	if err := w.CancelPayment(); !errors.Is(err, ErrNotAwaitingPayment) {
		t.Fatalf("expected ErrNotAwaitingPayment, got %v", err)
	}
}

func TestSnapshotImmuneToMidCheckoutEdits(t *testing.T) {
	c := cart.New()
	_ = c.AddItem(cart.Line{ProductID: "p1", UnitPrice: 1000}, 2)

	store := &fakeStore{}
	w := newTestWorkflow(c, store, &fakeNotifier{accept: true}, &fakeCollector{})

	if _, err := w.PlaceOrder(context.Background(), validRequest(MethodOnline)); err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	// Edits while suspended must not leak into the in-flight order.
	_ = c.AddItem(cart.Line{ProductID: "p2", UnitPrice: 99999}, 5)

	outcome, err := w.ConfirmPayment(context.Background(), "pay_1", "sig")
	if err != nil {
		t.Fatalf("ConfirmPayment returned error: %v", err)
	}
	if len(outcome.Order.Items) != 1 || outcome.Order.Total != 2000 {
		t.Fatalf("order must reflect the submit-time snapshot, got %+v", outcome.Order)
	}
}
