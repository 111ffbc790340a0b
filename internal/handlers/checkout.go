package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bytecore/internal/checkout"
	"bytecore/internal/events"
	"bytecore/internal/middleware"
	"bytecore/internal/models"
)

type placeOrderRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	City          string `json:"city" binding:"required"`
	Pincode       string `json:"pincode" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=COD Online"`
}

type confirmPaymentRequest struct {
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// optionalUserID pulls the authenticated user out of the context when the
// shopper is logged in; guests place orders with a nil user.
func optionalUserID(c *gin.Context) *primitive.ObjectID {
	value, ok := c.Get("userId")
	if !ok {
		return nil
	}
	id, ok := value.(primitive.ObjectID)
	if !ok {
		return nil
	}
	return &id
}

func respondCheckoutError(c *gin.Context, route string, err error) {
	var validation checkout.ValidationError
	var persistence *checkout.PersistenceError
	var payment *checkout.PaymentError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": validation.Field})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, checkout.ErrConcurrentSubmission):
		c.JSON(http.StatusConflict, gin.H{"error": "an order is already being placed"})
	case errors.Is(err, checkout.ErrNotAwaitingPayment):
		c.JSON(http.StatusConflict, gin.H{"error": "no payment awaiting confirmation"})
	case errors.As(err, &persistence):
		respondWithError(c, http.StatusInternalServerError, route, "failed to save order, please try again")
	case errors.As(err, &payment):
		respondWithError(c, http.StatusBadGateway, route, "payment failed")
	default:
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
	}
}

func completedOrderResponse(outcome *checkout.Outcome) gin.H {
	return gin.H{
		"orderId":          outcome.Order.ID.Hex(),
		"status":           outcome.Order.Status,
		"total":            outcome.Order.Total,
		"paymentMethod":    outcome.Order.PaymentMethod,
		"notificationSent": outcome.NotificationSent,
	}
}

func publishOrderPlaced(publisher *events.Publisher, order *models.Order) {
	if publisher == nil || order == nil {
		return
	}
	if err := publisher.OrderPlaced(*order); err != nil {
		log.Println("[EVENTS] [WARN] order event not published:", err)
	}
}

// PlaceOrder starts a placement for the session cart. Cash on delivery
// completes in one call; online payment answers with the gateway session the
// shopper's payment UI needs, and the order is finished by ConfirmPayment.
func PlaceOrder(publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		outcome, err := s.Checkout.PlaceOrder(c.Request.Context(), checkout.Request{
			Name:          req.Name,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			Pincode:       req.Pincode,
			PaymentMethod: req.PaymentMethod,
			UserID:        optionalUserID(c),
		})
		if err != nil {
			middleware.RecordCheckoutOperation("place_order", false)
			respondCheckoutError(c, route, err)
			return
		}
		middleware.RecordCheckoutOperation("place_order", true)

		if outcome.Payment != nil {
			c.JSON(http.StatusAccepted, gin.H{
				"payment": outcome.Payment,
				"state":   s.Checkout.State(),
			})
			return
		}

		publishOrderPlaced(publisher, outcome.Order)
		log.Printf("[%s] order %s placed (%s)", route, outcome.Order.ID.Hex(), outcome.Order.PaymentMethod)
		c.JSON(http.StatusCreated, completedOrderResponse(outcome))
	}
}

// ConfirmPayment finishes an online placement with the gateway callback data.
func ConfirmPayment(publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/confirm"
		defer handlePanic(c, route)

		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req confirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		outcome, err := s.Checkout.ConfirmPayment(c.Request.Context(), req.PaymentID, req.Signature)
		if err != nil {
			middleware.RecordCheckoutOperation("confirm_payment", false)
			respondCheckoutError(c, route, err)
			return
		}
		middleware.RecordCheckoutOperation("confirm_payment", true)

		publishOrderPlaced(publisher, outcome.Order)
		log.Printf("[%s] order %s paid", route, outcome.Order.ID.Hex())
		c.JSON(http.StatusCreated, completedOrderResponse(outcome))
	}
}

// CancelPayment abandons a pending online payment; the cart stays as it was.
func CancelPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/cancel"

		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		if err := s.Checkout.CancelPayment(); err != nil {
			middleware.RecordCheckoutOperation("cancel_payment", false)
			respondCheckoutError(c, route, err)
			return
		}
		middleware.RecordCheckoutOperation("cancel_payment", true)
		c.JSON(http.StatusOK, gin.H{"state": s.Checkout.State()})
	}
}

// CheckoutState reports where the session's placement currently is.
func CheckoutState() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": s.Checkout.State()})
	}
}
