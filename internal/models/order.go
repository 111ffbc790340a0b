package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is one product line frozen at order time; the price is the unit
// price the shopper saw, never re-read from the catalog afterwards.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// OrderCustomer captures the shipping details entered at checkout.
type OrderCustomer struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	Pincode string `bson:"pincode" json:"pincode"`
}

// Order defines the persisted order document.
type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        *primitive.ObjectID `bson:"userId" json:"userId"`
	Customer      OrderCustomer       `bson:"customer" json:"customer"`
	Items         []OrderItem         `bson:"items" json:"items"`
	Total         float64             `bson:"total" json:"total"`
	PaymentMethod string              `bson:"paymentMethod" json:"paymentMethod"`
	PaymentID     string              `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	Status        string              `bson:"status" json:"status"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}

const (
	OrderStatusPending = "Pending"
	OrderStatusPaid    = "Paid"

	PaymentMethodCOD    = "Cash on Delivery"
	PaymentMethodOnline = "Online (Razorpay)"
)
