package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductSpecs holds the headline hardware summary shown on product cards.
type ProductSpecs struct {
	Processor string `bson:"processor" json:"processor"`
	RAM       string `bson:"ram" json:"ram"`
	Storage   string `bson:"storage" json:"storage"`
	Display   string `bson:"display" json:"display"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice" json:"originalPrice"`
	Rating        float64            `bson:"rating" json:"rating"`
	Reviews       int                `bson:"reviews" json:"reviews"`
	Category      string             `bson:"category" json:"category"`
	Image         string             `bson:"image" json:"image"`
	Badge         string             `bson:"badge,omitempty" json:"badge,omitempty"`
	Condition     string             `bson:"condition,omitempty" json:"condition,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Specs         ProductSpecs       `bson:"specs" json:"specs"`

	// Seller details, present only on customer-submitted listings.
	SellerName    string              `bson:"sellerName,omitempty" json:"sellerName,omitempty"`
	SellerMobile  string              `bson:"sellerMobile,omitempty" json:"sellerMobile,omitempty"`
	SellerAddress string              `bson:"sellerAddress,omitempty" json:"sellerAddress,omitempty"`
	SellerID      *primitive.ObjectID `bson:"sellerId,omitempty" json:"sellerId,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

const (
	ProductStatusAvailable = "available"
	ProductStatusPending   = "pending"
	ProductStatusSold      = "sold"
)
