package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bytecore/internal/cart"
	"bytecore/internal/middleware"
	"bytecore/internal/models"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type setCartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func cartView(c *cart.Cart) gin.H {
	lines := c.Snapshot()
	items := make([]gin.H, 0, len(lines))
	for _, line := range lines {
		items = append(items, gin.H{
			"productId": line.ProductID,
			"title":     line.Title,
			"price":     line.UnitPrice,
			"image":     line.Image,
			"quantity":  line.Quantity,
			"lineTotal": float64(line.Quantity) * line.UnitPrice,
		})
	}
	return gin.H{
		"items":     items,
		"itemCount": c.ItemCount(),
		"subtotal":  c.Subtotal(),
	}
}

// GetCart returns the shopper's cart with derived count and subtotal.
func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}
		c.JSON(http.StatusOK, cartView(s.Cart))
	}
}

// AddCartItem looks the product up and adds it to the session cart. The cart
// line carries a copy of the title, price and image so a later catalog edit
// cannot change what the shopper already put in the basket.
func AddCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":    productID,
			"status": models.ProductStatusAvailable,
		}).Decode(&product)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		line := cart.Line{
			ProductID: product.ID.Hex(),
			Title:     product.Title,
			UnitPrice: product.Price,
			Image:     product.Image,
		}
		if err := s.Cart.AddItem(line, req.Quantity); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, cartView(s.Cart))
	}
}

// SetCartQuantity replaces a line's quantity. Quantities below one are
// rejected; removal has its own endpoint.
func SetCartQuantity() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}

		var req setCartQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := s.Cart.SetQuantity(c.Param("id"), req.Quantity); err != nil {
			if errors.Is(err, cart.ErrInvalidQuantity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, cartView(s.Cart))
	}
}

// RemoveCartItem drops a line. Removing an absent product is a no-op.
func RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}
		s.Cart.RemoveItem(c.Param("id"))
		c.JSON(http.StatusOK, cartView(s.Cart))
	}
}

// ClearCart empties the cart.
func ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.SessionFrom(c)
		if s == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}
		s.Cart.Clear()
		c.JSON(http.StatusOK, cartView(s.Cart))
	}
}
