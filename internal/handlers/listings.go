package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bytecore/internal/models"
)

type ListingInput struct {
	Title         string
	Price         float64
	OriginalPrice float64
	Category      string
	Condition     string
	Description   string
	SellerName    string
	SellerMobile  string
	SellerAddress string
	Specs         models.ProductSpecs
	ImagePath     string
	ImageSet      bool
}

func parseMultipartListingRequest(c *gin.Context) (ListingInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return ListingInput{}, err
	}

	input := ListingInput{
		Title:         strings.TrimSpace(c.PostForm("title")),
		Category:      strings.TrimSpace(c.PostForm("category")),
		Condition:     strings.TrimSpace(c.PostForm("condition")),
		Description:   strings.TrimSpace(c.PostForm("description")),
		SellerName:    strings.TrimSpace(c.PostForm("sellerName")),
		SellerMobile:  strings.TrimSpace(c.PostForm("sellerMobile")),
		SellerAddress: strings.TrimSpace(c.PostForm("sellerAddress")),
		Specs: models.ProductSpecs{
			Processor: strings.TrimSpace(c.PostForm("processor")),
			RAM:       strings.TrimSpace(c.PostForm("ram")),
			Storage:   strings.TrimSpace(c.PostForm("storage")),
			Display:   strings.TrimSpace(c.PostForm("display")),
		},
	}

	if value, ok := c.GetPostForm("price"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return ListingInput{}, err
		}
		input.Price = parsed
	}

	if value, ok := c.GetPostForm("originalPrice"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return ListingInput{}, err
		}
		input.OriginalPrice = parsed
	}

	file, err := c.FormFile("image")
	if err == nil {
		imagePath, err := saveUpload(file, "products")
		if err != nil {
			return ListingInput{}, err
		}
		input.ImagePath = imagePath
		input.ImageSet = true
	} else if !errors.Is(err, http.ErrMissingFile) &&
		!strings.Contains(err.Error(), "no such file") {
		return ListingInput{}, err
	}

	return input, nil
}

func validateListing(input ListingInput) error {
	if input.Title == "" {
		return errors.New("title is required")
	}
	if input.Category == "" {
		return errors.New("category is required")
	}
	if !input.ImageSet {
		return errors.New("image is required")
	}
	if input.SellerName == "" || input.SellerMobile == "" {
		return errors.New("sellerName and sellerMobile are required")
	}
	return validateListingPricing(input.Price, input.OriginalPrice)
}

// CreateListing accepts an authenticated seller submission. The listing is
// stored with status pending until an admin approves it into the shop.
func CreateListing(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /listings"
		defer handlePanic(c, route)

		userID, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		sellerID, ok := userID.(primitive.ObjectID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		input, err := parseMultipartListingRequest(c)
		if err != nil {
			log.Printf("[%s] parse failed: %v", route, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := validateListing(input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := models.Product{
			Title:         input.Title,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			Category:      input.Category,
			Condition:     input.Condition,
			Description:   input.Description,
			Specs:         input.Specs,
			Image:         input.ImagePath,
			SellerName:    input.SellerName,
			SellerMobile:  input.SellerMobile,
			SellerAddress: input.SellerAddress,
			SellerID:      &sellerID,
			Status:        models.ProductStatusPending,
			CreatedAt:     time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Printf("[%s] insert failed: %v", route, err)
			// The orphaned upload is cleaned up so pending files don't pile up.
			_ = safeDeleteUpload(input.ImagePath)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		log.Printf("[%s] listing created by seller %s", route, sellerID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"id":      id.Hex(),
			"image":   input.ImagePath,
			"message": "listing submitted for review",
		})
	}
}

// ApproveListing flips a pending seller listing to available.
func ApproveListing(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateOne(ctx, bson.M{
			"_id":    listingID,
			"status": models.ProductStatusPending,
		}, bson.M{"$set": bson.M{"status": models.ProductStatusAvailable}})

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "pending listing not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "listing approved"})
	}
}
