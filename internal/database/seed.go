package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bytecore/internal/models"
)

// SeedProducts fills an empty products collection with the launch catalog so
// a fresh deployment has a browsable shop. An already-populated collection is
// left alone.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := db.Collection("products").CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(launchCatalog))
	for i, p := range launchCatalog {
		p.Status = models.ProductStatusAvailable
		// Staggered timestamps keep the default newest-first sort stable.
		p.CreatedAt = now.Add(time.Duration(-i) * time.Minute)
		docs = append(docs, p)
	}

	if _, err := db.Collection("products").InsertMany(ctx, docs); err != nil {
		return err
	}

	log.Printf("[SEED] [INFO] inserted %d catalog products", len(docs))
	return nil
}

var launchCatalog = []models.Product{
	{
		Title: "Dell Inspiron 5440 Thin & Light", Price: 45999, OriginalPrice: 65000,
		Rating: 4.5, Reviews: 128, Category: "Student",
		Image: "/public/catalog/laptop1.png", Badge: "Best Seller",
		Specs: models.ProductSpecs{Processor: "i5 12th Gen", RAM: "16GB", Storage: "512GB SSD", Display: "14\" FHD"},
	},
	{
		Title: "Dell Latitude 3550 Pro", Price: 52499, OriginalPrice: 78000,
		Rating: 4.8, Reviews: 85, Category: "Professional",
		Image: "/public/catalog/laptop3.png", Badge: "Premium",
		Specs: models.ProductSpecs{Processor: "i7 13th Gen", RAM: "16GB", Storage: "1TB SSD", Display: "15.6\" FHD"},
	},
	{
		Title: "HP Victus 15 Gaming Beast", Price: 72999, OriginalPrice: 95000,
		Rating: 4.9, Reviews: 342, Category: "Gaming",
		Image: "/public/catalog/laptop4.png", Badge: "Gaming Beast",
		Specs: models.ProductSpecs{Processor: "Ryzen 7 7840HS", RAM: "16GB", Storage: "512GB SSD", Display: "144Hz 15.6\""},
	},
	{
		Title: "OMEN by HP 16 Gaming", Price: 115000, OriginalPrice: 145000,
		Rating: 5.0, Reviews: 56, Category: "Gaming",
		Image: "/public/catalog/laptop1.png",
		Specs: models.ProductSpecs{Processor: "i9 14900HX", RAM: "32GB", Storage: "2TB Gen4", Display: "16.1\" QHD 240Hz"},
	},
	{
		Title: "Dell Inspiron 3530 Series", Price: 38999, OriginalPrice: 48000,
		Rating: 4.2, Reviews: 210, Category: "Student",
		Image: "/public/catalog/laptop3.png", Badge: "Value Pick",
		Specs: models.ProductSpecs{Processor: "i3 13th Gen", RAM: "8GB", Storage: "512GB SSD", Display: "15.6\" FHD"},
	},
	{
		Title: "ASUS Vivobook 16X", Price: 64990, OriginalPrice: 82990,
		Rating: 4.6, Reviews: 112, Category: "Ultrabook",
		Image: "/public/catalog/laptop2.png",
		Specs: models.ProductSpecs{Processor: "Ryzen 5 7600H", RAM: "16GB", Storage: "512GB SSD", Display: "16\" WUXGA"},
	},
	{
		Title: "Lenovo Ideapad Slim 5", Price: 58990, OriginalPrice: 75000,
		Rating: 4.4, Reviews: 89, Category: "Ultrabook",
		Image: "/public/catalog/laptop2.png",
		Specs: models.ProductSpecs{Processor: "i5 13500H", RAM: "16GB", Storage: "1TB SSD", Display: "14\" OLED"},
	},
	{
		Title: "Acer Nitro V Gaming", Price: 78990, OriginalPrice: 99999,
		Rating: 4.7, Reviews: 156, Category: "Gaming",
		Image: "/public/catalog/laptop4.png",
		Specs: models.ProductSpecs{Processor: "i7 12650H", RAM: "16GB", Storage: "512GB SSD", Display: "144Hz FHD"},
	},
	{
		Title: "MacBook Air M1 (Used - Mint)", Price: 55000, OriginalPrice: 99000,
		Rating: 4.9, Reviews: 890, Category: "Professional",
		Image: "/public/catalog/laptop1.png", Badge: "Hot Deal",
		Specs: models.ProductSpecs{Processor: "Apple M1", RAM: "8GB", Storage: "256GB SSD", Display: "13.3\" Retina"},
	},
	{
		Title: "Dell G15 Gaming", Price: 85000, OriginalPrice: 110000,
		Rating: 4.6, Reviews: 124, Category: "Gaming",
		Image: "/public/catalog/laptop2.png",
		Specs: models.ProductSpecs{Processor: "Ryzen 7 6800H", RAM: "16GB", Storage: "1TB SSD", Display: "165Hz FHD"},
	},
}
