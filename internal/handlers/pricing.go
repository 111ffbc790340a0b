package handlers

import (
	"fmt"
	"math"
)

// validateListingPricing checks the asking price against the original retail
// price on a seller listing. originalPrice is optional; when present it must
// not undercut the asking price, since the storefront renders it as the
// struck-through "was" price.
func validateListingPricing(price, originalPrice float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	if originalPrice < 0 {
		return fmt.Errorf("originalPrice cannot be negative")
	}
	if originalPrice > 0 && originalPrice < price {
		return fmt.Errorf("originalPrice must be greater than or equal to price")
	}
	return nil
}

// discountPercent is the whole-number percentage shown on the product badge,
// 0 when there is no meaningful original price.
func discountPercent(price, originalPrice float64) int {
	if originalPrice <= 0 || originalPrice <= price {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}
