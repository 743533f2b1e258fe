package models

import "time"

// Categories lists every category a product may carry. Extraction results
// outside this list are folded into "Pantry & Dry Goods".
var Categories = []string{
	"Fresh Produce",
	"Meat & Seafood",
	"Dairy & Eggs",
	"Bakery & Bread",
	"Frozen Foods",
	"Pantry & Dry Goods",
	"Canned & Jarred Foods",
	"Snacks & Chips",
	"Candy & Chocolate",
	"Beverages",
	"Wine & Spirits",
	"Breakfast & Cereals",
	"Deli & Prepared Foods",
	"Condiments & Sauces",
	"Baking Supplies",
	"Health & Wellness",
	"Baby Products",
	"Pet Supplies",
	"Personal Care & Beauty",
	"Household & Cleaning",
	"Kitchen & Dining",
	"Home & Garden",
}

// Units lists the quantity units accepted for a product.
var Units = []string{"lb", "oz", "kg", "g", "ml", "l", "unit", "dozen", "bunch", "package"}

// ImageSources lists the image types the extraction provider can detect.
var ImageSources = []string{"fridge", "product", "shopping_list", "dish", "recipe", "voice"}

// ProductDetails holds optional free-form metadata attached to a product.
type ProductDetails struct {
	Price           string `json:"price,omitempty"`
	NutritionalInfo string `json:"nutritional_info,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// Product represents one entry on the user's picklist. The stable ID is what
// ties a product to its appearances in historical trip records; everything
// else is display data the ordering engine passes through untouched.
type Product struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Category       string         `json:"category"`
	Quantity       float64        `json:"quantity"`
	Unit           string         `json:"unit"`
	Source         string         `json:"source,omitempty"`
	InShoppingList bool           `json:"in_shopping_list"`
	CheckedOff     bool           `json:"checked_off"`
	CheckOffOrder  int            `json:"check_off_order,omitempty"`
	Order          int            `json:"order,omitempty"`
	Details        ProductDetails `json:"details,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// ValidUnit reports whether u is one of the known units.
func ValidUnit(u string) bool {
	for _, known := range Units {
		if known == u {
			return true
		}
	}
	return false
}

// ValidImageSource reports whether s is a recognized image source.
func ValidImageSource(s string) bool {
	for _, known := range ImageSources {
		if known == s {
			return true
		}
	}
	return false
}
