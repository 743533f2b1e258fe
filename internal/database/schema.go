package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// SchemaManager prepares the database at startup: uniqueness constraints and,
// for development environments, a small seed of demo products.
type SchemaManager struct {
	client *Neo4jClient
}

// NewSchemaManager creates a new schema manager
func NewSchemaManager(client *Neo4jClient) *SchemaManager {
	return &SchemaManager{client: client}
}

// EnsureSchema creates the uniqueness constraints the service relies on.
// Safe to run on every boot.
func (m *SchemaManager) EnsureSchema(ctx context.Context) error {
	log.Println("Ensuring database schema...")

	constraints := []string{
		`CREATE CONSTRAINT product_id IF NOT EXISTS FOR (p:Product) REQUIRE p.id IS UNIQUE`,
		`CREATE CONSTRAINT trip_id IF NOT EXISTS FOR (t:Trip) REQUIRE t.id IS UNIQUE`,
	}

	for _, constraint := range constraints {
		if err := m.client.ExecuteWrite(ctx, constraint, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}

	log.Println("Database schema ready")
	return nil
}

// demoProduct is one row of the development seed.
type demoProduct struct {
	name     string
	category string
	quantity float64
	unit     string
	price    string
}

var demoProducts = []demoProduct{
	{"Whole Milk", "Dairy & Eggs", 1, "l", "$3.99"},
	{"Large Eggs", "Dairy & Eggs", 1, "dozen", "$4.29"},
	{"Sourdough Bread", "Bakery & Bread", 1, "unit", "$5.99"},
	{"Chicken Breast", "Meat & Seafood", 2, "lb", "$8.49"},
	{"Bananas", "Fresh Produce", 1, "bunch", "$1.29"},
	{"Cheddar Cheese", "Dairy & Eggs", 8, "oz", "$5.49"},
	{"Paper Towels", "Household & Cleaning", 1, "package", "$6.99"},
}

// SeedDemoProducts inserts the demo picklist if the database holds no
// products yet. Only intended for development; gated by configuration.
func (m *SchemaManager) SeedDemoProducts(ctx context.Context) error {
	results, err := m.client.ExecuteRead(ctx, `MATCH (p:Product) RETURN count(p) AS total`, nil)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if len(results) > 0 {
		if total, ok := results[0]["total"].(int64); ok && total > 0 {
			log.Printf("Skipping demo seed, %d products already present", total)
			return nil
		}
	}

	query := `
		CREATE (p:Product {
			id: $id,
			name: $name,
			category: $category,
			quantity: $quantity,
			unit: $unit,
			in_shopping_list: false,
			checked_off: false,
			check_off_order: 0,
			ord: $ord,
			price: $price,
			created_at: $now,
			updated_at: $now
		})
	`

	now := time.Now()
	for i, p := range demoProducts {
		params := map[string]interface{}{
			"id":       uuid.NewString(),
			"name":     p.name,
			"category": p.category,
			"quantity": p.quantity,
			"unit":     p.unit,
			"ord":      i,
			"price":    p.price,
			"now":      now,
		}
		if err := m.client.ExecuteWrite(ctx, query, params); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.name, err)
		}
	}

	log.Printf("Seeded %d demo products", len(demoProducts))
	return nil
}
