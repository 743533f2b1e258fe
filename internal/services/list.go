package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"picklist/internal/models"
	"picklist/internal/ordering"
)

// ErrProductNotFound is returned when an operation targets an unknown product.
var ErrProductNotFound = errors.New("product not found")

// ListService manages the picklist and the shopping list built from it.
type ListService struct {
	store Store
}

// NewListService creates a new list service
func NewListService(store Store) *ListService {
	return &ListService{store: store}
}

// NewProduct is the input for creating a picklist entry.
type NewProduct struct {
	Name     string
	Category string
	Quantity float64
	Unit     string
	Source   string
	Details  models.ProductDetails
}

// ProductUpdate carries a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name     *string
	Category *string
	Quantity *float64
	Unit     *string
	Order    *int
	Price    *string
	Notes    *string
}

// ListPicklist returns every product, in the user's manual order.
func (s *ListService) ListPicklist(ctx context.Context) ([]models.Product, error) {
	query := `
		MATCH (p:Product)
		RETURN p
		ORDER BY p.ord ASC, p.created_at ASC
	`

	results, err := s.store.ExecuteRead(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list picklist: %w", err)
	}

	products := make([]models.Product, 0, len(results))
	for _, record := range results {
		if node, ok := record["p"].(neo4j.Node); ok {
			products = append(products, productFromNode(node))
		}
	}
	return products, nil
}

// CreateProduct adds a product to the picklist.
func (s *ListService) CreateProduct(ctx context.Context, input NewProduct) (models.Product, error) {
	query := `
		CREATE (p:Product {
			id: $id,
			name: $name,
			category: $category,
			quantity: $quantity,
			unit: $unit,
			source: $source,
			in_shopping_list: false,
			checked_off: false,
			check_off_order: 0,
			ord: $ord,
			price: $price,
			nutritional_info: $nutritionalInfo,
			notes: $notes,
			created_at: $now,
			updated_at: $now
		})
		RETURN p
	`

	params := map[string]interface{}{
		"id":              uuid.NewString(),
		"name":            input.Name,
		"category":        input.Category,
		"quantity":        input.Quantity,
		"unit":            input.Unit,
		"source":          input.Source,
		"ord":             int64(0),
		"price":           input.Details.Price,
		"nutritionalInfo": input.Details.NutritionalInfo,
		"notes":           input.Details.Notes,
		"now":             time.Now(),
	}

	results, err := s.store.ExecuteWriteWithResult(ctx, query, params)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	if len(results) == 0 {
		return models.Product{}, fmt.Errorf("create returned no product")
	}
	node, ok := results[0]["p"].(neo4j.Node)
	if !ok {
		return models.Product{}, fmt.Errorf("create returned unexpected record")
	}
	return productFromNode(node), nil
}

// UpdateProduct applies a partial update to a product.
func (s *ListService) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (models.Product, error) {
	set := map[string]interface{}{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.Unit != nil {
		set["unit"] = *update.Unit
	}
	if update.Order != nil {
		set["ord"] = int64(*update.Order)
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	query := `
		MATCH (p:Product {id: $id})
		SET p += $props
		RETURN p
	`

	params := map[string]interface{}{
		"id":    id,
		"props": set,
	}

	results, err := s.store.ExecuteWriteWithResult(ctx, query, params)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	if len(results) == 0 {
		return models.Product{}, ErrProductNotFound
	}
	node, ok := results[0]["p"].(neo4j.Node)
	if !ok {
		return models.Product{}, fmt.Errorf("update returned unexpected record")
	}
	return productFromNode(node), nil
}

// DeleteProduct removes a product from the picklist. Historical trip records
// referencing its ID are untouched; they are append-only evidence.
func (s *ListService) DeleteProduct(ctx context.Context, id string) error {
	query := `
		MATCH (p:Product {id: $id})
		DELETE p
		RETURN count(p) AS deleted
	`

	results, err := s.store.ExecuteWriteWithResult(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if len(results) == 0 || intProp(results[0], "deleted") == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ToggleShoppingList moves a product into or out of the shopping list.
// Leaving the list always clears any check-off state.
func (s *ListService) ToggleShoppingList(ctx context.Context, id string) (models.Product, error) {
	query := `
		MATCH (p:Product {id: $id})
		SET p.in_shopping_list = NOT p.in_shopping_list,
			p.checked_off = false,
			p.check_off_order = 0,
			p.updated_at = $now
		RETURN p
	`

	params := map[string]interface{}{"id": id, "now": time.Now()}

	results, err := s.store.ExecuteWriteWithResult(ctx, query, params)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to toggle product: %w", err)
	}
	if len(results) == 0 {
		return models.Product{}, ErrProductNotFound
	}
	node, ok := results[0]["p"].(neo4j.Node)
	if !ok {
		return models.Product{}, fmt.Errorf("toggle returned unexpected record")
	}
	return productFromNode(node), nil
}

// CheckOff marks a shopping-list product as picked up, assigning it the next
// check-off rank for the session.
func (s *ListService) CheckOff(ctx context.Context, id string) (models.Product, error) {
	query := `
		MATCH (p:Product {id: $id, in_shopping_list: true})
		OPTIONAL MATCH (other:Product {in_shopping_list: true, checked_off: true})
		WITH p, coalesce(max(other.check_off_order), 0) AS highest
		SET p.checked_off = true,
			p.check_off_order = highest + 1,
			p.updated_at = $now
		RETURN p
	`

	params := map[string]interface{}{"id": id, "now": time.Now()}

	results, err := s.store.ExecuteWriteWithResult(ctx, query, params)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to check off product: %w", err)
	}
	if len(results) == 0 {
		return models.Product{}, ErrProductNotFound
	}
	node, ok := results[0]["p"].(neo4j.Node)
	if !ok {
		return models.Product{}, fmt.Errorf("check off returned unexpected record")
	}
	return productFromNode(node), nil
}

// Uncheck reverts a check-off.
func (s *ListService) Uncheck(ctx context.Context, id string) (models.Product, error) {
	query := `
		MATCH (p:Product {id: $id, in_shopping_list: true})
		SET p.checked_off = false,
			p.check_off_order = 0,
			p.updated_at = $now
		RETURN p
	`

	params := map[string]interface{}{"id": id, "now": time.Now()}

	results, err := s.store.ExecuteWriteWithResult(ctx, query, params)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to uncheck product: %w", err)
	}
	if len(results) == 0 {
		return models.Product{}, ErrProductNotFound
	}
	node, ok := results[0]["p"].(neo4j.Node)
	if !ok {
		return models.Product{}, fmt.Errorf("uncheck returned unexpected record")
	}
	return productFromNode(node), nil
}

// SortedShoppingList returns the shopping-list products reordered by the
// learned in-store traversal, plus whether learning is active. With thin
// history the manual order passes through and the flag is false; the two
// always agree because both come from the same trip history.
func (s *ListService) SortedShoppingList(ctx context.Context, currentLocation string) ([]models.Product, bool, error) {
	query := `
		MATCH (p:Product {in_shopping_list: true})
		RETURN p
		ORDER BY p.ord ASC, p.created_at ASC
	`

	results, err := s.store.ExecuteRead(ctx, query, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load shopping list: %w", err)
	}

	items := make([]models.Product, 0, len(results))
	for _, record := range results {
		if node, ok := record["p"].(neo4j.Node); ok {
			items = append(items, productFromNode(node))
		}
	}

	trips, err := fetchTrips(ctx, s.store)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load trip history: %w", err)
	}

	sorted := ordering.SortByLearningAlgorithm(items, trips, currentLocation)
	return sorted, ordering.IsLearningActive(trips), nil
}
