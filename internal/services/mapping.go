package services

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"picklist/internal/models"
)

// Property access helpers tolerant of absent or differently-typed values;
// Neo4j returns int64 for integers and time.Time for datetimes.

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func boolProp(props map[string]interface{}, key string) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return false
}

func intProp(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func floatProp(props map[string]interface{}, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func timeProp(props map[string]interface{}, key string) time.Time {
	if v, ok := props[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}

func productFromNode(node neo4j.Node) models.Product {
	props := node.Props
	return models.Product{
		ID:             stringProp(props, "id"),
		Name:           stringProp(props, "name"),
		Category:       stringProp(props, "category"),
		Quantity:       floatProp(props, "quantity"),
		Unit:           stringProp(props, "unit"),
		Source:         stringProp(props, "source"),
		InShoppingList: boolProp(props, "in_shopping_list"),
		CheckedOff:     boolProp(props, "checked_off"),
		CheckOffOrder:  intProp(props, "check_off_order"),
		Order:          intProp(props, "ord"),
		Details: models.ProductDetails{
			Price:           stringProp(props, "price"),
			NutritionalInfo: stringProp(props, "nutritional_info"),
			Notes:           stringProp(props, "notes"),
		},
		CreatedAt: timeProp(props, "created_at"),
		UpdatedAt: timeProp(props, "updated_at"),
	}
}

func tripFromRecord(record map[string]interface{}) models.TripRecord {
	trip := models.TripRecord{}
	if node, ok := record["t"].(neo4j.Node); ok {
		trip.ID = stringProp(node.Props, "id")
		trip.Date = timeProp(node.Props, "date")
		trip.Location = stringProp(node.Props, "location")
		trip.StartTime = stringProp(node.Props, "start_time")
	}
	if rawItems, ok := record["items"].([]interface{}); ok {
		for _, raw := range rawItems {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			itemID := stringProp(entry, "item_id")
			if itemID == "" {
				continue
			}
			trip.Items = append(trip.Items, models.TripItem{
				ItemID:        itemID,
				CheckOffOrder: intProp(entry, "check_off_order"),
			})
		}
	}
	return trip
}
