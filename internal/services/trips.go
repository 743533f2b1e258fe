package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"picklist/internal/models"
)

// ErrNoCheckedItems is returned when a session ends without any item
// checked off; there is nothing to record.
var ErrNoCheckedItems = errors.New("no checked-off items to record")

// TripService records completed shopping sessions and serves the history
// the ordering engine learns from. Trip records are append-only: written
// once at session completion, never updated or deleted.
type TripService struct {
	store Store
}

// NewTripService creates a new trip service
func NewTripService(store Store) *TripService {
	return &TripService{store: store}
}

// CompleteTrip turns the current checked-off items into an immutable trip
// record, then clears the session state on the products. Ranks are
// reassigned as contiguous 1-based integers in check-off order, so gaps
// left by unchecking never reach the history. The location fingerprint is
// stored opaque; an empty string means the trip has no usable location.
func (s *TripService) CompleteTrip(ctx context.Context, location, startTime string) (models.TripRecord, error) {
	checkedQuery := `
		MATCH (p:Product {in_shopping_list: true, checked_off: true})
		RETURN p.id AS id
		ORDER BY p.check_off_order ASC, p.updated_at ASC
	`

	results, err := s.store.ExecuteRead(ctx, checkedQuery, nil)
	if err != nil {
		return models.TripRecord{}, fmt.Errorf("failed to load checked items: %w", err)
	}
	if len(results) == 0 {
		return models.TripRecord{}, ErrNoCheckedItems
	}

	trip := models.TripRecord{
		ID:        uuid.NewString(),
		Date:      time.Now(),
		Location:  location,
		StartTime: startTime,
	}

	items := make([]map[string]interface{}, 0, len(results))
	for i, record := range results {
		itemID := stringProp(record, "id")
		if itemID == "" {
			continue
		}
		entry := models.TripItem{ItemID: itemID, CheckOffOrder: i + 1}
		trip.Items = append(trip.Items, entry)
		items = append(items, map[string]interface{}{
			"item_id":         entry.ItemID,
			"check_off_order": int64(entry.CheckOffOrder),
		})
	}

	var locationParam interface{}
	if location != "" {
		locationParam = location
	}
	var startTimeParam interface{}
	if startTime != "" {
		startTimeParam = startTime
	}

	createQuery := `
		CREATE (t:Trip {id: $id, date: $date, location: $location, start_time: $startTime})
		WITH t
		UNWIND $items AS item
		CREATE (t)-[:HAS_ITEM]->(:TripItem {item_id: item.item_id, check_off_order: item.check_off_order})
	`

	params := map[string]interface{}{
		"id":        trip.ID,
		"date":      trip.Date,
		"location":  locationParam,
		"startTime": startTimeParam,
		"items":     items,
	}

	if err := s.store.ExecuteWrite(ctx, createQuery, params); err != nil {
		return models.TripRecord{}, fmt.Errorf("failed to record trip: %w", err)
	}

	clearQuery := `
		MATCH (p:Product {in_shopping_list: true, checked_off: true})
		SET p.in_shopping_list = false,
			p.checked_off = false,
			p.check_off_order = 0,
			p.updated_at = $now
	`

	if err := s.store.ExecuteWrite(ctx, clearQuery, map[string]interface{}{"now": time.Now()}); err != nil {
		// The trip is already recorded; the session state will be cleaned up
		// by the next completion. Surface the error regardless.
		return trip, fmt.Errorf("trip recorded but failed to clear session state: %w", err)
	}

	log.Printf("Recorded trip %s with %d items", trip.ID, len(trip.Items))
	return trip, nil
}

// ListTrips returns the full trip history, newest first.
func (s *TripService) ListTrips(ctx context.Context) ([]models.TripRecord, error) {
	return fetchTrips(ctx, s.store)
}

// fetchTrips loads every trip record with its items. Shared with the list
// service, which re-reads the full history on every sequencing request.
func fetchTrips(ctx context.Context, store Store) ([]models.TripRecord, error) {
	query := `
		MATCH (t:Trip)
		OPTIONAL MATCH (t)-[:HAS_ITEM]->(ti:TripItem)
		RETURN t, collect({item_id: ti.item_id, check_off_order: ti.check_off_order}) AS items
		ORDER BY t.date DESC
	`

	results, err := store.ExecuteRead(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	trips := make([]models.TripRecord, 0, len(results))
	for _, record := range results {
		trip := tripFromRecord(record)
		sort.Slice(trip.Items, func(i, j int) bool {
			return trip.Items[i].CheckOffOrder < trip.Items[j].CheckOffOrder
		})
		trips = append(trips, trip)
	}
	return trips, nil
}
