// Package ordering reorders a shopping list to match the order in which the
// user has historically checked items off in the store. It is a pure
// computation over the trip history the caller has already loaded: no I/O,
// no stored state, deterministic for identical inputs.
package ordering

import (
	"sort"

	"picklist/internal/models"
)

const (
	// ActivationTripCount is the minimum number of completed trips before
	// learned ordering replaces the list's input order. A single trip is one
	// arbitrary sample per item; averaging needs at least two.
	ActivationTripCount = 2

	// LocationOverrideTripCount is the minimum number of similar-location
	// trips containing an item before location-specific evidence supersedes
	// the global history for that item. One coincidental match must not
	// dominate the score.
	LocationOverrideTripCount = 2
)

// IsLearningActive reports whether there is enough history for learned
// ordering. SortByLearningAlgorithm honors the same threshold, so the caller
// can use this to drive a "list optimized" indicator without the two ever
// disagreeing.
func IsLearningActive(trips []models.TripRecord) bool {
	return len(trips) >= ActivationTripCount
}

// AverageCheckOffOrder computes the mean check-off rank of an item across
// the trips that contain it. When currentLocation is non-empty and at least
// LocationOverrideTripCount of those trips happened at a similar location,
// only the similar-location trips count. The second return is false when no
// trip contains the item.
func AverageCheckOffOrder(itemID string, trips []models.TripRecord, currentLocation string) (float64, bool) {
	var relevant []models.TripRecord
	for _, trip := range trips {
		if _, ok := tripRank(trip, itemID); ok {
			relevant = append(relevant, trip)
		}
	}
	if len(relevant) == 0 {
		return 0, false
	}

	if currentLocation != "" {
		var atLocation []models.TripRecord
		for _, trip := range relevant {
			if trip.Location != "" && IsSimilarLocation(trip.Location, currentLocation) {
				atLocation = append(atLocation, trip)
			}
		}
		if len(atLocation) >= LocationOverrideTripCount {
			relevant = atLocation
		}
	}

	total := 0
	for _, trip := range relevant {
		rank, _ := tripRank(trip, itemID)
		total += rank
	}
	return float64(total) / float64(len(relevant)), true
}

// tripRank returns the check-off rank of itemID within one trip. A record
// with a missing rank counts as 0 rather than failing; the trip writer
// assigns ranks so this should not occur.
func tripRank(trip models.TripRecord, itemID string) (int, bool) {
	for _, it := range trip.Items {
		if it.ItemID == itemID {
			return it.CheckOffOrder, true
		}
	}
	return 0, false
}

// SortByLearningAlgorithm returns items reordered to match the user's
// historical in-store traversal: items seen in past trips first, ascending
// by mean check-off rank, then items with no history in their original
// relative order. With fewer than ActivationTripCount trips the input is
// returned unchanged. A malformed or empty currentLocation degrades to
// location-agnostic scoring; the function never fails.
func SortByLearningAlgorithm(items []models.Product, trips []models.TripRecord, currentLocation string) []models.Product {
	if !IsLearningActive(trips) {
		return items
	}

	type scored struct {
		product  models.Product
		score    float64
		hasScore bool
	}

	ranked := make([]scored, len(items))
	for i, item := range items {
		score, ok := AverageCheckOffOrder(item.ID, trips, currentLocation)
		ranked[i] = scored{product: item, score: score, hasScore: ok}
	}

	// Stable sort keeps input order for equal scores and for the
	// no-evidence tail, so the list does not jitter between renders.
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.hasScore && b.hasScore {
			return a.score < b.score
		}
		return a.hasScore && !b.hasScore
	})

	out := make([]models.Product, len(ranked))
	for i, r := range ranked {
		out[i] = r.product
	}
	return out
}
