package ordering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picklist/internal/models"
)

func product(id string) models.Product {
	return models.Product{ID: id, Name: id, InShoppingList: true}
}

func trip(location string, items ...models.TripItem) models.TripRecord {
	return models.TripRecord{
		ID:       "trip-" + time.Now().Format("150405.000000000"),
		Date:     time.Now(),
		Location: location,
		Items:    items,
	}
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestIsLearningActive(t *testing.T) {
	assert.False(t, IsLearningActive(nil))
	assert.False(t, IsLearningActive([]models.TripRecord{trip("")}))
	assert.True(t, IsLearningActive([]models.TripRecord{trip(""), trip("")}))
}

func TestSortIdentityBelowThreshold(t *testing.T) {
	items := []models.Product{product("a"), product("b"), product("c")}

	got := SortByLearningAlgorithm(items, nil, "")
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))

	oneTrip := []models.TripRecord{
		trip("", models.TripItem{ItemID: "c", CheckOffOrder: 1}),
	}
	got = SortByLearningAlgorithm(items, oneTrip, "")
	assert.Equal(t, []string{"a", "b", "c"}, ids(got), "a single trip must not reorder")
}

func TestSortByAverageRank(t *testing.T) {
	trips := []models.TripRecord{
		trip("",
			models.TripItem{ItemID: "a", CheckOffOrder: 1},
			models.TripItem{ItemID: "b", CheckOffOrder: 2},
		),
		trip("",
			models.TripItem{ItemID: "a", CheckOffOrder: 1},
			models.TripItem{ItemID: "b", CheckOffOrder: 2},
		),
	}
	items := []models.Product{product("b"), product("a"), product("c")}

	got := SortByLearningAlgorithm(items, trips, "")
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestSortIsPermutation(t *testing.T) {
	trips := []models.TripRecord{
		trip("", models.TripItem{ItemID: "b", CheckOffOrder: 3}),
		trip("", models.TripItem{ItemID: "d", CheckOffOrder: 1}),
	}
	items := []models.Product{product("a"), product("b"), product("c"), product("d")}

	got := SortByLearningAlgorithm(items, trips, "")
	require.Len(t, got, len(items))
	assert.ElementsMatch(t, ids(items), ids(got))
}

func TestSortStableTies(t *testing.T) {
	// Both items average to 1.5; input order must survive.
	trips := []models.TripRecord{
		trip("",
			models.TripItem{ItemID: "a", CheckOffOrder: 1},
			models.TripItem{ItemID: "b", CheckOffOrder: 2},
		),
		trip("",
			models.TripItem{ItemID: "b", CheckOffOrder: 1},
			models.TripItem{ItemID: "a", CheckOffOrder: 2},
		),
	}

	got := SortByLearningAlgorithm([]models.Product{product("a"), product("b")}, trips, "")
	assert.Equal(t, []string{"a", "b"}, ids(got))

	got = SortByLearningAlgorithm([]models.Product{product("b"), product("a")}, trips, "")
	assert.Equal(t, []string{"b", "a"}, ids(got))
}

func TestSortNoEvidenceTail(t *testing.T) {
	trips := []models.TripRecord{
		trip("", models.TripItem{ItemID: "x", CheckOffOrder: 2}),
		trip("", models.TripItem{ItemID: "x", CheckOffOrder: 2}),
	}
	items := []models.Product{product("n1"), product("x"), product("n2"), product("n3")}

	got := SortByLearningAlgorithm(items, trips, "")
	assert.Equal(t, []string{"x", "n1", "n2", "n3"}, ids(got),
		"unseen items keep their relative order after all scored items")
}

func TestSortEmptyItems(t *testing.T) {
	trips := []models.TripRecord{trip(""), trip("")}
	got := SortByLearningAlgorithm(nil, trips, "")
	assert.Empty(t, got)
}

func TestSortIgnoresStrayTripItems(t *testing.T) {
	// Trips mention items not on the current list; they are simply never
	// scored and cannot disturb the result.
	trips := []models.TripRecord{
		trip("",
			models.TripItem{ItemID: "gone", CheckOffOrder: 1},
			models.TripItem{ItemID: "a", CheckOffOrder: 2},
		),
		trip("",
			models.TripItem{ItemID: "gone", CheckOffOrder: 1},
			models.TripItem{ItemID: "a", CheckOffOrder: 2},
		),
	}

	got := SortByLearningAlgorithm([]models.Product{product("a")}, trips, "")
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestAverageCheckOffOrder(t *testing.T) {
	trips := []models.TripRecord{
		trip("", models.TripItem{ItemID: "a", CheckOffOrder: 1}),
		trip("", models.TripItem{ItemID: "a", CheckOffOrder: 4}),
		trip("", models.TripItem{ItemID: "b", CheckOffOrder: 7}),
	}

	score, ok := AverageCheckOffOrder("a", trips, "")
	require.True(t, ok)
	assert.InDelta(t, 2.5, score, 1e-9)

	score, ok = AverageCheckOffOrder("b", trips, "")
	require.True(t, ok)
	assert.InDelta(t, 7, score, 1e-9)

	_, ok = AverageCheckOffOrder("missing", trips, "")
	assert.False(t, ok)
}

func TestAverageCheckOffOrderMissingRankCountsAsZero(t *testing.T) {
	trips := []models.TripRecord{
		trip("", models.TripItem{ItemID: "a", CheckOffOrder: 4}),
		trip("", models.TripItem{ItemID: "a"}),
	}

	score, ok := AverageCheckOffOrder("a", trips, "")
	require.True(t, ok)
	assert.InDelta(t, 2, score, 1e-9)
}

func TestLocationGating(t *testing.T) {
	brussels := "50.850°, 4.351°"
	paris := "48.856°, 2.352°"

	trips := []models.TripRecord{
		trip(brussels, models.TripItem{ItemID: "x", CheckOffOrder: 1}),
		trip(brussels, models.TripItem{ItemID: "x", CheckOffOrder: 1}),
		trip(paris, models.TripItem{ItemID: "x", CheckOffOrder: 5}),
	}

	// Near the Brussels store: only the two matching trips count.
	score, ok := AverageCheckOffOrder("x", trips, "50.8503°, 4.3517°")
	require.True(t, ok)
	assert.InDelta(t, 1, score, 1e-9)

	// No location: all three trips blend.
	score, ok = AverageCheckOffOrder("x", trips, "")
	require.True(t, ok)
	assert.InDelta(t, 7.0/3.0, score, 1e-9)
}

func TestLocationGatingRequiresTwoMatches(t *testing.T) {
	brussels := "50.850°, 4.351°"
	paris := "48.856°, 2.352°"

	trips := []models.TripRecord{
		trip(brussels, models.TripItem{ItemID: "x", CheckOffOrder: 1}),
		trip(paris, models.TripItem{ItemID: "x", CheckOffOrder: 5}),
		trip(paris, models.TripItem{ItemID: "x", CheckOffOrder: 5}),
	}

	// A single matching trip is not enough to override the global mean.
	score, ok := AverageCheckOffOrder("x", trips, brussels)
	require.True(t, ok)
	assert.InDelta(t, 11.0/3.0, score, 1e-9)

	// At the Paris store the two matching trips take over.
	score, ok = AverageCheckOffOrder("x", trips, paris)
	require.True(t, ok)
	assert.InDelta(t, 5, score, 1e-9)
}

func TestLocationGatingPerStoreOrdering(t *testing.T) {
	near := "50.850°, 4.351°"
	far := "48.856°, 2.352°"

	// X is grabbed first at the near store and last at the far store; Y is
	// the opposite.
	trips := []models.TripRecord{
		trip(near,
			models.TripItem{ItemID: "x", CheckOffOrder: 1},
			models.TripItem{ItemID: "y", CheckOffOrder: 2},
		),
		trip(near,
			models.TripItem{ItemID: "x", CheckOffOrder: 1},
			models.TripItem{ItemID: "y", CheckOffOrder: 2},
		),
		trip(far,
			models.TripItem{ItemID: "y", CheckOffOrder: 1},
			models.TripItem{ItemID: "x", CheckOffOrder: 2},
		),
		trip(far,
			models.TripItem{ItemID: "y", CheckOffOrder: 1},
			models.TripItem{ItemID: "x", CheckOffOrder: 2},
		),
	}
	items := []models.Product{product("y"), product("x")}

	assert.Equal(t, []string{"x", "y"}, ids(SortByLearningAlgorithm(items, trips, near)))
	assert.Equal(t, []string{"y", "x"}, ids(SortByLearningAlgorithm(items, trips, far)))
}

func TestMalformedLocationDegradesToGlobal(t *testing.T) {
	trips := []models.TripRecord{
		trip("50.850°, 4.351°", models.TripItem{ItemID: "a", CheckOffOrder: 1}),
		trip("50.850°, 4.351°", models.TripItem{ItemID: "b", CheckOffOrder: 1}),
	}
	items := []models.Product{product("a"), product("b")}

	assert.NotPanics(t, func() {
		got := SortByLearningAlgorithm(items, trips, "somewhere in town")
		assert.ElementsMatch(t, []string{"a", "b"}, ids(got))
	})

	score, ok := AverageCheckOffOrder("a", trips, "somewhere in town")
	require.True(t, ok)
	assert.InDelta(t, 1, score, 1e-9, "malformed location falls back to the global mean")
}

func TestSortDeterministic(t *testing.T) {
	trips := []models.TripRecord{
		trip("",
			models.TripItem{ItemID: "a", CheckOffOrder: 3},
			models.TripItem{ItemID: "b", CheckOffOrder: 1},
		),
		trip("",
			models.TripItem{ItemID: "a", CheckOffOrder: 2},
			models.TripItem{ItemID: "c", CheckOffOrder: 1},
		),
	}
	items := []models.Product{product("a"), product("b"), product("c"), product("d")}

	first := ids(SortByLearningAlgorithm(items, trips, ""))
	second := ids(SortByLearningAlgorithm(items, trips, ""))
	assert.Equal(t, first, second)
}
