package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(t *testing.T, content string) []byte {
	t.Helper()
	reply := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"role": "assistant", "content": content}},
		},
	}
	body, err := json.Marshal(reply)
	require.NoError(t, err)
	return body
}

func TestExtractProducts(t *testing.T) {
	providerJSON := `{
		"valid": true,
		"message": "Receipt with two items",
		"imageType": "shopping_list",
		"products": [
			{"name": "Sourdough Bread", "category": "Bakery & Bread", "quantity": 1, "unit": "unit", "details": {"price": "$5.99"}},
			{"name": "Chicken Breast", "category": "Meat & Seafood", "quantity": 2, "unit": "lb"}
		]
	}`

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req["model"])

		w.Write(chatReply(t, providerJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "gpt-4o")
	result, err := client.ExtractProducts(context.Background(), "data:image/jpeg;base64,AAAA")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.True(t, result.Valid)
	assert.Equal(t, "shopping_list", result.ImageType)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "Sourdough Bread", result.Products[0].Name)
	assert.Equal(t, "$5.99", result.Products[0].Details.Price)
	assert.Equal(t, "shopping_list", result.Products[0].Source, "source falls back to detected image type")
}

func TestExtractProductsStripsMarkdownFences(t *testing.T) {
	content := "```json\n{\"valid\": true, \"message\": \"ok\", \"imageType\": \"fridge\", \"products\": []}\n```"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, content))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "m")
	result, err := client.ExtractProducts(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "fridge", result.ImageType)
}

func TestExtractProductsNormalization(t *testing.T) {
	providerJSON := `{
		"valid": true,
		"message": "fridge contents",
		"imageType": "fridge",
		"products": [
			{"name": "", "category": "Dairy & Eggs", "quantity": 1},
			{"name": "Mystery Sauce", "category": "Weird Category", "quantity": 0, "unit": "barrel"},
			{"name": "Milk", "category": "Dairy & Eggs", "quantity": 1, "unit": "l", "source": "fridge"}
		]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, providerJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "m")
	result, err := client.ExtractProducts(context.Background(), "AAAA")
	require.NoError(t, err)

	require.Len(t, result.Products, 2, "nameless entries are dropped")

	sauce := result.Products[0]
	assert.Equal(t, "Pantry & Dry Goods", sauce.Category, "unknown category folds into the default")
	assert.Equal(t, 1.0, sauce.Quantity, "non-positive quantity defaults to 1")
	assert.Equal(t, "unit", sauce.Unit, "unknown unit defaults")

	assert.Equal(t, "Milk", result.Products[1].Name)
}

func TestExtractProductsInvalidImage(t *testing.T) {
	providerJSON := `{"valid": false, "message": "This is a photo of a cat", "imageType": "product", "products": []}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, providerJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "m")
	result, err := client.ExtractProducts(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Empty(t, result.Products)
}

func TestExtractProductsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "m")
	_, err := client.ExtractProducts(context.Background(), "AAAA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestExtractProductsNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "m")
	_, err := client.ExtractProducts(context.Background(), "AAAA")
	require.Error(t, err)
}
