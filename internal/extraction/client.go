// Package extraction calls the external vision provider that turns a photo
// (fridge, receipt, dish, recipe card) into candidate grocery products. The
// service forwards the image opaque and normalizes the provider's answer; it
// never interprets images itself.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"picklist/internal/models"
)

const defaultTimeout = 2 * time.Minute

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new extraction client
func NewClient(endpoint, apiKey, model string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

const systemPrompt = `You are a grocery product extraction AI. Analyze images and extract products into valid JSON format.

Response must be a JSON object with:
- valid: boolean (true if image contains groceries/food/household items)
- message: string (brief description)
- imageType: string (detected type: fridge, product, shopping_list, dish, or recipe)
- products: array of objects with: name, category, quantity, unit, source, details (with price and notes)

Valid units: lb, oz, kg, g, ml, l, unit, dozen, bunch, package
Valid sources: fridge, product, shopping_list, dish, recipe (match detected imageType)`

const userPrompt = `Analyze this image and first determine what type it is:
- fridge: Photo of refrigerator/pantry contents
- product: Close-up of individual grocery items
- shopping_list: Receipt or shopping list
- dish: Prepared meal/dish
- recipe: Recipe card/cookbook page

Then extract ALL visible grocery/food/household products.

For receipts: include prices
For quantities: use realistic estimates
Choose most specific category
Set source to match the detected imageType
If not a relevant image, set valid=false and explain why

Return JSON with valid, message, imageType, and products array.`

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	MaxTokens      int            `json:"max_tokens"`
	Temperature    float64        `json:"temperature"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// providerResult mirrors the JSON the model is prompted to return.
type providerResult struct {
	Valid     bool                      `json:"valid"`
	Message   string                    `json:"message"`
	ImageType string                    `json:"imageType"`
	Products  []models.ExtractedProduct `json:"products"`
}

// ExtractProducts sends an image (a data URL or plain base64 string) to the
// provider and returns the normalized extraction result.
func (c *Client) ExtractProducts(ctx context.Context, image string) (*models.ImageExtraction, error) {
	prompt := fmt.Sprintf("%s\n\nValid categories: %s", systemPrompt, strings.Join(models.Categories, ", "))

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: image}},
			}},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		MaxTokens:      4000,
		Temperature:    0.2,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction api error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from provider")
	}

	content := stripMarkdownFences(chatResp.Choices[0].Message.Content)

	var result providerResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse extraction content: %w", err)
	}

	return normalize(result), nil
}

// stripMarkdownFences removes ```json fences some models wrap around JSON
// even when asked for a bare object.
func stripMarkdownFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// normalize validates and cleans the provider's products: nameless or
// category-less entries are dropped, quantities default to 1, units to
// "unit", unknown categories fold into "Pantry & Dry Goods", and the source
// falls back to the detected image type.
func normalize(result providerResult) *models.ImageExtraction {
	source := result.ImageType
	if !models.ValidImageSource(source) {
		source = "product"
	}

	products := make([]models.ExtractedProduct, 0, len(result.Products))
	for _, p := range result.Products {
		if p.Name == "" || p.Category == "" {
			continue
		}
		if p.Quantity <= 0 {
			p.Quantity = 1
		}
		if !models.ValidUnit(p.Unit) {
			p.Unit = "unit"
		}
		if !models.ValidCategory(p.Category) {
			p.Category = "Pantry & Dry Goods"
		}
		if !models.ValidImageSource(p.Source) {
			p.Source = source
		}
		products = append(products, p)
	}

	return &models.ImageExtraction{
		Valid:     result.Valid,
		Message:   result.Message,
		ImageType: source,
		Products:  products,
	}
}
