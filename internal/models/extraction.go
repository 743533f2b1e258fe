package models

// ExtractedProduct is a product candidate returned by the image extraction
// provider, before it is given an ID and added to the picklist.
type ExtractedProduct struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Quantity float64        `json:"quantity"`
	Unit     string         `json:"unit"`
	Source   string         `json:"source,omitempty"`
	Details  ProductDetails `json:"details,omitempty"`
}

// ImageExtraction is the outcome of one extraction call.
type ImageExtraction struct {
	Valid     bool               `json:"valid"`
	Message   string             `json:"message"`
	ImageType string             `json:"image_type,omitempty"`
	Products  []ExtractedProduct `json:"products"`
}
