package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/model"
)

// openAIClient implements the Client interface using the OpenAI
// vision-capable chat completions API.
type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// newOpenAIClient creates a new OpenAI vision client.
func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gpt-4o"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 800
	}

	return &openAIClient{
		apiKey:      cfg.APIKey,
		model:       modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

const systemPrompt = "You are a price extraction engine. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

// prompts per document mode. Currency must be null when it cannot be
// read off the image; the workflow asks the user in that case.
var modePrompts = map[model.DetectMode]string{
	model.ModePriceTag: `Read the price tag in this image. Respond with JSON: {"price": number, "currency": "ISO code or null", "confidence": 0-1, "productName": string, "productCategory": string}`,
	model.ModeReceipt:  `Read the receipt in this image. Respond with JSON: {"price": 0, "currency": "ISO code or null", "confidence": 0-1, "storeName": string, "tax": number, "total": number, "paymentMethod": string, "transactionId": string, "items": [{"name": string, "price": number, "currency": string, "quantity": number, "category": string}]}`,
	model.ModeMenu:     `Read the menu in this image. Respond with JSON: {"price": 0, "currency": "ISO code or null", "confidence": 0-1, "restaurantName": string, "items": [{"name": string, "price": number, "currency": string, "quantity": 1, "category": string}]}`,
}

// Detect sends the image to OpenAI and parses the detection result.
func (c *openAIClient) Detect(ctx context.Context, image []byte, mode model.DetectMode) (model.DetectionResult, error) {
	if len(image) == 0 {
		return model.DetectionResult{}, fmt.Errorf("%w: empty image", common.ErrDetectionFailed)
	}
	if !mode.Valid() {
		return model.DetectionResult{}, fmt.Errorf("%w: unknown mode %q", common.ErrDetectionFailed, mode)
	}

	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{
				"role":    "system",
				"content": systemPrompt,
			},
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": modePrompts[mode]},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
				},
			},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return model.DetectionResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return model.DetectionResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.DetectionResult{}, fmt.Errorf("%w: %v", common.ErrDetectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.DetectionResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return model.DetectionResult{}, fmt.Errorf("%w: API error (status %d): %s", common.ErrDetectionFailed, resp.StatusCode, string(body))
	}

	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return model.DetectionResult{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Choices) == 0 {
		return model.DetectionResult{}, fmt.Errorf("%w: no completion choices returned", common.ErrDetectionFailed)
	}

	return parseDetection(response.Choices[0].Message.Content)
}

// parseDetection extracts a DetectionResult from the model's JSON reply.
func parseDetection(content string) (model.DetectionResult, error) {
	var jsonResp struct {
		Currency        *string `json:"currency"`
		ProductName     string  `json:"productName"`
		ProductCategory string  `json:"productCategory"`
		StoreName       string  `json:"storeName"`
		RestaurantName  string  `json:"restaurantName"`
		PaymentMethod   string  `json:"paymentMethod"`
		TransactionID   string  `json:"transactionId"`
		Items           []struct {
			Name     string  `json:"name"`
			Currency string  `json:"currency"`
			Category string  `json:"category"`
			Price    float64 `json:"price"`
			Quantity int     `json:"quantity"`
		} `json:"items"`
		Price      float64 `json:"price"`
		Confidence float64 `json:"confidence"`
		Tax        float64 `json:"tax"`
		Total      float64 `json:"total"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return model.DetectionResult{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	result := model.DetectionResult{
		Price:           jsonResp.Price,
		Confidence:      jsonResp.Confidence,
		ProductName:     jsonResp.ProductName,
		ProductCategory: jsonResp.ProductCategory,
		StoreName:       jsonResp.StoreName,
		RestaurantName:  jsonResp.RestaurantName,
		PaymentMethod:   jsonResp.PaymentMethod,
		TransactionID:   jsonResp.TransactionID,
		Tax:             jsonResp.Tax,
		Total:           jsonResp.Total,
	}

	if jsonResp.Currency != nil {
		result.Currency = strings.ToUpper(strings.TrimSpace(*jsonResp.Currency))
	}

	for _, item := range jsonResp.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		result.Items = append(result.Items, model.LineItem{
			Name:     item.Name,
			Currency: strings.ToUpper(item.Currency),
			Category: item.Category,
			Price:    item.Price,
			Quantity: quantity,
		})
	}

	return result, nil
}

// openAIResponse represents the OpenAI API response structure.
type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
}
