package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tagsnap/tagsnap/internal/model"
)

// openAIClient asks a language model for typical market prices of the
// scanned product. The numbers are indicative, which is all the
// comparison overlay promises.
type openAIClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
}

func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	return &openAIClient{
		apiKey: cfg.APIKey,
		model:  modelName,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

func (c *openAIClient) Compare(ctx context.Context, productName string, price float64, currency string) ([]model.Comparison, error) {
	prompt := fmt.Sprintf(
		`A shopper saw %q priced at %.2f %s. List up to 3 comparable offers as JSON: {"comparisons":[{"productName":string,"price":number,"currency":%q,"source":string,"url":string}]}. Respond with ONLY the JSON object.`,
		productName, price, currency, currency)

	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.4,
		"max_tokens":  400,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	return parseComparisons(response.Choices[0].Message.Content, price)
}

// parseComparisons decodes the model's reply and fills in percent
// differences against the detected price.
func parseComparisons(content string, detectedPrice float64) ([]model.Comparison, error) {
	var jsonResp struct {
		Comparisons []struct {
			ProductName string  `json:"productName"`
			Currency    string  `json:"currency"`
			Source      string  `json:"source"`
			URL         string  `json:"url"`
			Price       float64 `json:"price"`
		} `json:"comparisons"`
	}

	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	comparisons := make([]model.Comparison, 0, len(jsonResp.Comparisons))
	for _, c := range jsonResp.Comparisons {
		cmp := model.Comparison{
			ProductName: c.ProductName,
			Currency:    c.Currency,
			Source:      c.Source,
			URL:         c.URL,
			Price:       c.Price,
		}
		if detectedPrice > 0 {
			cmp.PercentDifference = (c.Price - detectedPrice) / detectedPrice * 100
		}
		comparisons = append(comparisons, cmp)
	}

	return comparisons, nil
}
