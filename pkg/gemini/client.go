package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leftys-backend/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type (
	// Client wraps the Gemini generateContent endpoint and returns raw model
	// text. Callers are responsible for prompt construction and parsing.
	Client interface {
		Generate(ctx context.Context, prompt string) (string, error)
		Configured() bool
	}

	client struct {
		apiKey     string
		model      string
		baseURL    string
		httpClient *http.Client
	}
)

func NewClient(apiKey, model, baseURL string) Client {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *client) Configured() bool {
	return c.apiKey != ""
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", domain.ErrGeminiNotConfigured
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.7,
			"topP":        0.8,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: %s - %s", domain.ErrGeminiAPIFailed, resp.Status, string(bodyBytes))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeminiInvalidJSON, err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrGeminiAPIFailed
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// ExtractJSON pulls the first JSON value out of model output, tolerating
// markdown code fences and surrounding prose.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "[")
	endIdx := strings.LastIndex(text, "]")
	objStart := strings.Index(text, "{")
	objEnd := strings.LastIndex(text, "}")

	// Prefer whichever container opens first.
	if startIdx != -1 && endIdx != -1 && startIdx < endIdx &&
		(objStart == -1 || startIdx < objStart) {
		return text[startIdx : endIdx+1], nil
	}
	if objStart != -1 && objEnd != -1 && objStart < objEnd {
		return text[objStart : objEnd+1], nil
	}
	return "", domain.ErrGeminiInvalidJSON
}
