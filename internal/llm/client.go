package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

// DefaultTimeout bounds a single classification request.
const DefaultTimeout = 15 * time.Second

// Classifier calls a hosted text-classification endpoint in the Hugging Face
// inference format: POST {"inputs": text} returns [[{"label","score"}, ...]].
type Classifier struct {
	Endpoint string
	APIKey   string

	HTTPClient *http.Client
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

type classifyError struct {
	Error string `json:"error"`
}

// Classify implements sentiment.Classifier. It returns the highest-scoring label.
func (c *Classifier) Classify(ctx context.Context, text string) (sentiment.Prediction, error) {
	if c.Endpoint == "" {
		return sentiment.Prediction{}, fmt.Errorf("classifier: endpoint required")
	}
	body, err := c.send(ctx, text)
	if err != nil {
		return sentiment.Prediction{}, err
	}
	preds, err := decodePredictions(body)
	if err != nil {
		return sentiment.Prediction{}, err
	}
	if len(preds) == 0 {
		return sentiment.Prediction{}, fmt.Errorf("classifier: empty response")
	}

	best := preds[0]
	for _, p := range preds[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, nil
}

func (c *Classifier) send(ctx context.Context, text string) ([]byte, error) {
	reqBody, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr classifyError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("classifier error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("classifier: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// decodePredictions accepts both the nested per-input list and a flat list.
func decodePredictions(body []byte) ([]sentiment.Prediction, error) {
	var nested [][]sentiment.Prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []sentiment.Prediction
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}

	var apiErr classifyError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return nil, fmt.Errorf("classifier error: %s", apiErr.Error)
	}
	return nil, fmt.Errorf("classifier: unrecognized response")
}

func (c *Classifier) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}
