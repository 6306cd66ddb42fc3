// Package explain fetches a gloss for one token in the context of its
// passage, either from the reading backend or directly from an LLM.
package explain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/wenyan/internal/backend"
)

// Path is the explain endpoint relative to the backend root.
const Path = "/api/explain"

// Explainer returns the explanation text for word as used in passage.
// An empty string is a valid answer; display policy belongs to the caller.
type Explainer interface {
	Explain(ctx context.Context, word, passage string) (string, error)
}

// HTTPExplainer calls POST /api/explain with {"word", "context"}.
type HTTPExplainer struct {
	client *backend.Client
}

// NewHTTP creates an Explainer backed by the reading backend.
func NewHTTP(client *backend.Client) *HTTPExplainer {
	return &HTTPExplainer{client: client}
}

type explainRequest struct {
	Word    string `json:"word"`
	Context string `json:"context"`
}

type explainResponse struct {
	Explanation *string `json:"explanation"`
}

func (e *HTTPExplainer) Explain(ctx context.Context, word, passage string) (string, error) {
	raw, err := e.client.PostJSON(ctx, Path, explainRequest{Word: word, Context: passage})
	if err != nil {
		return "", err
	}
	var resp explainResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &backend.BadResponseError{Endpoint: Path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if resp.Explanation == nil {
		return "", &backend.BadResponseError{Endpoint: Path, Err: fmt.Errorf("missing explanation field")}
	}
	return *resp.Explanation, nil
}
