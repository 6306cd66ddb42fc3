// Package analysis segments a classical Chinese passage into annotated
// tokens through the reading backend.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/wenyan/internal/backend"
	"github.com/abhisek/wenyan/internal/reader"
)

// Path is the analyze endpoint relative to the backend root.
const Path = "/api/analyze"

// Analyzer turns text into an ordered token sequence.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (reader.TokenSequence, error)
}

// tokenSchema is the contract for the analyze response body.
var tokenSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":   map[string]any{"type": "string", "minLength": 1},
			"pos":    map[string]any{"type": "string"},
			"pinyin": map[string]any{"type": "string"},
		},
		"required": []any{"text", "pos", "pinyin"},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value.
		defBytes, err := json.Marshal(tokenSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://analyze-response.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

// HTTPAnalyzer calls POST /api/analyze with {"text": ...}.
type HTTPAnalyzer struct {
	client *backend.Client
}

// NewHTTP creates an Analyzer backed by the reading backend.
func NewHTTP(client *backend.Client) *HTTPAnalyzer {
	return &HTTPAnalyzer{client: client}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze performs one round trip. It never retries.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, text string) (reader.TokenSequence, error) {
	raw, err := a.client.PostJSON(ctx, Path, analyzeRequest{Text: text})
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// Decode validates an analyze response body and converts it to tokens.
func Decode(raw []byte) (reader.TokenSequence, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &backend.BadResponseError{Endpoint: Path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compile analyze schema: %w", err)
	}
	if err := s.Validate(parsed); err != nil {
		return nil, &backend.BadResponseError{Endpoint: Path, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var tokens reader.TokenSequence
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, &backend.BadResponseError{Endpoint: Path, Err: err}
	}
	if tokens == nil {
		tokens = reader.TokenSequence{}
	}
	return tokens, nil
}
