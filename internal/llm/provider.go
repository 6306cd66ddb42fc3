// Package llm talks to hosted and local language models for the direct
// explanation strategy. Every vendor sits behind Provider; retries and the
// event log are decorators around it.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one prompt to a model and returns its answer.
type Provider interface {
	// Generate runs req. When req.Schema is set the answer is JSON that has
	// been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the model requests are sent to.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the vendor for structured output. Nil means free text,
	// returned as a JSON string.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default.
	Temperature float64
}

// Message is one turn of the prompt.
type Message struct {
	Role    Role
	Content string
}

// Role is who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the answer must satisfy. Name is kebab-case and
// doubles as the schema name in vendor requests.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is why the model stopped, normalised across vendors.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a model's answer.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// finish turns a vendor's text answer into a Response. Schema answers are
// unfenced and validated; free text is quoted as a JSON string.
func finish(req Request, text string, usage Usage, model string, stop StopReason) (*Response, error) {
	var content json.RawMessage
	if req.Schema != nil {
		content = json.RawMessage(unfence(text))
		if err := checkOutput(req.Schema, content); err != nil {
			if stop == StopMaxTokens {
				return nil, &TruncatedError{Content: content}
			}
			return nil, err
		}
	} else {
		quoted, _ := json.Marshal(text)
		content = quoted
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
