package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiled = struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}{byName: map[string]*jsonschema.Schema{}}

// checkOutput validates raw against s. Nil s accepts anything.
func checkOutput(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &InvalidOutputError{Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}

	sch, err := compile(s)
	if err != nil {
		return &InvalidOutputError{Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &InvalidOutputError{Content: raw, Err: err}
	}
	return nil
}

// compile returns s compiled, caching by name.
func compile(s *Schema) (*jsonschema.Schema, error) {
	compiled.Lock()
	defer compiled.Unlock()

	if sch, ok := compiled.byName[s.Name]; ok {
		return sch, nil
	}

	// The compiler wants decoded JSON values, not Go maps with []string.
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}

	c := jsonschema.NewCompiler()
	url := "mem://" + s.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	compiled.byName[s.Name] = sch
	return sch, nil
}

// unfence strips a Markdown code fence around a JSON answer. Local models
// often wrap structured output in one.
func unfence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
