// Package library persists the saved-passage list as one JSON record in a
// key-value store.
package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/wenyan/internal/reader"
	"github.com/abhisek/wenyan/internal/store"
)

// Key names the durable record holding the library.
const Key = "wenyanwen_saved"

// recordSchema describes the stored record: a list of passages with
// positive ids.
const recordSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"id":      {"type": "integer", "minimum": 1},
			"content": {"type": "string"}
		},
		"required": ["id", "content"]
	}
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(strings.NewReader(recordSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://saved-library.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

// Decode parses a stored record. Anything that is not a list of
// {id, content} passages with distinct positive ids is an error.
func Decode(raw string) (reader.Library, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compile library schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var lib reader.Library
	if err := json.Unmarshal([]byte(raw), &lib); err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(lib))
	for _, p := range lib {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate passage id %d", p.ID)
		}
		seen[p.ID] = true
	}
	if lib == nil {
		lib = reader.Library{}
	}
	return lib, nil
}

// Persistence loads and saves the whole library. Neither operation fails
// from the caller's point of view.
type Persistence interface {
	LoadLibrary(ctx context.Context) reader.Library
	SaveLibrary(ctx context.Context, lib reader.Library)
}

// Adapter implements Persistence over a store.KV.
type Adapter struct {
	kv  store.KV
	log *slog.Logger
}

// New creates an Adapter.
func New(kv store.KV, log *slog.Logger) *Adapter {
	return &Adapter{kv: kv, log: log}
}

// LoadLibrary returns the stored library, or an empty one when nothing is
// stored or the stored record cannot be read.
func (a *Adapter) LoadLibrary(ctx context.Context) reader.Library {
	raw, ok, err := a.kv.Get(ctx, Key)
	if err != nil {
		a.log.Warn("load library", "error", err)
		return reader.Library{}
	}
	if !ok {
		return reader.Library{}
	}

	lib, err := Decode(raw)
	if err != nil {
		a.log.Warn("discarding malformed library", "error", err, "bytes", len(raw))
		return reader.Library{}
	}
	return lib
}

// SaveLibrary writes lib in the given order. Failures are logged only.
func (a *Adapter) SaveLibrary(ctx context.Context, lib reader.Library) {
	if lib == nil {
		lib = reader.Library{}
	}
	data, err := json.Marshal(lib)
	if err != nil {
		a.log.Error("encode library", "error", err)
		return
	}
	if err := a.kv.Set(ctx, Key, string(data)); err != nil {
		a.log.Warn("save library", "error", err, "passages", len(lib))
		return
	}
	a.log.Debug("library saved", "passages", len(lib))
}
