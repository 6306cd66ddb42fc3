package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOutput(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"required only", `{"explanation":"所以：用來。"}`, true},
		{"with enum", `{"explanation":"道：道理。","pos":"n"}`, true},
		{"missing required", `{"pos":"n"}`, false},
		{"wrong type", `{"explanation":3}`, false},
		{"enum miss", `{"explanation":"也","pos":"x"}`, false},
		{"extra field", `{"explanation":"也","reading":"yě"}`, false},
		{"not json", `explanation: 也`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkOutput(explanationSchema, json.RawMessage(tt.raw))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var bad *InvalidOutputError
			assert.ErrorAs(t, err, &bad)
		})
	}
}

func TestCheckOutput_NilSchema(t *testing.T) {
	assert.NoError(t, checkOutput(nil, json.RawMessage(`not json`)))
}

func TestUnfence(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unfence(tt.in), "input %q", tt.in)
	}
}
