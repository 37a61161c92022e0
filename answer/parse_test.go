package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "nvidia earnings", "nvidia earnings"},
		{"fenced json", "```json\n{\"queries\":[\"a\"]}\n```", `{"queries":["a"]}`},
		{"bare fence", "```\nNO_SEARCH\n```", "NO_SEARCH"},
		{"think block", "<think>The user wants earnings info.</think>\nnvidia earnings", "nvidia earnings"},
		{"think and fence", "<think>reasoning</think>```json\n{}\n```", "{}"},
		{"whitespace", "  query  ", "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanResponse(tt.in))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid untouched", `{"queries": ["a", "b"]}`, `{"queries": ["a", "b"]}`},
		{"missing opening quote", `{queries": ["a"]}`, `{"queries": ["a"]}`},
		{"missing quote after comma", `{"a": 1, b": 2}`, `{"a": 1, "b": 2}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.in))
		})
	}
}
