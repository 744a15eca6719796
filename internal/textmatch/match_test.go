package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		query    string
		want     bool
	}{
		{"empty query matches", "Present Perfect", "", true},
		{"blank query matches", "Present Perfect", "   ", true},
		{"ascii case", "Present Perfect", "PERFECT", true},
		{"cyrillic case", "С тех пор как", "тех ПОР", true},
		{"no match", "Past Simple", "perfect", false},
		{"surrounding spaces ignored", "already", "  read ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.haystack, Normalize(tt.query)))
		})
	}
}

func TestAnyContains(t *testing.T) {
	q := Normalize("уже")
	assert.True(t, AnyContains(q, "already", "уже"))
	assert.False(t, AnyContains(q, "since", "с тех пор как"))
	assert.True(t, AnyContains("", "anything"))
}
