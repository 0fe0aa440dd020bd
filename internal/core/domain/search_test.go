package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestQueryOptions_EffectiveTopK tests the top-k default
func TestQueryOptions_EffectiveTopK(t *testing.T) {
	tests := []struct {
		name     string
		opts     QueryOptions
		expected int
	}{
		{name: "zero uses default", opts: QueryOptions{}, expected: DefaultTopK},
		{name: "negative uses default", opts: QueryOptions{TopK: -1}, expected: DefaultTopK},
		{name: "explicit", opts: QueryOptions{TopK: 5, Category: "ops"}, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.opts.EffectiveTopK())
		})
	}
}
