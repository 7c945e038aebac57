package outwriter

import (
	"testing"

	"github.com/huangsam/osscompass/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		explain  bool
		fixed    int
		expected int
	}{
		{"wide terminal is capped", 200, false, repoFixedWidth, 70},
		{"medium terminal", 100, false, repoFixedWidth, 35},
		{"explain column reserves space", 150, true, repoFixedWidth, 50},
		{"narrow terminal keeps minimum", 60, false, repoFixedWidth, 15},
		{"issue table", 120, false, issueFixedWidth, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width, Explain: tt.explain}
			assert.Equal(t, tt.expected, getMaxTableNameWidth(cfg, tt.fixed))
		})
	}
}

func TestNewOutWriter(t *testing.T) {
	assert.NotNil(t, NewOutWriter())
}
