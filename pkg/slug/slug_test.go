package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Electronics", "electronics"},
		{"spaces", "Home & Garden", "home-garden"},
		{"accents", "Électronique", "electronique"},
		{"german", "Straße", "strasse"},
		{"punctuation", "Kids' Toys!", "kids-toys"},
		{"leading trailing", "  --Books--  ", "books"},
		{"consecutive separators", "a   &   b", "a-b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}
