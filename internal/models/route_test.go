package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMiles(t *testing.T) {
	tests := []struct {
		name     string
		distance string
		want     float64
	}{
		{"typical", "156.7 mi", 156.7},
		{"integer", "42 mi", 42},
		{"no unit", "3.5", 3.5},
		{"leading space", "  12.0 mi", 12},
		{"empty", "", 0},
		{"garbage", "unknown", 0},
		{"unit first", "mi 10", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Route{Distance: tt.distance}
			assert.Equal(t, tt.want, r.DistanceMiles())
		})
	}
}
