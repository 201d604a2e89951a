package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsImageMimeType(t *testing.T) {
	tests := []struct {
		detected string
		want     bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"image/svg+xml; charset=utf-8", true},
		{"application/pdf", false},
		{"text/plain; charset=utf-8", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.detected, func(t *testing.T) {
			require.Equal(t, tt.want, IsImageMimeType(tt.detected))
		})
	}
}
