package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidNationalID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"1712345678", true},
		{"123456", true},
		{"1234567890123", true},
		{"12345", false},          // too short
		{"12345678901234", false}, // too long
		{"17123456a8", false},     // non-digit
		{"", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, IsValidNationalID(tt.id), "id %q", tt.id)
	}
}

func TestIsValidEmail(t *testing.T) {
	require.True(t, IsValidEmail("ana@example.com"))
	require.False(t, IsValidEmail("ana.example.com"))
	require.False(t, IsValidEmail("ana@examplecom"))
	require.False(t, IsValidEmail(""))
}

func TestGenerateHexToken(t *testing.T) {
	token, err := GenerateHexToken(32)
	require.NoError(t, err)
	require.Len(t, token, 64)

	other, err := GenerateHexToken(32)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}
