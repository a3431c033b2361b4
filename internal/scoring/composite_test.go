package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResponsibilityIndex(t *testing.T) {
	// 4.0*0.40 + (80/20)*0.25 + (60/20)*0.15 + (70/20)*0.20
	got := ResponsibilityIndex(4.0, 80, 60, 70)
	require.InDelta(t, 4.0*0.40+4.0*0.25+3.0*0.15+3.5*0.20, got, 1e-9)
}

func TestLoyaltyIndex(t *testing.T) {
	got := LoyaltyIndex(4.0, 3.0, 5.0)
	require.InDelta(t, 4.0*0.60+3.0*0.20+5.0*0.20, got, 1e-9)
}

func TestObedienceIndex(t *testing.T) {
	got := ObedienceIndex(4.0, 80)
	require.InDelta(t, 4.0*0.60+4.0*0.40, got, 1e-9)
}

func TestIndicesStayOnScale(t *testing.T) {
	require.InDelta(t, 5.0, ResponsibilityIndex(5, 100, 100, 100), 1e-9)
	require.Zero(t, ResponsibilityIndex(0, 0, 0, 0))
	require.InDelta(t, 5.0, LoyaltyIndex(5, 5, 5), 1e-9)
	require.InDelta(t, 5.0, ObedienceIndex(5, 100), 1e-9)
}
