package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatio_Identical(t *testing.T) {
	assert.Equal(t, 100.0, TokenSetRatio("hilton seattle downtown", "hilton seattle downtown"))
}

func TestTokenSetRatio_WordOrderIrrelevant(t *testing.T) {
	assert.Equal(t, 100.0, TokenSetRatio("seattle downtown hilton", "hilton seattle downtown"))
}

func TestTokenSetRatio_SubsetScores100(t *testing.T) {
	// Shared tokens compared against themselves win the pairwise max.
	assert.Equal(t, 100.0, TokenSetRatio("hilton downtown", "hilton seattle downtown"))
	assert.Equal(t, 100.0, TokenSetRatio("hilton seattle downtown", "hilton downtown"))
}

func TestTokenSetRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"grand hotel", "grand plaza"},
		{"hilton downtown", "hilton seattle downtown"},
		{"marriott courtyard", "hilton inn"},
		{"a b c", "c b x"},
	}
	for _, p := range pairs {
		assert.Equal(t, TokenSetRatio(p[0], p[1]), TokenSetRatio(p[1], p[0]), "pair %v", p)
	}
}

func TestTokenSetRatio_PartialOverlap(t *testing.T) {
	// Shared "grand"; best pair is the two combined strings:
	// dist("grand hotel","grand plaza")=5 over len 11 -> 100*6/11.
	assert.InDelta(t, 54.55, TokenSetRatio("grand hotel", "grand plaza"), 0.01)
}

func TestTokenSetRatio_Disjoint(t *testing.T) {
	score := TokenSetRatio("marriott courtyard", "hilton inn")
	assert.Less(t, score, 50.0)
	assert.Greater(t, score, 0.0)
}

func TestTokenSetRatio_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TokenSetRatio("", ""))
	assert.Equal(t, 0.0, TokenSetRatio("hilton", ""))
	assert.Equal(t, 0.0, TokenSetRatio("", "hilton"))
}

func TestTokenSetRatio_DuplicateTokensCollapse(t *testing.T) {
	// Sets, not bags: repeated tokens count once.
	assert.Equal(t, 100.0, TokenSetRatio("hilton hilton downtown", "downtown hilton"))
}

func TestRatio_Identical(t *testing.T) {
	assert.Equal(t, 100.0, ratio("hilton", "hilton"))
}

func TestRatio_Empty(t *testing.T) {
	assert.Equal(t, 0.0, ratio("", ""))
	assert.Equal(t, 0.0, ratio("a", ""))
}

func TestRatio_NormalizedByLongest(t *testing.T) {
	// One substitution over four runes -> 75.
	assert.InDelta(t, 75.0, ratio("abcd", "abce"), 0.001)
	// Three trailing substitutions over twenty runes -> 85.
	assert.InDelta(t, 85.0, ratio("abcdefghijklmnopqrst", "abcdefghijklmnopqxyz"), 0.001)
}
