package classify_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "single rune tokens dropped",
			input: "a bb ccc",
			want:  []string{"bb", "ccc"},
		},
		{
			name:  "dedup",
			input: "wood wood WOOD",
			want:  []string{"wood"},
		},
		{
			name:  "compound keyword separates from glued neighbours",
			input: "紳士用Lサイズ靴下メンズ",
			want:  []string{"lサイズ靴下", "メンズ", "紳士用"},
		},
		{
			name:  "long mixed-script token also yields script runs",
			input: "天然沈香木アロマウッドaromawood",
			want: []string{
				"aromawood",
				"アロマウッド",
				"天然沈香木",
				"天然沈香木アロマウッドaromawood",
			},
		},
		{
			name:  "short tokens not script-split",
			input: "沈香油",
			want:  []string{"沈香油"},
		},
		{
			name:  "punctuation only",
			input: "--!!",
			want:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ElementsMatch(t, tt.want, classify.Tokenize(tt.input))
		})
	}
}

func TestTokenizeDeterministicOrder(t *testing.T) {
	t.Parallel()

	first := classify.Tokenize("天然沈香木アロマウッドaromawood 50ml メンズ")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classify.Tokenize("天然沈香木アロマウッドaromawood 50ml メンズ"))
	}
	assert.True(t, sort.StringsAreSorted(first))
}

//Personal.AI order the ending
