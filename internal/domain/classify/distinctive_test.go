package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
)

func TestFilterDistinctive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "empty",
			tokens: nil,
			want:   nil,
		},
		{
			name:   "gender and age words dropped",
			tokens: []string{"メンズ", "沈香香水", "ladies", "紳士用"},
			want:   []string{"沈香香水"},
		},
		{
			name:   "size codes dropped",
			tokens: []string{"xl", "セーター", "3l"},
			want:   []string{"セーター"},
		},
		{
			name:   "quantity tokens dropped",
			tokens: []string{"500ml", "シャンプー", "12個", "3パック"},
			want:   []string{"シャンプー"},
		},
		{
			name:   "color names dropped",
			tokens: []string{"ブラック", "財布", "navy", "黒"},
			want:   []string{"財布"},
		},
		{
			name:   "short ascii noise dropped",
			tokens: []string{"ll", "01", "ab3", "aromawood"},
			want:   []string{"aromawood"},
		},
		{
			name:   "short ideograph tokens survive the noise rule",
			tokens: []string{"沈香", "香水"},
			want:   []string{"沈香", "香水"},
		},
		{
			name:   "order preserved and dedup applied",
			tokens: []string{"香水", "沈香", "香水", "メンズ"},
			want:   []string{"香水", "沈香"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classify.FilterDistinctive(tt.tokens))
		})
	}
}

//Personal.AI order the ending
