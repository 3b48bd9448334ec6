package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "already normal", input: "aroma wood", want: "aroma wood"},
		{name: "lowercases", input: "Aroma WOOD", want: "aroma wood"},
		{name: "fullwidth latin folds", input: "ＡＢＣ１２３", want: "abc123"},
		{name: "halfwidth kana folds", input: "ｱﾛﾏｳｯﾄﾞ", want: "アロマウッド"},
		{name: "straight quote stripped", input: "L'Occitane", want: "loccitane"},
		{name: "curly quote stripped", input: "L’Occitane", want: "loccitane"},
		{name: "punctuation run collapses", input: "foo--bar__baz", want: "foo bar baz"},
		{name: "whitespace collapses and trims", input: "  沈香   香水  ", want: "沈香 香水"},
		{name: "symbols become separators", input: "【新品】沈香・香水(50ml)", want: "新品 沈香 香水 50ml"},
		{name: "only punctuation", input: "!!??--", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classify.Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"【新品】Ｙａｍａｄａ沈香・香水(50ml)",
		"L’Occitane　ハンドクリーム",
		"  mixed　ＷＩＤＴＨ  text  ",
	}
	for _, in := range inputs {
		once := classify.Normalize(in)
		assert.Equal(t, once, classify.Normalize(once), "input %q", in)
	}
}

//Personal.AI order the ending
