package spoolman

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      float64
		valid     bool
		malformed bool
	}{
		{"number", `215`, 215, true, false},
		{"float", `1.75`, 1.75, true, false},
		{"null", `null`, 0, false, false},
		{"numeric string", `"240"`, 240, true, false},
		{"decimal comma", `"1,24"`, 1.24, true, false},
		{"blank string", `""`, 0, false, false},
		{"garbage string", `"hot"`, 0, false, true},
		{"boolean", `true`, 0, false, true},
		{"nan string", `"NaN"`, 0, false, true},
		{"inf string", `"inf"`, 0, false, true},
		{"signed inf string", `"+Inf"`, 0, false, true},
		{"infinity string", `"-infinity"`, 0, false, true},
		{"overflow", `1e400`, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.valid, n.Valid)
			assert.Equal(t, tt.malformed, n.Malformed)
			if tt.valid {
				assert.InDelta(t, tt.want, n.Value, 1e-9)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, Num(215), ParseNumber(" 215 "))
	assert.Equal(t, Number{}, ParseNumber("nil"))
	for _, s := range []string{"NaN", "nan", "Inf", "+Inf", "-inf", "infinity"} {
		n := ParseNumber(s)
		assert.False(t, n.Valid, s)
		assert.True(t, n.Malformed, s)
		assert.Equal(t, s, n.Raw)
	}
}

func TestNumberDefaults(t *testing.T) {
	assert.Equal(t, 1.75, Number{}.Or(1.75))
	assert.Equal(t, 0.0, Num(0).Or(1.75))
	assert.Equal(t, 1.24, Num(0).OrNonZero(1.24))
	assert.Equal(t, 1.27, Num(1.27).OrNonZero(1.24))
	assert.Equal(t, 220.0, Number{Malformed: true, Raw: "x"}.OrNonZero(220))
}

func TestNumberMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: Num(0.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0.5,"b":null}`, string(out))
}

func TestFlag(t *testing.T) {
	tests := []struct {
		input string
		want  Flag
	}{
		{`true`, Flag{Value: true, Valid: true}},
		{`1`, Flag{Value: true, Valid: true}},
		{`"yes"`, Flag{Value: true, Valid: true}},
		{`false`, Flag{Value: false, Valid: true}},
		{`"0"`, Flag{Value: false, Valid: true}},
		{`null`, Flag{}},
		{`"maybe"`, Flag{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.want, f)
		})
	}
}
