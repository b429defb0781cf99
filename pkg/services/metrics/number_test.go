package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{raw: "123,456", want: 123456, wantOK: true},
		{raw: "(1,234)", want: -1234, wantOK: true},
		{raw: "123.45", want: 123.45, wantOK: true},
		{raw: "$ 73,716", want: 73716, wantOK: true},
		{raw: "($ 12.5)", want: -12.5, wantOK: true},
		{raw: "-42", want: -42, wantOK: true},
		{raw: "  9  ", want: 9, wantOK: true},
		{raw: "", wantOK: false},
		{raw: "N/A", wantOK: false},
		{raw: "1.2.3", wantOK: false},
		{raw: "(1)x", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseNumber(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *float64
	}{
		{name: "nil", in: nil},
		{name: "float", in: 12.5, want: ptr(12.5)},
		{name: "int", in: 7, want: ptr(7)},
		{name: "int64", in: int64(-3), want: ptr(-3)},
		{name: "json number", in: json.Number("1500.25"), want: ptr(1500.25)},
		{name: "string with separators", in: " 1,234,567.8 ", want: ptr(1234567.8)},
		{name: "negative string", in: "-20", want: ptr(-20)},
		{name: "garbage string", in: "twelve"},
		{name: "bool", in: true},
		{name: "nan", in: math.NaN()},
		{name: "inf", in: math.Inf(1)},
		{name: "map", in: map[string]any{"v": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceValue(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestSnapshotFromRaw(t *testing.T) {
	s := SnapshotFromRaw(map[string]any{
		"revenue":    "1,000",
		"net_income": 200.0,
		"total":      nil,
	})

	assert.Len(t, s, 3)
	v, ok := s.Get("revenue")
	assert.True(t, ok)
	assert.Equal(t, 1000.0, v)
	v, ok = s.Get("net_income")
	assert.True(t, ok)
	assert.Equal(t, 200.0, v)
	_, ok = s.Get("total")
	assert.False(t, ok)
}

func ptr(v float64) *float64 { return &v }
