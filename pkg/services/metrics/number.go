package metrics

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var plainNumber = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseNumber parses a statement amount such as "123,456", "$ 1,234.50" or
// "(1,234)". Parenthesized amounts are negative.
func ParseNumber(raw string) (*float64, bool) {
	raw = strings.TrimSpace(raw)

	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}

	raw = strings.NewReplacer("$", "", ",", "").Replace(raw)
	raw = strings.TrimSpace(raw)
	if !plainNumber.MatchString(raw) {
		return nil, false
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, false
	}
	if negative {
		d = d.Neg()
	}
	return domain.Float(d.InexactFloat64()), true
}

// CoerceValue converts a value decoded from a JSON artifact into an optional
// float. Numbers pass through, numeric strings may carry thousands separators,
// everything else is unknown.
func CoerceValue(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil
		}
		f = d.InexactFloat64()
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil
		}
		f = d.InexactFloat64()
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// SnapshotFromRaw applies CoerceValue to every metric of a decoded artifact.
func SnapshotFromRaw(raw map[string]any) domain.MetricSnapshot {
	s := make(domain.MetricSnapshot, len(raw))
	for k, v := range raw {
		s[k] = CoerceValue(v)
	}
	return s
}
