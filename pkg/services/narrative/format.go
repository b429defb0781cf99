package narrative

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders v with two decimals and thousands separators.
func FormatAmount(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if s == "0.00" {
		sign = ""
	}

	intPart, frac, _ := strings.Cut(s, ".")
	return sign + groupThousands(intPart) + "." + frac
}

// FormatSigned is FormatAmount with an explicit plus sign for non-negative values.
func FormatSigned(v float64) string {
	s := FormatAmount(v)
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}

// FormatCurrency renders v as whole dollars, e.g. "-$1,250".
func FormatCurrency(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	if strings.HasPrefix(s, "-") {
		s = s[1:]
		if s != "0" {
			return "-$" + groupThousands(s)
		}
	}
	return "$" + groupThousands(s)
}

// FormatPercent renders a ratio as a percentage with one decimal, so 0.345
// becomes "34.5%".
func FormatPercent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}

// TitleCase turns a snake case name into space separated title case.
func TitleCase(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		}
	}
	return strings.Join(parts, " ")
}

func groupThousands(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
