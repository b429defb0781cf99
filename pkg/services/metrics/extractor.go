package metrics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

const (
	snippetWindow = 350
	snippetMaxLen = 220
	numberPattern = `(?P<num>\(?\$?\s*[\d,]+(?:\.\d+)?\)?)`
)

type metricPatterns struct {
	name     string
	patterns []*regexp.Regexp
}

func compile(expr string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(expr, "{NUM}", numberPattern))
}

// Patterns are tried in order; the first one that yields a number wins.
var statementPatterns = []metricPatterns{
	{
		name: domain.MetricRevenue,
		patterns: []*regexp.Regexp{
			// "Products $" carries a currency sign, the cost of sales line does not
			compile(`(?im)^\s*products\s*\$\s*{NUM}`),
			// a footnote marker like "(1)" must not be read as the amount
			compile(`(?im)^\s*total net sales(?:\s*\(\d+\))?[^\n\d(]*?{NUM}`),
			compile(`(?im)^\s*net sales(?:\s*\(\d+\))?[^\n\d(]*?{NUM}`),
		},
	},
	{
		name:     domain.MetricGrossProfit,
		patterns: []*regexp.Regexp{compile(`(?im)^\s*(gross profit|gross margin)\b[^\n]*?{NUM}`)},
	},
	{
		name:     domain.MetricOperatingIncome,
		patterns: []*regexp.Regexp{compile(`(?im)^\s*operating income\b[^\n]*?{NUM}`)},
	},
	{
		name:     domain.MetricOtherIncomeExpenseNet,
		patterns: []*regexp.Regexp{compile(`(?im)^\s*other income/\(expense\),\s*net\b[^\n]*?{NUM}`)},
	},
	{
		name:     domain.MetricPreTaxIncome,
		patterns: []*regexp.Regexp{compile(`(?im)^\s*income before (provision for )?income taxes\b[^\n]*?{NUM}`)},
	},
	{
		name:     domain.MetricIncomeTaxes,
		patterns: []*regexp.Regexp{compile(`(?im)^\s*provision for income taxes\b[^\n]*?{NUM}`)},
	},
	{
		name:     domain.MetricNetIncome,
		patterns: []*regexp.Regexp{compile(`(?im)^\s*net income\b[^\n]*?{NUM}`)},
	},
	{
		name:     domain.MetricTotalAssets,
		patterns: []*regexp.Regexp{compile(`(?im)^\s*total assets\b[^\n]*?{NUM}`)},
	},
	{
		name:     domain.MetricTotalLiabilities,
		patterns: []*regexp.Regexp{compile(`(?im)^\s*total liabilities\b[^\n]*?{NUM}`)},
	},
}

// MetricNames lists every metric Extract reports, in extraction order.
func MetricNames() []string {
	names := make([]string, 0, len(statementPatterns))
	for _, mp := range statementPatterns {
		names = append(names, mp.name)
	}
	return names
}

// Extract runs the statement patterns over the pages. Every known metric is
// present in the result, nil when no page matched.
func Extract(pages []domain.Page) domain.ExtractedMetrics {
	out := domain.ExtractedMetrics{
		Metrics:  make(domain.MetricSnapshot, len(statementPatterns)),
		Evidence: make(map[string]*domain.Evidence, len(statementPatterns)),
	}

	for _, mp := range statementPatterns {
		out.Metrics[mp.name] = nil
		out.Evidence[mp.name] = nil

		for _, re := range mp.patterns {
			val, ev, ok := findFirst(re, pages)
			if !ok {
				continue
			}
			out.Metrics[mp.name] = val
			out.Evidence[mp.name] = ev
			break
		}
	}
	return out
}

func findFirst(re *regexp.Regexp, pages []domain.Page) (*float64, *domain.Evidence, bool) {
	numIdx := re.SubexpIndex("num")

	for _, p := range pages {
		m := re.FindStringSubmatchIndex(p.Text)
		if m == nil {
			continue
		}

		val, ok := ParseNumber(p.Text[m[2*numIdx]:m[2*numIdx+1]])
		if !ok {
			continue
		}

		return val, &domain.Evidence{
			Page:    p.Number,
			Snippet: cleanSnippet(runeWindow(p.Text[m[0]:], snippetWindow)),
		}, true
	}
	return nil, nil, false
}

// runeWindow returns the first n characters of s.
func runeWindow(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func cleanSnippet(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= snippetMaxLen {
		return s
	}
	return string([]rune(s)[:snippetMaxLen])
}
