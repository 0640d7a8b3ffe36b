package statement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/settled-dev/settled/internal/model"
)

// MalformedRowError reports a statement row that cannot be grouped. The
// row is skipped; the run continues without it.
type MalformedRowError struct {
	Line   int
	Key    string
	Reason string
}

func (e MalformedRowError) Error() string {
	return fmt.Sprintf("statement row %d (%q): %s", e.Line, e.Key, e.Reason)
}

// groupKeyPattern matches the currency portion of the composite
// country/currency key, e.g. "USD" in "US (USD)".
var groupKeyPattern = regexp.MustCompile(`\(([A-Za-z]+)\)`)

// ParseGroupKey extracts the currency code from a composite
// country/currency key like "US (USD)".
func ParseGroupKey(key string) (string, error) {
	m := groupKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", fmt.Errorf("no currency code in group key %q", key)
	}
	return strings.ToUpper(m[1]), nil
}

// Aggregate sums statement rows into per-currency group totals. The
// grouping key is the currency parsed out of each row's composite key;
// multiple countries sharing a currency collapse into one group. Rows
// whose key cannot be parsed are skipped and reported. Groups whose
// totals are all zero are retained.
func Aggregate(rows []model.StatementRow) (map[string]model.GroupTotals, []MalformedRowError) {
	totals := make(map[string]model.GroupTotals)
	var malformed []MalformedRowError

	for _, row := range rows {
		currency, err := ParseGroupKey(row.GroupKey)
		if err != nil {
			malformed = append(malformed, MalformedRowError{
				Line:   row.Line,
				Key:    row.GroupKey,
				Reason: err.Error(),
			})
			continue
		}

		gt := totals[currency]
		gt.Currency = currency
		gt.Gross = gt.Gross.Add(row.Gross)
		gt.Revenue = gt.Revenue.Add(row.Revenue)
		gt.Adjustment = gt.Adjustment.Add(row.Adjustment)
		gt.Withholding = gt.Withholding.Add(row.Withholding)
		totals[currency] = gt
	}

	return totals, malformed
}
