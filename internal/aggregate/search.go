package aggregate

import (
	"sort"
	"strings"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"golang.org/x/text/cases"
)

// Search returns the transactions whose direction, category, subcategory,
// note or description contains query, ignoring case. An empty query matches
// everything.
func Search(l models.Ledger, query string) []models.Transaction {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	out := []models.Transaction{}
	l.Each(func(t models.Transaction) {
		fields := []string{string(t.Direction), t.Category, t.Subcategory, t.Note, t.Description}
		for _, f := range fields {
			if strings.Contains(fold.String(f), q) {
				out = append(out, t)
				return
			}
		}
	})
	return out
}

// Suggestions lists the distinct non-empty categories, subcategories and
// notes, sorted, for search autocompletion.
func Suggestions(l models.Ledger) []string {
	seen := make(map[string]bool)
	l.Each(func(t models.Transaction) {
		for _, v := range []string{t.Category, t.Subcategory, t.Note} {
			if v != "" {
				seen[v] = true
			}
		}
	})

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Largest returns up to n transactions of the given direction ordered by
// descending amount; ties keep ledger order.
func Largest(l models.Ledger, direction models.Direction, n int) []models.Transaction {
	if n <= 0 {
		return []models.Transaction{}
	}
	matches := l.Filter(func(t models.Transaction) bool { return t.Direction == direction }).Transactions()
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Amount.GreaterThan(matches[j].Amount)
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}
