package ledger

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultDateLayouts are tried in order when Options.DateLayouts is empty.
// They cover Money Manager exports plus ISO dates.
var DefaultDateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339Nano,
}

// Options controls how raw rows are parsed.
type Options struct {
	DateLayouts []string
	Location    *time.Location // defaults to UTC
}

func (o Options) layouts() []string {
	if len(o.DateLayouts) == 0 {
		return DefaultDateLayouts
	}
	return o.DateLayouts
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Report describes what normalization kept and dropped.
type Report struct {
	RowsRead    int                  `json:"rows_read"`
	RowsKept    int                  `json:"rows_kept"`
	RowsDropped int                  `json:"rows_dropped"`
	Errors      []*models.ParseError `json:"-"`
}

// Messages returns the parse errors as strings.
func (r Report) Messages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return msgs
}

var errEmpty = errors.New("empty value")

// Normalize parses rows into a ledger sorted by date. Rows whose date or
// amount does not parse are dropped and listed in the report. It returns an
// EmptyLedgerError when no row survives.
func Normalize(rows []RawRow, opts Options) (models.Ledger, Report, error) {
	report := Report{RowsRead: len(rows)}
	txns := make([]models.Transaction, 0, len(rows))

	for _, row := range rows {
		date, err := parseDate(row.Date, opts.layouts(), opts.location())
		if err != nil {
			report.Errors = append(report.Errors, &models.ParseError{Row: row.Row, Field: "Date", Value: row.Date, Err: err})
			continue
		}

		amount, err := parseAmount(row.Amount)
		if err != nil {
			report.Errors = append(report.Errors, &models.ParseError{Row: row.Row, Field: "Amount", Value: row.Amount, Err: err})
			continue
		}

		txns = append(txns, models.Transaction{
			Date:        date,
			Amount:      amount,
			Direction:   parseDirection(row.Direction),
			Category:    strings.TrimSpace(row.Category),
			Subcategory: strings.TrimSpace(row.Subcategory),
			Note:        strings.TrimSpace(row.Note),
			Description: strings.TrimSpace(row.Description),
		})
	}

	report.RowsKept = len(txns)
	report.RowsDropped = report.RowsRead - report.RowsKept

	if len(txns) == 0 {
		return models.Ledger{}, report, &models.EmptyLedgerError{RowsRead: report.RowsRead, RowsDropped: report.RowsDropped}
	}
	return models.NewLedger(txns), report, nil
}

// Load reads and normalizes a ledger file in one step.
func Load(filename string, r io.Reader, opts Options) (models.Ledger, Report, error) {
	rows, err := ReadFile(filename, r)
	if err != nil {
		return models.Ledger{}, Report{}, err
	}
	return Normalize(rows, opts)
}

// Raw converts a ledger back into raw rows that Normalize accepts unchanged.
func Raw(l models.Ledger) []RawRow {
	txns := l.Transactions()
	rows := make([]RawRow, len(txns))
	for i, t := range txns {
		rows[i] = RawRow{
			Row:         i + 2,
			Date:        t.Date.Format(time.RFC3339Nano),
			Amount:      t.Amount.String(),
			Direction:   string(t.Direction),
			Category:    t.Category,
			Subcategory: t.Subcategory,
			Note:        t.Note,
			Description: t.Description,
		}
	}
	return rows
}

func parseDate(s string, layouts []string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmpty
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			// Dates with an explicit offset are moved into loc so every
			// ledger date buckets by the same calendar.
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches (tried %s)", strings.Join(layouts, ", "))
}

// parseAmount accepts "1234.5", "1,234.50", "1 234,50" and "1234,5".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\u202f' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, errEmpty
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}
	return decimal.NewFromString(s)
}

func parseDirection(s string) models.Direction {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "income":
		return models.DirectionIncome
	case "expense", "exp.":
		return models.DirectionExpense
	}
	return models.Direction(s)
}
