// Package ledger reads exported transaction ledgers and normalizes them into
// a date-ordered models.Ledger.
package ledger

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rocjay1/ledger-dashboard/internal/models"
)

// RawRow is one ledger row as read from the export, before any parsing.
// Row is the 1-based line number in the source, counting the header.
type RawRow struct {
	Row         int
	Date        string
	Amount      string
	Direction   string
	Category    string
	Subcategory string
	Note        string
	Description string
}

// Header names recognised in exports. The first matching amount column wins.
var (
	dateColumns        = []string{"Date"}
	amountColumns      = []string{"SEK", "Amount"}
	directionColumns   = []string{"Income/Expense", "Type"}
	categoryColumns    = []string{"Category"}
	subcategoryColumns = []string{"Subcategory"}
	noteColumns        = []string{"Note"}
	descriptionColumns = []string{"Description"}
)

// CheckFileType returns an UnsupportedFileTypeError unless filename has an
// extension ReadFile understands.
func CheckFileType(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx", ".xls", ".htm", ".html":
		return nil
	}
	return &models.UnsupportedFileTypeError{Filename: filename}
}

// ReadFile reads raw rows from r, choosing the format by filename extension.
// Money Manager ".xls" exports are HTML tables and are read as such.
func ReadFile(filename string, r io.Reader) ([]RawRow, error) {
	if err := CheckFileType(filename); err != nil {
		return nil, err
	}

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readXLSX(r)
	default:
		records, err = readHTMLTable(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return rowsFromRecords(records)
}

// rowsFromRecords maps a header row plus data rows onto RawRows.
func rowsFromRecords(records [][]string) ([]RawRow, error) {
	if len(records) == 0 {
		return []RawRow{}, nil
	}

	headers := parseHeaders(records[0])
	dateCol := indexOf(headers, dateColumns)
	amountCol := indexOf(headers, amountColumns)
	if dateCol == -1 {
		return nil, fmt.Errorf("missing Date column in header %v", headers)
	}
	if amountCol == -1 {
		return nil, fmt.Errorf("missing amount column (one of %v) in header %v", amountColumns, headers)
	}
	directionCol := indexOf(headers, directionColumns)
	categoryCol := indexOf(headers, categoryColumns)
	subcategoryCol := indexOf(headers, subcategoryColumns)
	noteCol := indexOf(headers, noteColumns)
	descriptionCol := indexOf(headers, descriptionColumns)

	rows := make([]RawRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, RawRow{
			Row:         i + 2,
			Date:        cell(record, dateCol),
			Amount:      cell(record, amountCol),
			Direction:   cell(record, directionCol),
			Category:    cell(record, categoryCol),
			Subcategory: cell(record, subcategoryCol),
			Note:        cell(record, noteCol),
			Description: cell(record, descriptionCol),
		})
	}
	return rows, nil
}

func parseHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return headers
}

// indexOf returns the first header matching any name, case-insensitively.
func indexOf(headers []string, names []string) int {
	for _, name := range names {
		for i, h := range headers {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

func cell(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
