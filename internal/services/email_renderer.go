package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/rocjay1/ledger-dashboard/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxListedIssues caps the row problems listed in one email.
const maxListedIssues = 20

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators and two decimals.
func FormatAmount(d decimal.Decimal, currency string) string {
	return strings.TrimSpace(printer.Sprintf("%.2f %s", d.Round(2).InexactFloat64(), currency))
}

func renderList(items []string) string {
	var b strings.Builder
	shown := items
	if len(shown) > maxListedIssues {
		shown = shown[:maxListedIssues]
	}
	for _, item := range shown {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(item))
	}
	if more := len(items) - len(shown); more > 0 {
		fmt.Fprintf(&b, "<li>... and %d more</li>", more)
	}
	return b.String()
}

// RenderWarningSection renders the dropped-rows warning box.
func RenderWarningSection(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}

	return fmt.Sprintf(`
		<div style="background-color: #fff4f4; border-left: 5px solid #d13438; padding: 15px; margin-bottom: 20px;">
			<h3 style="color: #d13438; margin-top: 0; font-size: 18px;">Warning: %d rows were skipped</h3>
			<ul style="margin-bottom: 0; padding-left: 20px;">
				%s
			</ul>
		</div>
	`, len(warnings), renderList(warnings))
}

func renderPage(color, title, content string) string {
	return fmt.Sprintf(`
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: %s; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">%s</h2>
				</div>
				<div style="padding: 20px;">
					%s
				</div>
			</div>
		</body>
		</html>
	`, color, html.EscapeString(title), content)
}

func renderRows(rows [][2]string) string {
	var b strings.Builder
	b.WriteString(`<table style="width: 100%; border-collapse: collapse;">`)
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr><td style="padding: 4px 0;">%s</td><td style="padding: 4px 0; text-align: right;"><b>%s</b></td></tr>`,
			html.EscapeString(r[0]), html.EscapeString(r[1]))
	}
	b.WriteString(`</table>`)
	return b.String()
}

// RenderErrorBody renders the full HTML body for a failed upload.
func RenderErrorBody(filename string, errors []string) string {
	content := fmt.Sprintf(`<p>The uploaded file <b>%s</b> could not be processed:</p><ul>%s</ul>`,
		html.EscapeString(filename), renderList(errors))
	return renderPage("#d13438", "Upload Failed", content)
}

// RenderSummaryBody renders the HTML body for a processed upload.
func RenderSummaryBody(report models.UploadReport, totals models.Totals, warnings []string, currency string) string {
	rows := [][2]string{
		{"Period", fmt.Sprintf("%s to %s", report.FirstDate, report.LastDate)},
		{"Rows kept", printer.Sprintf("%d of %d", report.RowsKept, report.RowsRead)},
		{"Income", FormatAmount(totals.Income, currency)},
		{"Expense", FormatAmount(totals.Expense, currency)},
		{"Net", FormatAmount(totals.Net, currency)},
	}
	content := fmt.Sprintf(`%s<p><b>%s</b> is ready on the dashboard.</p>%s`,
		RenderWarningSection(warnings), html.EscapeString(report.Filename), renderRows(rows))
	return renderPage("#0078d4", "Upload Processed", content)
}

// RenderDigestBody renders the monthly digest.
func RenderDigestBody(d models.Digest, currency string) string {
	ratio := "n/a"
	if d.Ratio.Defined() {
		ratio = printer.Sprintf("%.2f", d.Ratio.Value)
	}
	rows := [][2]string{
		{"Income", FormatAmount(d.Income, currency)},
		{"Expense", FormatAmount(d.Expense, currency)},
		{"Net", FormatAmount(d.Net, currency)},
		{"Expense / Income", ratio},
	}

	var b strings.Builder
	b.WriteString(renderRows(rows))
	if len(d.TopCategories) > 0 {
		b.WriteString(`<h3>Top categories</h3>`)
		var cats [][2]string
		for _, c := range d.TopCategories {
			cats = append(cats, [2]string{c.Category, FormatAmount(c.Total, currency)})
		}
		b.WriteString(renderRows(cats))
	}
	if len(d.Largest) > 0 {
		b.WriteString(`<h3>Largest expenses</h3>`)
		var largest [][2]string
		for _, t := range d.Largest {
			label := t.Date.Format("2006-01-02") + " " + t.Category
			if t.Note != "" {
				label += " (" + t.Note + ")"
			}
			largest = append(largest, [2]string{label, FormatAmount(t.Amount, currency)})
		}
		b.WriteString(renderRows(largest))
	}
	return renderPage("#107c10", fmt.Sprintf("Digest for %s", d.Month), b.String())
}
