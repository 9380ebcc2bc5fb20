package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLedger = "Date,Income/Expense,Category,Subcategory,Note,SEK\n" +
	"05/01/2024,Expense,Food,Groceries,lunch,100\n" +
	"20/01/2024,Income,Salary,,,50\n" +
	"03/02/2024,Expense,Housing,Loan,,500\n" +
	"01/02/2024,Expense,Food,Restaurant,,30\n"

func writeLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(testLedger), 0o600))
	return path
}

func runReport(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewReportCmd(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReport_Monthly(t *testing.T) {
	path := writeLedger(t)

	out, err := runReport(t, path, "--view", "monthly")
	require.NoError(t, err)

	var body struct {
		Monthly []map[string]any `json:"monthly"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Len(t, body.Monthly, 2)
}

func TestReport_IncludeLoanChangesTotals(t *testing.T) {
	path := writeLedger(t)

	without, err := runReport(t, path, "--view", "digest")
	require.NoError(t, err)
	with, err := runReport(t, path, "--view", "digest", "--include-loan")
	require.NoError(t, err)

	assert.NotEqual(t, without, with)
}

func TestReport_Dashboard(t *testing.T) {
	path := writeLedger(t)

	out, err := runReport(t, path)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Contains(t, body, "charts")
	assert.Contains(t, body, "totals")
}

func TestReport_Errors(t *testing.T) {
	path := writeLedger(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "missing.csv")}},
		{name: "unknown view", args: []string{path, "--view", "pie"}},
		{name: "category trend without category", args: []string{path, "--view", "category-trend"}},
		{name: "invalid period", args: []string{path, "--period", "1"}},
		{name: "no file", args: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runReport(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
