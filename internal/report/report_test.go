package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takescoop/tfe-varset-sync/internal/sync"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	records := []sync.Record{
		{
			Org:       "org-a",
			Action:    sync.ActionCreateVarset,
			VarsetID:  "varset-1",
			Status:    sync.StatusSuccess,
			Message:   "varset created with id varset-1",
			Timestamp: ts,
		},
		{
			Org:       "org-a",
			Action:    sync.ActionAddVariable,
			VarsetID:  "varset-1",
			Key:       "proxy",
			Status:    sync.StatusFailure,
			Message:   "api error: boom",
			Timestamp: ts,
		},
	}

	require.NoError(t, WriteCSV(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"org", "action", "variable set ID", "variable", "status", "message", "timestamp"}, rows[0])
	assert.Equal(t, []string{"org-a", "create_varset", "varset-1", "", "success", "varset created with id varset-1", "2024-03-01T12:30:00Z"}, rows[1])
	assert.Equal(t, []string{"org-a", "add_variable", "varset-1", "proxy", "failure", "api error: boom", "2024-03-01T12:30:00Z"}, rows[2])
}

func TestSummary(t *testing.T) {
	success := &sync.Result{
		Orgs: 3,
		Records: []sync.Record{
			{Status: sync.StatusSuccess},
			{Status: sync.StatusSkipped},
		},
	}
	assert.Equal(t, "All actions completed successfully across 3 organizations", Summary(success))

	failed := &sync.Result{
		Orgs: 2,
		Records: []sync.Record{
			{Status: sync.StatusSuccess},
			{Status: sync.StatusFailure},
			{Status: sync.StatusFailure},
		},
	}
	assert.Equal(t, "2 of 3 actions failed across 2 organizations", Summary(failed))
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC)
	assert.Equal(t, "varset_report_20240301_123005.csv", DefaultFilename(now))
}
