// Package report renders outcome records as a CSV report and a run summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/takescoop/tfe-varset-sync/internal/sync"
)

var csvHeader = []string{"org", "action", "variable set ID", "variable", "status", "message", "timestamp"}

// DefaultFilename returns the timestamped report filename used when none is
// configured.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("varset_report_%s.csv", now.Format("20060102_150405"))
}

// WriteCSV writes one row per outcome record. Sensitive variable values
// never appear in records, so no redaction is needed here.
func WriteCSV(path string, records []sync.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("writing report header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Org,
			string(r.Action),
			r.VarsetID,
			r.Key,
			string(r.Status),
			r.Message,
			r.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("writing report row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing report: %w", err)
	}

	return f.Close()
}

// Summary renders the one-line run verdict.
func Summary(result *sync.Result) string {
	if failures := result.Failures(); failures > 0 {
		return fmt.Sprintf("%d of %d actions failed across %d organizations", failures, len(result.Records), result.Orgs)
	}
	return fmt.Sprintf("All actions completed successfully across %d organizations", result.Orgs)
}
