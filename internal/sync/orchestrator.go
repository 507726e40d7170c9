package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/takescoop/tfe-varset-sync/internal/logger"
	"github.com/takescoop/tfe-varset-sync/internal/tfeclient"
)

// ErrAborted is returned when the user declines the delete confirmation.
var ErrAborted = errors.New("aborted by user")

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 5

// ConfirmFunc gates delete mode. It receives the number of organizations
// about to be processed and reports whether to proceed.
type ConfirmFunc func(orgCount int) (bool, error)

// Options configures an Orchestrator.
type Options struct {
	// OrgOverride is the --orgs value: a path to a newline-delimited file
	// of org names, or a comma-separated inline list. It takes precedence
	// over ConfigOrgs and the full remote listing.
	OrgOverride string

	// ConfigOrgs is the organization list declared in the config file.
	ConfigOrgs []string

	Workers int
	DryRun  bool
	Confirm ConfirmFunc
	Logger  *logger.Logger
}

// Result aggregates the outcome records of one run.
type Result struct {
	Orgs    int
	Records []Record
}

// Failures counts failure-status records across all organizations.
func (r *Result) Failures() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Failed() {
			n++
		}
	}
	return n
}

// Orchestrator resolves the target organizations, fans a Processor out
// across a bounded worker pool, and aggregates the outcome records.
type Orchestrator struct {
	client    tfeclient.Client
	processor *Processor
	opts      Options
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(client tfeclient.Client, processor *Processor, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Orchestrator{client: client, processor: processor, opts: opts}
}

// Run executes one mode across every resolved organization. All workers run
// to completion regardless of individual failures; the only early exits are
// org resolution errors and a declined delete confirmation.
func (o *Orchestrator) Run(ctx context.Context, mode Mode) (*Result, error) {
	orgs, err := o.resolveOrgs(ctx)
	if err != nil {
		return nil, err
	}

	log := o.opts.Logger
	log.Info(fmt.Sprintf("processing %d organizations with %d workers", len(orgs), o.opts.Workers))

	if mode == ModeDelete && !o.opts.DryRun {
		confirm := o.opts.Confirm
		if confirm == nil {
			return nil, ErrAborted
		}
		ok, err := confirm(len(orgs))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	perOrg := make([][]Record, len(orgs))
	sem := make(chan struct{}, o.opts.Workers)
	var wg sync.WaitGroup

	for i, org := range orgs {
		wg.Add(1)
		go func(i int, org string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			perOrg[i] = o.processor.Process(ctx, org, mode)
		}(i, org)
	}

	wg.Wait()

	result := &Result{Orgs: len(orgs)}
	for _, records := range perOrg {
		result.Records = append(result.Records, records...)
	}

	return result, nil
}

// resolveOrgs applies the selection precedence: explicit override, then the
// config-declared list, then the full remote listing.
func (o *Orchestrator) resolveOrgs(ctx context.Context) ([]string, error) {
	if o.opts.OrgOverride != "" {
		return parseOrgSelector(o.opts.OrgOverride)
	}

	if len(o.opts.ConfigOrgs) > 0 {
		return o.opts.ConfigOrgs, nil
	}

	return o.client.ListOrganizations(ctx)
}

// parseOrgSelector interprets the --orgs value as a file of org names when
// it points at one, and as a comma-separated list otherwise.
func parseOrgSelector(selector string) ([]string, error) {
	if info, err := os.Stat(selector); err == nil && !info.IsDir() {
		data, err := os.ReadFile(selector)
		if err != nil {
			return nil, fmt.Errorf("reading orgs file %s: %w", selector, err)
		}
		return splitNonEmpty(string(data), "\n"), nil
	}

	return splitNonEmpty(selector, ","), nil
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
