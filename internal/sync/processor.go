package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/takescoop/tfe-varset-sync/internal/logger"
	"github.com/takescoop/tfe-varset-sync/internal/tfeclient"
	"github.com/takescoop/tfe-varset-sync/internal/varset"
	vserrors "github.com/takescoop/tfe-varset-sync/pkg/errors"
)

// Mode selects which reconciliation an org worker performs.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
	ModeDelete Mode = "delete"
)

// Processor applies one mode to one organization. A single Processor is
// shared across workers; it holds no per-org state.
type Processor struct {
	client tfeclient.Client
	spec   varset.Spec
	dryRun bool
	log    *logger.Logger
}

// NewProcessor constructs a Processor for the desired varset spec.
func NewProcessor(client tfeclient.Client, spec varset.Spec, dryRun bool, log *logger.Logger) *Processor {
	return &Processor{client: client, spec: spec, dryRun: dryRun, log: log}
}

// Process runs the given mode against one organization and returns one
// record per attempted action. Errors never escape: every failure becomes a
// failure-status record so sibling organizations are unaffected.
func (p *Processor) Process(ctx context.Context, org string, mode Mode) []Record {
	log := p.log.WithFields(map[string]any{"org": org})

	switch mode {
	case ModeCreate:
		return p.create(ctx, log, org)
	case ModeUpdate:
		return p.update(ctx, log, org)
	case ModeDelete:
		return p.delete(ctx, log, org)
	default:
		return []Record{newRecord(org, ActionUpdateVarset, "", "", StatusFailure, fmt.Sprintf("unknown mode %q", mode))}
	}
}

// create ensures the varset exists and adds any desired variables that are
// missing. An existing varset is not an error; only the add-path of the diff
// is applied.
func (p *Processor) create(ctx context.Context, log *logger.Logger, org string) []Record {
	existing, err := p.client.FindVarset(ctx, org, p.spec.Name)
	if err != nil {
		log.Error(fmt.Sprintf("varset lookup failed: %v", err))
		return []Record{newRecord(org, ActionCreateVarset, "", "", StatusFailure, err.Error())}
	}

	if existing != nil {
		log.Warn(fmt.Sprintf("varset %q already exists (id %s), adding missing variables only", p.spec.Name, existing.ID))
		records := []Record{newRecord(org, ActionCreateVarset, existing.ID, "", StatusSkipped, "already exists")}
		return append(records, p.addMissing(ctx, log, org, existing.ID)...)
	}

	if p.dryRun {
		log.Info(fmt.Sprintf("[dry-run] would create varset %q", p.spec.Name))
		records := []Record{newRecord(org, ActionCreateVarset, "", "", StatusSkipped, "dry-run: would create varset")}
		for _, v := range p.spec.Variables {
			log.Info(fmt.Sprintf("[dry-run] would add variable %q", v.Key))
			records = append(records, newRecord(org, ActionAddVariable, "", v.Key, StatusSkipped, "dry-run: would add variable"))
		}
		return records
	}

	created, err := p.client.CreateVarset(ctx, org, p.spec)
	if err != nil {
		var conflict *vserrors.ConflictError
		if errors.As(err, &conflict) {
			// Lost a race with another writer; fall back to the add-path.
			log.Warn(fmt.Sprintf("varset %q already exists", p.spec.Name))
			records := []Record{newRecord(org, ActionCreateVarset, "", "", StatusSkipped, "already exists")}

			existing, err := p.client.FindVarset(ctx, org, p.spec.Name)
			if err != nil || existing == nil {
				return append(records, newRecord(org, ActionCreateVarset, "", "", StatusFailure, "varset exists but could not be fetched"))
			}
			return append(records, p.addMissing(ctx, log, org, existing.ID)...)
		}

		log.Error(fmt.Sprintf("varset creation failed: %v", err))
		return []Record{newRecord(org, ActionCreateVarset, "", "", StatusFailure, err.Error())}
	}

	log.Info(fmt.Sprintf("varset created with id %s", created.ID))
	records := []Record{newRecord(org, ActionCreateVarset, created.ID, "", StatusSuccess, fmt.Sprintf("varset created with id %s", created.ID))}

	for _, v := range p.spec.Variables {
		records = append(records, p.addVariable(ctx, log, org, created.ID, v))
	}

	return records
}

// update reconciles the variables of an existing varset against the desired
// list. A missing varset is fatal for the organization; it signals update
// was run before create.
func (p *Processor) update(ctx context.Context, log *logger.Logger, org string) []Record {
	existing, err := p.client.FindVarset(ctx, org, p.spec.Name)
	if err != nil {
		log.Error(fmt.Sprintf("varset lookup failed: %v", err))
		return []Record{newRecord(org, ActionUpdateVarset, "", "", StatusFailure, err.Error())}
	}

	if existing == nil {
		msg := fmt.Sprintf("no varset named %q found; run create first", p.spec.Name)
		log.Error(msg)
		return []Record{newRecord(org, ActionUpdateVarset, "", "", StatusFailure, msg)}
	}

	observed, err := p.client.ListVariables(ctx, existing.ID)
	if err != nil {
		log.Error(fmt.Sprintf("listing varset variables failed: %v", err))
		return []Record{newRecord(org, ActionUpdateVarset, existing.ID, "", StatusFailure, err.Error())}
	}

	cs := varset.ComputeChangeSet(p.spec.Variables, observed)
	log.Debug(fmt.Sprintf("change set: %d add, %d update, %d delete, %d unchanged",
		len(cs.Add), len(cs.Update), len(cs.Delete), len(cs.Unchanged)))

	var records []Record

	for _, v := range cs.Add {
		records = append(records, p.addVariable(ctx, log, org, existing.ID, v))
	}

	for _, u := range cs.Update {
		records = append(records, p.updateVariable(ctx, log, org, existing.ID, u))
	}

	for _, d := range cs.Delete {
		records = append(records, p.deleteVariable(ctx, log, org, existing.ID, d))
	}

	for _, key := range cs.Unchanged {
		log.Info(fmt.Sprintf("variable %q is up to date", key))
		records = append(records, newRecord(org, ActionUpdateVariable, existing.ID, key, StatusSkipped, "no updates needed"))
	}

	return records
}

// delete removes the varset. A missing varset is recorded as skipped, not
// as a failure.
func (p *Processor) delete(ctx context.Context, log *logger.Logger, org string) []Record {
	existing, err := p.client.FindVarset(ctx, org, p.spec.Name)
	if err != nil {
		log.Error(fmt.Sprintf("varset lookup failed: %v", err))
		return []Record{newRecord(org, ActionDeleteVarset, "", "", StatusFailure, err.Error())}
	}

	if existing == nil {
		log.Warn(fmt.Sprintf("no varset named %q found, nothing to delete", p.spec.Name))
		return []Record{newRecord(org, ActionDeleteVarset, "", "", StatusSkipped, "varset does not exist")}
	}

	if p.dryRun {
		log.Info(fmt.Sprintf("[dry-run] would delete varset %s", existing.ID))
		return []Record{newRecord(org, ActionDeleteVarset, existing.ID, "", StatusSkipped, "dry-run: would delete varset")}
	}

	if err := p.client.DeleteVarset(ctx, existing.ID); err != nil {
		log.Error(fmt.Sprintf("varset deletion failed: %v", err))
		return []Record{newRecord(org, ActionDeleteVarset, existing.ID, "", StatusFailure, err.Error())}
	}

	log.Info(fmt.Sprintf("varset %s deleted", existing.ID))
	return []Record{newRecord(org, ActionDeleteVarset, existing.ID, "", StatusSuccess, fmt.Sprintf("varset %s deleted", existing.ID))}
}

// addMissing applies only the add-path of the change set against the
// current remote variables.
func (p *Processor) addMissing(ctx context.Context, log *logger.Logger, org, varsetID string) []Record {
	observed, err := p.client.ListVariables(ctx, varsetID)
	if err != nil {
		log.Error(fmt.Sprintf("listing varset variables failed: %v", err))
		return []Record{newRecord(org, ActionAddVariable, varsetID, "", StatusFailure, err.Error())}
	}

	cs := varset.ComputeChangeSet(p.spec.Variables, observed)

	var records []Record
	for _, v := range cs.Add {
		records = append(records, p.addVariable(ctx, log, org, varsetID, v))
	}
	return records
}

func (p *Processor) addVariable(ctx context.Context, log *logger.Logger, org, varsetID string, v varset.Variable) Record {
	if p.dryRun {
		log.Info(fmt.Sprintf("[dry-run] would add variable %q", v.Key))
		return newRecord(org, ActionAddVariable, varsetID, v.Key, StatusSkipped, "dry-run: would add variable")
	}

	if _, err := p.client.CreateVariable(ctx, varsetID, v); err != nil {
		log.Error(fmt.Sprintf("adding variable %q failed: %v", v.Key, err))
		return newRecord(org, ActionAddVariable, varsetID, v.Key, StatusFailure, err.Error())
	}

	log.Info(fmt.Sprintf("+ variable %q added", v.Key))
	return newRecord(org, ActionAddVariable, varsetID, v.Key, StatusSuccess, fmt.Sprintf("variable %q added", v.Key))
}

func (p *Processor) updateVariable(ctx context.Context, log *logger.Logger, org, varsetID string, u varset.Update) Record {
	if p.dryRun {
		log.Info(fmt.Sprintf("[dry-run] would update variable %q", u.Spec.Key))
		return newRecord(org, ActionUpdateVariable, varsetID, u.Spec.Key, StatusSkipped, "dry-run: would update variable")
	}

	if err := p.client.UpdateVariable(ctx, varsetID, u.RemoteID, u.Spec); err != nil {
		log.Error(fmt.Sprintf("updating variable %q failed: %v", u.Spec.Key, err))
		return newRecord(org, ActionUpdateVariable, varsetID, u.Spec.Key, StatusFailure, err.Error())
	}

	log.Info(fmt.Sprintf("~ variable %q updated", u.Spec.Key))
	return newRecord(org, ActionUpdateVariable, varsetID, u.Spec.Key, StatusSuccess, fmt.Sprintf("variable %q updated", u.Spec.Key))
}

func (p *Processor) deleteVariable(ctx context.Context, log *logger.Logger, org, varsetID string, d varset.Deletion) Record {
	if p.dryRun {
		log.Info(fmt.Sprintf("[dry-run] would delete variable %q", d.Key))
		return newRecord(org, ActionDeleteVariable, varsetID, d.Key, StatusSkipped, "dry-run: would delete variable")
	}

	if err := p.client.DeleteVariable(ctx, varsetID, d.RemoteID); err != nil {
		log.Error(fmt.Sprintf("deleting variable %q failed: %v", d.Key, err))
		return newRecord(org, ActionDeleteVariable, varsetID, d.Key, StatusFailure, err.Error())
	}

	log.Info(fmt.Sprintf("- variable %q deleted; absent from desired list", d.Key))
	return newRecord(org, ActionDeleteVariable, varsetID, d.Key, StatusSuccess, fmt.Sprintf("variable %q deleted; absent from desired list", d.Key))
}
