package sync

import "time"

// Status is the result of one audited action.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusSkipped Status = "skipped"
)

// Action identifies the kind of API action a record describes.
type Action string

const (
	ActionCreateVarset   Action = "create_varset"
	ActionUpdateVarset   Action = "update_varset"
	ActionDeleteVarset   Action = "delete_varset"
	ActionAddVariable    Action = "add_variable"
	ActionUpdateVariable Action = "update_variable"
	ActionDeleteVariable Action = "delete_variable"
)

// Record is one audited result of a single varset or variable action.
// Records are immutable once created and owned by the org worker that
// produced them until the join barrier.
type Record struct {
	Org       string
	Action    Action
	VarsetID  string
	Key       string
	Status    Status
	Message   string
	Timestamp time.Time
}

// Failed reports whether the record describes a failed action.
func (r Record) Failed() bool {
	return r.Status == StatusFailure
}

func newRecord(org string, action Action, varsetID, key string, status Status, message string) Record {
	return Record{
		Org:       org,
		Action:    action,
		VarsetID:  varsetID,
		Key:       key,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
