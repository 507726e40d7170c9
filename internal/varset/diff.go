package varset

// Update pairs a desired variable with the remote ID it replaces.
type Update struct {
	Spec     Variable
	RemoteID string
}

// Deletion identifies a remote variable that is absent from the desired list.
type Deletion struct {
	RemoteID string
	Key      string
}

// ChangeSet is the categorized diff between a desired and an observed
// variable list. The four lists are disjoint by key.
type ChangeSet struct {
	Add       []Variable
	Update    []Update
	Delete    []Deletion
	Unchanged []string
}

// Empty reports whether the change set requires no API calls.
func (cs ChangeSet) Empty() bool {
	return len(cs.Add) == 0 && len(cs.Update) == 0 && len(cs.Delete) == 0
}

// ComputeChangeSet compares the desired variable list against the observed
// remote state. Desired keys are assumed unique; duplicates are rejected at
// configuration load. Add and Update follow desired order, Delete follows
// observed order.
func ComputeChangeSet(desired []Variable, observed []RemoteVariable) ChangeSet {
	observedByKey := make(map[string]RemoteVariable, len(observed))
	for _, o := range observed {
		observedByKey[o.Key] = o
	}

	desiredKeys := make(map[string]struct{}, len(desired))

	var cs ChangeSet
	for _, d := range desired {
		desiredKeys[d.Key] = struct{}{}

		current, ok := observedByKey[d.Key]
		if !ok {
			cs.Add = append(cs.Add, d)
			continue
		}

		if needsUpdate(d, current) {
			cs.Update = append(cs.Update, Update{Spec: d, RemoteID: current.ID})
		} else {
			cs.Unchanged = append(cs.Unchanged, d.Key)
		}
	}

	for _, o := range observed {
		if _, ok := desiredKeys[o.Key]; !ok {
			cs.Delete = append(cs.Delete, Deletion{RemoteID: o.ID, Key: o.Key})
		}
	}

	return cs
}

func needsUpdate(desired Variable, observed RemoteVariable) bool {
	// Sensitive values cannot be read back, so equality is unverifiable.
	// When both sides are sensitive the variable is always rewritten.
	if desired.Sensitive && observed.Sensitive {
		return true
	}

	return desired.Value != observed.Value ||
		desired.Description != observed.Description ||
		desired.Sensitive != observed.Sensitive ||
		desired.EffectiveCategory() != observed.Category ||
		desired.HCL != observed.HCL
}
