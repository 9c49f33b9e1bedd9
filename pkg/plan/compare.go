package plan

import "slices"

// LimitChange records a limit moving from one bound to another.
type LimitChange struct {
	From Limit `json:"from"`
	To   Limit `json:"to"`
}

// Comparison describes the differences between a current and a target plan.
// Plan-change flows use it to warn about lost features and tightened limits
// before switching a tenant's plan key.
type Comparison struct {
	NewFeatures     []string                 `json:"new_features"`
	LostFeatures    []string                 `json:"lost_features"`
	IncreasedLimits map[Resource]LimitChange `json:"increased_limits"`
	DecreasedLimits map[Resource]LimitChange `json:"decreased_limits"`
}

// HasDecreases reports whether any limits are tightened by the change.
func (c *Comparison) HasDecreases() bool {
	return len(c.DecreasedLimits) > 0
}

// Compare returns the differences between current and target plans.
func Compare(current, target *Plan) *Comparison {
	if current == nil || target == nil {
		return nil
	}

	cmp := &Comparison{
		NewFeatures:     make([]string, 0),
		LostFeatures:    make([]string, 0),
		IncreasedLimits: make(map[Resource]LimitChange),
		DecreasedLimits: make(map[Resource]LimitChange),
	}

	for _, f := range target.Features {
		if !slices.Contains(current.Features, f) {
			cmp.NewFeatures = append(cmp.NewFeatures, f)
		}
	}
	for _, f := range current.Features {
		if !slices.Contains(target.Features, f) {
			cmp.LostFeatures = append(cmp.LostFeatures, f)
		}
	}

	for _, res := range Resources() {
		from, to := current.Limits.Get(res), target.Limits.Get(res)
		if from == to {
			continue
		}
		change := LimitChange{From: from, To: to}
		switch {
		case from.IsUnlimited():
			// Unlimited to bounded is always a decrease.
			cmp.DecreasedLimits[res] = change
		case to.IsUnlimited():
			cmp.IncreasedLimits[res] = change
		case to.Value() > from.Value():
			cmp.IncreasedLimits[res] = change
		default:
			cmp.DecreasedLimits[res] = change
		}
	}

	return cmp
}
