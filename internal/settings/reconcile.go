/*
Package settings
File: reconcile.go
Description:
    The reconciliation engine. Flattens nested settings, merges layers
    (system < user profile < session), and folds them back. Every function
    is total: absent input yields blank groups, never an error, and results
    never share memory with their inputs.
*/

package settings

// Destructure flattens s into independently addressable groups.
// A nil s, or a nil work-order block, yields blank groups.
func Destructure(s *SessionSettings) Destructured {
	var d Destructured
	if s == nil {
		return d
	}

	d.SessionSettings = SessionGroup{
		Activity:             clonePtr(s.Activity),
		Location:             clonePtr(s.Location),
		GravityWell:          clonePtr(s.GravityWell),
		AllowUnverifiedUsers: clonePtr(s.AllowUnverifiedUsers),
		SpecifyUsers:         clonePtr(s.SpecifyUsers),
	}

	wo := s.WorkOrderDefaults
	if wo == nil {
		return d
	}
	d.WorkOrderDefaults = WorkOrderGroup{
		IncludeTransferFee: clonePtr(wo.IncludeTransferFee),
		IsRefined:          clonePtr(wo.IsRefined),
		ShareRefinedValue:  clonePtr(wo.ShareRefinedValue),
		Refinery:           clonePtr(wo.Refinery),
		Method:             clonePtr(wo.Method),
		LockedFields:       cloneFieldSet(wo.LockedFields),
	}
	d.CrewSharesDefaults = cloneSlice(wo.CrewShares)
	d.ShipOreDefaults = cloneSlice(wo.ShipOres)
	d.VehicleOreDefaults = cloneSlice(wo.VehicleOres)
	d.SalvageOreDefaults = cloneSlice(wo.SalvageOres)
	return d
}

// Reverse folds d back into nested settings. The work-order block is left
// nil when every work-order field is absent.
func Reverse(d Destructured) SessionSettings {
	s := SessionSettings{
		Activity:             clonePtr(d.SessionSettings.Activity),
		Location:             clonePtr(d.SessionSettings.Location),
		GravityWell:          clonePtr(d.SessionSettings.GravityWell),
		AllowUnverifiedUsers: clonePtr(d.SessionSettings.AllowUnverifiedUsers),
		SpecifyUsers:         clonePtr(d.SessionSettings.SpecifyUsers),
	}

	wo := WorkOrderDefaults{
		IncludeTransferFee: clonePtr(d.WorkOrderDefaults.IncludeTransferFee),
		IsRefined:          clonePtr(d.WorkOrderDefaults.IsRefined),
		ShareRefinedValue:  clonePtr(d.WorkOrderDefaults.ShareRefinedValue),
		Refinery:           clonePtr(d.WorkOrderDefaults.Refinery),
		Method:             clonePtr(d.WorkOrderDefaults.Method),
		LockedFields:       cloneFieldSet(d.WorkOrderDefaults.LockedFields),
		CrewShares:         cloneSlice(d.CrewSharesDefaults),
		ShipOres:           cloneSlice(d.ShipOreDefaults),
		VehicleOres:        cloneSlice(d.VehicleOreDefaults),
		SalvageOres:        cloneSlice(d.SalvageOreDefaults),
	}
	if !wo.blank() {
		s.WorkOrderDefaults = &wo
	}
	return s
}

// Merge layers overlay on top of base. Present overlay fields win; slices are
// replaced wholesale; locked fields are the union of both layers.
func Merge(base, overlay Destructured) Destructured {
	bs, ovs := base.SessionSettings, overlay.SessionSettings
	bw, ow := base.WorkOrderDefaults, overlay.WorkOrderDefaults

	return Destructured{
		SessionSettings: SessionGroup{
			Activity:             pick(bs.Activity, ovs.Activity),
			Location:             pick(bs.Location, ovs.Location),
			GravityWell:          pick(bs.GravityWell, ovs.GravityWell),
			AllowUnverifiedUsers: pick(bs.AllowUnverifiedUsers, ovs.AllowUnverifiedUsers),
			SpecifyUsers:         pick(bs.SpecifyUsers, ovs.SpecifyUsers),
		},
		WorkOrderDefaults: WorkOrderGroup{
			IncludeTransferFee: pick(bw.IncludeTransferFee, ow.IncludeTransferFee),
			IsRefined:          pick(bw.IsRefined, ow.IsRefined),
			ShareRefinedValue:  pick(bw.ShareRefinedValue, ow.ShareRefinedValue),
			Refinery:           pick(bw.Refinery, ow.Refinery),
			Method:             pick(bw.Method, ow.Method),
			LockedFields:       unionFieldSets(bw.LockedFields, ow.LockedFields),
		},
		CrewSharesDefaults: pickSlice(base.CrewSharesDefaults, overlay.CrewSharesDefaults),
		ShipOreDefaults:    pickSlice(base.ShipOreDefaults, overlay.ShipOreDefaults),
		VehicleOreDefaults: pickSlice(base.VehicleOreDefaults, overlay.VehicleOreDefaults),
		SalvageOreDefaults: pickSlice(base.SalvageOreDefaults, overlay.SalvageOreDefaults),
	}
}

// Layer merges layers from lowest to highest precedence,
// e.g. Layer(system, user, session).
func Layer(layers ...Destructured) Destructured {
	var out Destructured
	for _, l := range layers {
		out = Merge(out, l)
	}
	return out
}

// Normalize collapses representations that mean the same thing: empty
// collections become nil and an all-absent work-order block becomes nil.
// It works on the nested shape directly so it can check Destructure and
// Reverse without depending on them.
func Normalize(s SessionSettings) SessionSettings {
	out := SessionSettings{
		Activity:             clonePtr(s.Activity),
		Location:             clonePtr(s.Location),
		GravityWell:          clonePtr(s.GravityWell),
		AllowUnverifiedUsers: clonePtr(s.AllowUnverifiedUsers),
		SpecifyUsers:         clonePtr(s.SpecifyUsers),
	}
	if s.WorkOrderDefaults == nil {
		return out
	}

	in := s.WorkOrderDefaults
	wo := WorkOrderDefaults{
		IncludeTransferFee: clonePtr(in.IncludeTransferFee),
		IsRefined:          clonePtr(in.IsRefined),
		ShareRefinedValue:  clonePtr(in.ShareRefinedValue),
		Refinery:           clonePtr(in.Refinery),
		Method:             clonePtr(in.Method),
		CrewShares:         nilIfEmpty(cloneSlice(in.CrewShares)),
		ShipOres:           nilIfEmpty(cloneSlice(in.ShipOres)),
		VehicleOres:        nilIfEmpty(cloneSlice(in.VehicleOres)),
		SalvageOres:        nilIfEmpty(cloneSlice(in.SalvageOres)),
	}
	if len(in.LockedFields) > 0 {
		wo.LockedFields = in.LockedFields.clone()
	}
	if !wo.blank() {
		out.WorkOrderDefaults = &wo
	}
	return out
}

// Lock returns a copy of d with f locked. Locking twice equals locking once;
// names outside the work-order key space are ignored.
func Lock(d Destructured, f LockableField) Destructured {
	out := Merge(Destructured{}, d)
	out.WorkOrderDefaults.LockedFields = out.WorkOrderDefaults.LockedFields.With(f)
	return out
}

// Unlock returns a copy of d with f unlocked.
func Unlock(d Destructured, f LockableField) Destructured {
	out := Merge(Destructured{}, d)
	out.WorkOrderDefaults.LockedFields = out.WorkOrderDefaults.LockedFields.Without(f)
	return out
}

// ToggleLock sets the lock state of f.
func ToggleLock(d Destructured, f LockableField, locked bool) Destructured {
	if locked {
		return Lock(d, f)
	}
	return Unlock(d, f)
}

func (wo WorkOrderDefaults) blank() bool {
	return wo.IncludeTransferFee == nil &&
		wo.IsRefined == nil &&
		wo.ShareRefinedValue == nil &&
		wo.Refinery == nil &&
		wo.Method == nil &&
		wo.LockedFields == nil &&
		wo.CrewShares == nil &&
		wo.ShipOres == nil &&
		wo.VehicleOres == nil &&
		wo.SalvageOres == nil
}

func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return clonePtr(overlay)
	}
	return clonePtr(base)
}

func pickSlice[T any](base, overlay []T) []T {
	if overlay != nil {
		return cloneSlice(overlay)
	}
	return cloneSlice(base)
}

func unionFieldSets(a, b FieldSet) FieldSet {
	if a == nil && b == nil {
		return nil
	}
	return a.Union(b)
}

func cloneFieldSet(s FieldSet) FieldSet {
	if s == nil {
		return nil
	}
	return s.clone()
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func nilIfEmpty[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	return in
}
