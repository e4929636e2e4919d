/*
Package settings
File: resolve.go
Description:
    Applies an in-progress work order on top of the effective session
    defaults, honoring field locks.
*/

package settings

// WorkOrderDraft is the configuration of a work order being created.
// Absent fields take the session default.
type WorkOrderDraft struct {
	IncludeTransferFee *bool               `json:"includeTransferFee,omitempty"`
	IsRefined          *bool               `json:"isRefined,omitempty"`
	ShareRefinedValue  *bool               `json:"shareRefinedValue,omitempty"`
	Refinery           *Refinery           `json:"refinery,omitempty"`
	Method             *RefineryMethod     `json:"method,omitempty"`
	CrewShares         []CrewShareTemplate `json:"crewShares"`
	ShipOres           []ShipOre           `json:"shipOres"`
	VehicleOres        []VehicleOre        `json:"vehicleOres"`
	SalvageOres        []SalvageOre        `json:"salvageOres"`
}

// ResolveWorkOrder applies draft on top of the effective session defaults.
// Edits to locked fields are dropped unless the editor owns the session; the
// dropped fields are returned in key-space order.
func ResolveWorkOrder(defaults Destructured, draft WorkOrderDraft, owner bool) (WorkOrderDraft, []LockableField) {
	locked := defaults.WorkOrderDefaults.LockedFields
	rejected := []LockableField{}

	allow := func(f LockableField, present bool) bool {
		if !present {
			return false
		}
		if owner || !locked.Has(f) {
			return true
		}
		rejected = append(rejected, f)
		return false
	}

	wo := defaults.WorkOrderDefaults
	out := WorkOrderDraft{
		IncludeTransferFee: clonePtr(wo.IncludeTransferFee),
		IsRefined:          clonePtr(wo.IsRefined),
		ShareRefinedValue:  clonePtr(wo.ShareRefinedValue),
		Refinery:           clonePtr(wo.Refinery),
		Method:             clonePtr(wo.Method),
		CrewShares:         cloneSlice(defaults.CrewSharesDefaults),
		ShipOres:           cloneSlice(defaults.ShipOreDefaults),
		VehicleOres:        cloneSlice(defaults.VehicleOreDefaults),
		SalvageOres:        cloneSlice(defaults.SalvageOreDefaults),
	}

	// Evaluated in LockableFields order so rejections come out sorted the same way
	if allow(FieldIncludeTransferFee, draft.IncludeTransferFee != nil) {
		out.IncludeTransferFee = clonePtr(draft.IncludeTransferFee)
	}
	if allow(FieldIsRefined, draft.IsRefined != nil) {
		out.IsRefined = clonePtr(draft.IsRefined)
	}
	if allow(FieldShareRefinedValue, draft.ShareRefinedValue != nil) {
		out.ShareRefinedValue = clonePtr(draft.ShareRefinedValue)
	}
	if allow(FieldRefinery, draft.Refinery != nil) {
		out.Refinery = clonePtr(draft.Refinery)
	}
	if allow(FieldMethod, draft.Method != nil) {
		out.Method = clonePtr(draft.Method)
	}
	if allow(FieldCrewShares, draft.CrewShares != nil) {
		out.CrewShares = cloneSlice(draft.CrewShares)
	}
	if allow(FieldShipOres, draft.ShipOres != nil) {
		out.ShipOres = cloneSlice(draft.ShipOres)
	}
	if allow(FieldVehicleOres, draft.VehicleOres != nil) {
		out.VehicleOres = cloneSlice(draft.VehicleOres)
	}
	if allow(FieldSalvageOres, draft.SalvageOres != nil) {
		out.SalvageOres = cloneSlice(draft.SalvageOres)
	}
	return out, rejected
}
