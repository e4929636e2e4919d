/*
Package settings
File: models.go
Description:
    Session settings in their nested form (as stored on a session or a user
    profile) and their flattened, independently addressable form.

    A nil pointer or nil slice means "absent": it inherits from the layer
    below during a merge. A non-nil empty slice is present and replaces.
    Over JSON that is null versus []. YAML decoding keeps the same
    distinction, but YAML encoding drops empty lists.
*/

package settings

// CrewShareTemplate is a default payee added to new work orders.
type CrewShareTemplate struct {
	PayeeScName string    `json:"payeeScName" yaml:"payee_sc_name"`
	ShareType   ShareType `json:"shareType" yaml:"share_type"`
	Share       float64   `json:"share" yaml:"share"` // aUEC for AMOUNT, 0-1 for PERCENT, weight for SHARE
	Note        string    `json:"note,omitempty" yaml:"note,omitempty"`
}

// WorkOrderDefaults is the nested work-order block of SessionSettings.
type WorkOrderDefaults struct {
	IncludeTransferFee *bool               `json:"includeTransferFee,omitempty" yaml:"include_transfer_fee,omitempty"`
	IsRefined          *bool               `json:"isRefined,omitempty" yaml:"is_refined,omitempty"`
	ShareRefinedValue  *bool               `json:"shareRefinedValue,omitempty" yaml:"share_refined_value,omitempty"`
	Refinery           *Refinery           `json:"refinery,omitempty" yaml:"refinery,omitempty"`
	Method             *RefineryMethod     `json:"method,omitempty" yaml:"method,omitempty"`
	LockedFields       FieldSet            `json:"lockedFields,omitempty" yaml:"locked_fields,omitempty"`
	CrewShares         []CrewShareTemplate `json:"crewShares" yaml:"crew_shares,omitempty"`
	ShipOres           []ShipOre           `json:"shipOres" yaml:"ship_ores,omitempty"`
	VehicleOres        []VehicleOre        `json:"vehicleOres" yaml:"vehicle_ores,omitempty"`
	SalvageOres        []SalvageOre        `json:"salvageOres" yaml:"salvage_ores,omitempty"`
}

// SessionSettings is the nested settings object.
type SessionSettings struct {
	Activity             *Activity          `json:"activity,omitempty" yaml:"activity,omitempty"`
	Location             *Location          `json:"location,omitempty" yaml:"location,omitempty"`
	GravityWell          *string            `json:"gravityWell,omitempty" yaml:"gravity_well,omitempty"`
	AllowUnverifiedUsers *bool              `json:"allowUnverifiedUsers,omitempty" yaml:"allow_unverified_users,omitempty"`
	SpecifyUsers         *bool              `json:"specifyUsers,omitempty" yaml:"specify_users,omitempty"`
	WorkOrderDefaults    *WorkOrderDefaults `json:"workOrderDefaults,omitempty" yaml:"work_order_defaults,omitempty"`
}

// SessionGroup holds the session-level fields of Destructured.
type SessionGroup struct {
	Activity             *Activity `json:"activity,omitempty" yaml:"activity,omitempty"`
	Location             *Location `json:"location,omitempty" yaml:"location,omitempty"`
	GravityWell          *string   `json:"gravityWell,omitempty" yaml:"gravity_well,omitempty"`
	AllowUnverifiedUsers *bool     `json:"allowUnverifiedUsers,omitempty" yaml:"allow_unverified_users,omitempty"`
	SpecifyUsers         *bool     `json:"specifyUsers,omitempty" yaml:"specify_users,omitempty"`
}

// WorkOrderGroup holds the scalar work-order fields and the lock set.
type WorkOrderGroup struct {
	IncludeTransferFee *bool           `json:"includeTransferFee,omitempty" yaml:"include_transfer_fee,omitempty"`
	IsRefined          *bool           `json:"isRefined,omitempty" yaml:"is_refined,omitempty"`
	ShareRefinedValue  *bool           `json:"shareRefinedValue,omitempty" yaml:"share_refined_value,omitempty"`
	Refinery           *Refinery       `json:"refinery,omitempty" yaml:"refinery,omitempty"`
	Method             *RefineryMethod `json:"method,omitempty" yaml:"method,omitempty"`
	LockedFields       FieldSet        `json:"lockedFields,omitempty" yaml:"locked_fields,omitempty"`
}

// Destructured is the flattened view of SessionSettings. System defaults,
// user profile defaults and session defaults all share this shape.
type Destructured struct {
	SessionSettings    SessionGroup        `json:"sessionSettings" yaml:"session_settings"`
	WorkOrderDefaults  WorkOrderGroup      `json:"workOrderDefaults" yaml:"work_order_defaults"`
	CrewSharesDefaults []CrewShareTemplate `json:"crewSharesDefaults" yaml:"crew_shares_defaults,omitempty"`
	ShipOreDefaults    []ShipOre           `json:"shipOreDefaults" yaml:"ship_ore_defaults,omitempty"`
	VehicleOreDefaults []VehicleOre        `json:"vehicleOreDefaults" yaml:"vehicle_ore_defaults,omitempty"`
	SalvageOreDefaults []SalvageOre        `json:"salvageOreDefaults" yaml:"salvage_ore_defaults,omitempty"`
}
