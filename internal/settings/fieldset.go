/*
Package settings
File: fieldset.go
Description:
    Lockable work-order field names and FieldSet, the set of locked
    fields. Encodes as a sorted list; unknown names are dropped.
*/

package settings

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// LockableField names a work-order default a session owner can lock.
type LockableField string

const (
	FieldIncludeTransferFee LockableField = "includeTransferFee"
	FieldIsRefined          LockableField = "isRefined"
	FieldShareRefinedValue  LockableField = "shareRefinedValue"
	FieldRefinery           LockableField = "refinery"
	FieldMethod             LockableField = "method"
	FieldCrewShares         LockableField = "crewShares"
	FieldShipOres           LockableField = "shipOres"
	FieldVehicleOres        LockableField = "vehicleOres"
	FieldSalvageOres        LockableField = "salvageOres"
)

// LockableFields is the work-order key space, in display order.
var LockableFields = []LockableField{
	FieldIncludeTransferFee,
	FieldIsRefined,
	FieldShareRefinedValue,
	FieldRefinery,
	FieldMethod,
	FieldCrewShares,
	FieldShipOres,
	FieldVehicleOres,
	FieldSalvageOres,
}

// Valid reports whether f belongs to the work-order key space.
func (f LockableField) Valid() bool {
	for _, known := range LockableFields {
		if f == known {
			return true
		}
	}
	return false
}

// FieldSet is a set of locked fields. Methods never modify the receiver.
// It encodes as a sorted list; decoding drops duplicates and unknown names.
type FieldSet map[LockableField]struct{}

// NewFieldSet builds a set from names, ignoring names outside the key space.
func NewFieldSet(fields ...LockableField) FieldSet {
	s := FieldSet{}
	for _, f := range fields {
		if f.Valid() {
			s[f] = struct{}{}
		}
	}
	return s
}

// Has reports whether f is locked.
func (s FieldSet) Has(f LockableField) bool {
	_, ok := s[f]
	return ok
}

// Fields returns the members sorted by name.
func (s FieldSet) Fields() []LockableField {
	out := make([]LockableField, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// With returns a copy of s that also contains f. Adding twice is the same as once.
func (s FieldSet) With(f LockableField) FieldSet {
	out := s.clone()
	if f.Valid() {
		out[f] = struct{}{}
	}
	return out
}

// Without returns a copy of s without f.
func (s FieldSet) Without(f LockableField) FieldSet {
	out := s.clone()
	delete(out, f)
	return out
}

// Union returns a new set holding the members of both sets.
func (s FieldSet) Union(other FieldSet) FieldSet {
	out := s.clone()
	for f := range other {
		out[f] = struct{}{}
	}
	return out
}

func (s FieldSet) clone() FieldSet {
	out := make(FieldSet, len(s))
	for f := range s {
		out[f] = struct{}{}
	}
	return out
}

func (s FieldSet) strings() []string {
	out := make([]string, 0, len(s))
	for _, f := range s.Fields() {
		out = append(out, string(f))
	}
	return out
}

func fieldSetFromStrings(names []string) FieldSet {
	if names == nil {
		return nil
	}
	s := FieldSet{}
	for _, n := range names {
		if f := LockableField(n); f.Valid() {
			s[f] = struct{}{}
		}
	}
	return s
}

// MarshalJSON encodes the set as a sorted list.
func (s FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.strings())
}

// UnmarshalJSON decodes a list, tolerating duplicates.
func (s *FieldSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = fieldSetFromStrings(names)
	return nil
}

// MarshalYAML encodes the set as a sorted list.
func (s FieldSet) MarshalYAML() (any, error) {
	return s.strings(), nil
}

// UnmarshalYAML decodes a list, tolerating duplicates.
func (s *FieldSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*s = fieldSetFromStrings(names)
	return nil
}
