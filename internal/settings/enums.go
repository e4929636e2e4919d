/*
Package settings
File: enums.go
Description:
    Enumerations carried by session and work-order settings. Values are
    transported as strings and accepted permissively; unknown values pass
    through untouched so older clients never lose data.
*/

package settings

// Activity is the kind of gathering a session organizes.
type Activity string

const (
	ActivityShipMining    Activity = "SHIP_MINING"
	ActivityVehicleMining Activity = "VEHICLE_MINING"
	ActivitySalvage       Activity = "SALVAGE"
	ActivityOther         Activity = "OTHER"
)

// Location is where the session takes place.
type Location string

const (
	LocationSpace   Location = "SPACE"
	LocationSurface Location = "SURFACE"
	LocationCave    Location = "CAVE"
)

// Refinery is a refinery station code (e.g., "ARCL1").
type Refinery string

// RefineryMethod is a refining process.
type RefineryMethod string

const (
	MethodCormack     RefineryMethod = "CORMACK_METHOD"
	MethodDinyx       RefineryMethod = "DINYX_SOLVENTATION"
	MethodElectrostar RefineryMethod = "ELECTROSTAROLYSIS"
	MethodFerron      RefineryMethod = "FERRON_EXCHANGE"
	MethodGaskin      RefineryMethod = "GASKIN_PROCESS"
	MethodKazen       RefineryMethod = "KAZEN_WINNOWING"
	MethodPyrometric  RefineryMethod = "PYROMETRIC_CHROMALYSIS"
	MethodThermonatic RefineryMethod = "THERMONATIC_DEPOSITION"
	MethodXCR         RefineryMethod = "XCR_REACTION"
)

// ShipOre is a ship-minable ore.
type ShipOre string

const (
	OreAgricium   ShipOre = "AGRICIUM"
	OreBexalite   ShipOre = "BEXALITE"
	OreGold       ShipOre = "GOLD"
	OreLaranite   ShipOre = "LARANITE"
	OreQuantanium ShipOre = "QUANTANIUM"
	OreTaranite   ShipOre = "TARANITE"
	OreInert      ShipOre = "INERTMATERIAL"
)

// VehicleOre is a gem minable from a ground vehicle.
type VehicleOre string

const (
	OreHadanite VehicleOre = "HADANITE"
	OreAphorite VehicleOre = "APHORITE"
	OreDolivine VehicleOre = "DOLIVINE"
	OreJanalite VehicleOre = "JANALITE"
)

// SalvageOre is a salvage product.
type SalvageOre string

const (
	SalvageRMC SalvageOre = "RMC"
	SalvageCMR SalvageOre = "CMR"
	SalvageCMP SalvageOre = "CMP"
	SalvageCMS SalvageOre = "CMS"
)

// ShareType is how a crew share is paid out.
type ShareType string

const (
	ShareAmount  ShareType = "AMOUNT"  // Fixed aUEC amount, paid first
	SharePercent ShareType = "PERCENT" // Fraction of what remains after amounts
	ShareShare   ShareType = "SHARE"   // Proportional split of the rest
)

// Valid reports whether t is one of the known share types.
func (t ShareType) Valid() bool {
	switch t {
	case ShareAmount, SharePercent, ShareShare:
		return true
	}
	return false
}
