/*
Package workorder
File: shares.go
Description:
    Handles the payout side of a work order:
    1. Deducting expenses from the sale value.
    2. Paying crew shares in order of precedence (AMOUNT, PERCENT, SHARE).
    3. Applying the in-game transfer fee to every payout the seller sends.

    All arithmetic is guarded: nothing here can produce NaN or a negative payout.
*/

package workorder

import (
	"math"

	"github.com/everforgeworks/regolith/internal/settings"
)

// TransferFeeRate is the fraction the game keeps on every player-to-player transfer.
const TransferFeeRate = 0.005

// Expense is a cost paid out of the gross before shares (fuel, refinery fees...).
type Expense struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Order is everything needed to split the proceeds of one work order.
type Order struct {
	SellerScName       string                       `json:"sellerScName"`       // Player who sells the goods and pays everyone
	GrossValue         float64                      `json:"grossValue"`         // Sale value in aUEC
	Expenses           []Expense                    `json:"expenses"`           // Deducted before any share
	IncludeTransferFee bool                         `json:"includeTransferFee"` // Deduct TransferFeeRate from each payout
	Shares             []settings.CrewShareTemplate `json:"shares"`
	CargoSCU           float64                      `json:"cargoScu,omitempty"`    // Hold contents, for the fill ratio
	CapacitySCU        float64                      `json:"capacityScu,omitempty"` // Hold size; 0 = unknown
}

// Payout is what one payee receives.
type Payout struct {
	PayeeScName string             `json:"payeeScName"`
	ShareType   settings.ShareType `json:"shareType,omitempty"` // Empty for the seller's remainder
	Amount      float64            `json:"amount"`              // Before transfer fee
	TransferFee float64            `json:"transferFee"`
	Net         float64            `json:"net"`
}

// Summary is the full breakdown of an Order.
type Summary struct {
	GrossValue    float64  `json:"grossValue"`
	ExpensesTotal float64  `json:"expensesTotal"`
	Shareable     float64  `json:"shareable"`
	SellerKeeps   float64  `json:"sellerKeeps"` // Left over after every share, stays with the seller
	TransferFees  float64  `json:"transferFees"`
	PercentFull   float64  `json:"percentFull"` // Cargo fill ratio, 0..1 unless overloaded
	Payouts       []Payout `json:"payouts"`
}

// FromDraft builds an Order from a resolved work-order configuration.
func FromDraft(draft settings.WorkOrderDraft, seller string, gross float64, expenses []Expense) Order {
	return Order{
		SellerScName:       seller,
		GrossValue:         gross,
		Expenses:           expenses,
		IncludeTransferFee: draft.IncludeTransferFee != nil && *draft.IncludeTransferFee,
		Shares:             draft.CrewShares,
	}
}

// Calculate splits the order's proceeds.
func Calculate(o Order) Summary {
	s := Summary{
		GrossValue:  nonNegative(o.GrossValue),
		PercentFull: PercentFull(o.CargoSCU, o.CapacitySCU),
		Payouts:     []Payout{},
	}

	// 1. Expenses come off the top
	for _, e := range o.Expenses {
		s.ExpensesTotal += nonNegative(e.Amount)
	}
	s.Shareable = math.Max(0, s.GrossValue-s.ExpensesTotal)
	remaining := s.Shareable

	amounts := make([]float64, len(o.Shares))

	// 2. Fixed amounts, in list order, until the money runs out
	for i, sh := range o.Shares {
		if sh.ShareType != settings.ShareAmount {
			continue
		}
		paid := math.Min(nonNegative(sh.Share), remaining)
		amounts[i] = paid
		remaining -= paid
	}

	// 3. Percentages of what the amounts left; scaled down if they exceed 100%
	percentTotal := 0.0
	for _, sh := range o.Shares {
		if sh.ShareType == settings.SharePercent {
			percentTotal += clamp01(sh.Share)
		}
	}
	if percentTotal > 0 {
		scale := 1.0
		if percentTotal > 1 {
			scale = 1 / percentTotal
		}
		base := remaining
		for i, sh := range o.Shares {
			if sh.ShareType != settings.SharePercent {
				continue
			}
			paid := base * clamp01(sh.Share) * scale
			amounts[i] = paid
			remaining -= paid
		}
	}

	// 4. Weighted shares split the rest
	weightTotal := 0.0
	for _, sh := range o.Shares {
		if sh.ShareType == settings.ShareShare {
			weightTotal += nonNegative(sh.Share)
		}
	}
	if weightTotal > 0 {
		base := remaining
		for i, sh := range o.Shares {
			if sh.ShareType != settings.ShareShare {
				continue
			}
			paid := base * nonNegative(sh.Share) / weightTotal
			amounts[i] = paid
			remaining -= paid
		}
	}
	s.SellerKeeps = math.Max(0, remaining)

	// 5. Transfer fees apply to money leaving the seller
	for i, sh := range o.Shares {
		if !sh.ShareType.Valid() {
			continue
		}
		p := Payout{PayeeScName: sh.PayeeScName, ShareType: sh.ShareType, Amount: amounts[i]}
		if o.IncludeTransferFee && sh.PayeeScName != o.SellerScName {
			p.TransferFee = p.Amount * TransferFeeRate
		}
		p.Net = p.Amount - p.TransferFee
		s.TransferFees += p.TransferFee
		s.Payouts = append(s.Payouts, p)
	}
	if s.SellerKeeps > 0 && o.SellerScName != "" {
		s.Payouts = append(s.Payouts, Payout{PayeeScName: o.SellerScName, Amount: s.SellerKeeps, Net: s.SellerKeeps})
	}
	return s
}

// PercentFull is the cargo fill ratio, 0 when the hold has no capacity.
func PercentFull(used, capacity float64) float64 {
	if capacity <= 0 || math.IsNaN(used) || math.IsNaN(capacity) {
		return 0
	}
	return nonNegative(used) / capacity
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Min(1, nonNegative(v))
}
