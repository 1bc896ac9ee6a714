package services

import (
	"github.com/TomasElordi/gestion-rural-api/internal/apperror"

	"github.com/shopspring/decimal"
)

// UGMCalculator converts live weight to livestock units (UGM).
type UGMCalculator struct {
	kgEquivalence decimal.Decimal
}

func NewUGMCalculator(kgEquivalence decimal.Decimal) *UGMCalculator {
	return &UGMCalculator{kgEquivalence: kgEquivalence}
}

// CalculateUGM returns liveWeightKg / equivalence with four decimal places.
func (c *UGMCalculator) CalculateUGM(liveWeightKg decimal.Decimal) (decimal.Decimal, error) {
	if liveWeightKg.IsNegative() {
		return decimal.Zero, apperror.BadRequest("Live weight cannot be negative")
	}
	return liveWeightKg.DivRound(c.kgEquivalence, 4), nil
}

func (c *UGMCalculator) KgEquivalence() decimal.Decimal {
	return c.kgEquivalence
}
