package pricing

import (
	"errors"
	"fmt"

	"sterling_partners/internal/domain/entities"
)

const (
	MinStaffCount = 1
	MaxStaffCount = 50

	fallbackBasePrice     = 89
	fallbackMarketPercent = 150

	staffRatePerHead   = 15
	annualReportFee    = 50
	payrollFloor       = 25
	payrollRatePerHead = 10
	taxAdviceFee       = 75

	basicPlanCeiling  = 120
	growthPlanCeiling = 350
)

var (
	ErrUnknownEntityType  = errors.New("unknown entity type")
	ErrUnknownInvoiceBand = errors.New("unknown invoice volume band")
	ErrUnknownAddOn       = errors.New("unknown add-on")
)

var basePrices = map[entities.EntityType]int{
	entities.EntitySoleProprietor:   89,
	entities.EntityPartnership:      129,
	entities.EntityPrivateLimited:   189,
	entities.EntityHoldingStructure: 279,
}

var invoiceExtras = map[entities.InvoiceVolumeBand]int{
	entities.InvoiceBand0To25:   0,
	entities.InvoiceBand25To50:  30,
	entities.InvoiceBand50To100: 75,
	entities.InvoiceBand100Plus: 150,
}

// Assumed competitor price as a percentage of ours, per entity type.
// Only used to show a savings figure. Kept in whole percent so the market
// average rounds half-up exactly.
var marketPercents = map[entities.EntityType]int{
	entities.EntitySoleProprietor:   155,
	entities.EntityPartnership:      150,
	entities.EntityPrivateLimited:   145,
	entities.EntityHoldingStructure: 140,
}

// ComputePrice maps a selection to its monthly price breakdown.
//
// It is pure and never fails: unknown table keys fall back to defaults.
// StaffCount must already be clamped to [MinStaffCount, MaxStaffCount];
// see Normalize.
func ComputePrice(sel entities.PricingSelection) entities.PricingResult {
	base, ok := basePrices[sel.EntityType]
	if !ok {
		base = fallbackBasePrice
	}

	res := entities.PricingResult{
		BasePrice:    base,
		InvoiceExtra: invoiceExtras[sel.InvoiceVolumeBand],
	}

	if sel.HasStaff {
		res.StaffExtra = sel.StaffCount * staffRatePerHead
	}
	if sel.Has(entities.AddOnAnnualReport) {
		res.AnnualReportExtra = annualReportFee
	}
	if sel.Has(entities.AddOnPayroll) {
		res.PayrollExtra = payrollFloor
		if sel.HasStaff {
			res.PayrollExtra = max(payrollFloor, sel.StaffCount*payrollRatePerHead)
		}
	}
	if sel.Has(entities.AddOnTaxAdvice) {
		res.TaxAdviceExtra = taxAdviceFee
	}

	res.Total = res.BasePrice + res.InvoiceExtra + res.StaffExtra +
		res.AnnualReportExtra + res.PayrollExtra + res.TaxAdviceExtra

	pct, ok := marketPercents[sel.EntityType]
	if !ok {
		pct = fallbackMarketPercent
	}
	res.MarketMultiplier = float64(pct) / 100
	res.MarketAverage = (res.Total*pct + 50) / 100
	res.MonthlySavings = res.MarketAverage - res.Total
	res.AnnualSavings = res.MonthlySavings * 12
	res.RecommendedPlan = RecommendPlan(res.Total)

	return res
}

// RecommendPlan picks the tier for a monthly total.
func RecommendPlan(total int) entities.Plan {
	switch {
	case total <= basicPlanCeiling:
		return entities.PlanBasic
	case total <= growthPlanCeiling:
		return entities.PlanGrowth
	default:
		return entities.PlanPlus
	}
}

func ClampStaffCount(n int) int {
	return min(max(n, MinStaffCount), MaxStaffCount)
}

// Normalize prepares raw input for ComputePrice: the staff count is clamped
// (or zeroed without staff), add-ons are de-duplicated and VAT filing is
// always included.
func Normalize(sel entities.PricingSelection) entities.PricingSelection {
	if sel.HasStaff {
		sel.StaffCount = ClampStaffCount(sel.StaffCount)
	} else {
		sel.StaffCount = 0
	}

	addOns := []entities.AddOn{entities.AddOnVATFiling}
	seen := map[entities.AddOn]bool{entities.AddOnVATFiling: true}
	for _, a := range sel.AddOns {
		if seen[a] {
			continue
		}
		seen[a] = true
		addOns = append(addOns, a)
	}
	sel.AddOns = addOns
	return sel
}

// Validate rejects values outside the calculator's option lists.
func Validate(sel entities.PricingSelection) error {
	if _, ok := basePrices[sel.EntityType]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, sel.EntityType)
	}
	if _, ok := invoiceExtras[sel.InvoiceVolumeBand]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInvoiceBand, sel.InvoiceVolumeBand)
	}
	for _, a := range sel.AddOns {
		switch a {
		case entities.AddOnVATFiling, entities.AddOnAnnualReport, entities.AddOnPayroll, entities.AddOnTaxAdvice:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownAddOn, a)
		}
	}
	return nil
}
