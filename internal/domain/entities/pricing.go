package entities

// EntityType is the legal form of the client business. It drives the base price tier.
type EntityType string

const (
	EntitySoleProprietor   EntityType = "sole_proprietor"
	EntityPartnership      EntityType = "partnership"
	EntityPrivateLimited   EntityType = "private_limited"
	EntityHoldingStructure EntityType = "holding_structure"
)

// InvoiceVolumeBand is the monthly number of invoices the client processes.
type InvoiceVolumeBand string

const (
	InvoiceBand0To25   InvoiceVolumeBand = "0-25"
	InvoiceBand25To50  InvoiceVolumeBand = "25-50"
	InvoiceBand50To100 InvoiceVolumeBand = "50-100"
	InvoiceBand100Plus InvoiceVolumeBand = "100+"
)

// AddOn is an optional service on top of the base package.
// AddOnVATFiling is bundled in the base price and always present.
type AddOn string

const (
	AddOnVATFiling    AddOn = "vat_filing"
	AddOnAnnualReport AddOn = "annual_report"
	AddOnPayroll      AddOn = "payroll"
	AddOnTaxAdvice    AddOn = "tax_advice"
)

// Plan is the pricing tier recommended for a computed total.
type Plan string

const (
	PlanBasic  Plan = "basic"
	PlanGrowth Plan = "growth"
	PlanPlus   Plan = "plus"
)

// PricingSelection is what the visitor picked in the calculator.
// StaffCount only matters when HasStaff is set.
type PricingSelection struct {
	EntityType        EntityType        `json:"entity_type"`
	InvoiceVolumeBand InvoiceVolumeBand `json:"invoice_volume_band"`
	HasStaff          bool              `json:"has_staff"`
	StaffCount        int               `json:"staff_count"`
	AddOns            []AddOn           `json:"add_ons"`
}

func (s PricingSelection) Has(a AddOn) bool {
	for _, x := range s.AddOns {
		if x == a {
			return true
		}
	}
	return false
}

// PricingResult is the monthly price breakdown. All amounts are whole euros.
type PricingResult struct {
	BasePrice         int     `json:"base_price"`
	InvoiceExtra      int     `json:"invoice_extra"`
	StaffExtra        int     `json:"staff_extra"`
	AnnualReportExtra int     `json:"annual_report_extra"`
	PayrollExtra      int     `json:"payroll_extra"`
	TaxAdviceExtra    int     `json:"tax_advice_extra"`
	Total             int     `json:"total"`
	MarketMultiplier  float64 `json:"market_multiplier"`
	MarketAverage     int     `json:"market_average"`
	MonthlySavings    int     `json:"monthly_savings"`
	AnnualSavings     int     `json:"annual_savings"`
	RecommendedPlan   Plan    `json:"recommended_plan"`
}
