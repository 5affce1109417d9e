package response

import (
	"time"

	"sterling_partners/internal/domain/entities"
)

// PricingResultResponse is the price breakdown. Add-on lines are zero when
// the add-on is not selected; vat_filing is always included in the base.
type PricingResultResponse struct {
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
	RecommendedPlan   string  `json:"recommended_plan"`
	Currency          string  `json:"currency"`
}

func FromPricingResult(r entities.PricingResult) PricingResultResponse {
	return PricingResultResponse{
		BasePrice:         r.BasePrice,
		InvoiceExtra:      r.InvoiceExtra,
		StaffExtra:        r.StaffExtra,
		AnnualReportExtra: r.AnnualReportExtra,
		PayrollExtra:      r.PayrollExtra,
		TaxAdviceExtra:    r.TaxAdviceExtra,
		Total:             r.Total,
		MarketMultiplier:  r.MarketMultiplier,
		MarketAverage:     r.MarketAverage,
		MonthlySavings:    r.MonthlySavings,
		AnnualSavings:     r.AnnualSavings,
		RecommendedPlan:   string(r.RecommendedPlan),
		Currency:          "EUR",
	}
}

type PricingSelectionResponse struct {
	EntityType        string   `json:"entity_type"`
	InvoiceVolumeBand string   `json:"invoice_volume_band"`
	HasStaff          bool     `json:"has_staff"`
	StaffCount        int      `json:"staff_count"`
	AddOns            []string `json:"add_ons"`
}

type QuoteResponse struct {
	ID        string                   `json:"id"`
	QuoteID   string                   `json:"quote_id"`
	Status    string                   `json:"status"`
	Selection PricingSelectionResponse `json:"selection"`
	Result    PricingResultResponse    `json:"result"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	addOns := make([]string, 0, len(q.Selection.AddOns))
	for _, a := range q.Selection.AddOns {
		addOns = append(addOns, string(a))
	}
	return QuoteResponse{
		ID:      q.ID,
		QuoteID: q.ID,
		Status:  string(q.Status),
		Selection: PricingSelectionResponse{
			EntityType:        string(q.Selection.EntityType),
			InvoiceVolumeBand: string(q.Selection.InvoiceVolumeBand),
			HasStaff:          q.Selection.HasStaff,
			StaffCount:        q.Selection.StaffCount,
			AddOns:            addOns,
		},
		Result:    FromPricingResult(q.Result),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
