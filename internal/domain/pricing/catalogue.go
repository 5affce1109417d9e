package pricing

import "sterling_partners/internal/domain/entities"

// EntityOption is one entity type the calculator offers.
type EntityOption struct {
	ID               entities.EntityType `json:"id"`
	Label            string              `json:"label"`
	BasePrice        int                 `json:"base_price"`
	MarketMultiplier float64             `json:"market_multiplier"`
}

type InvoiceBandOption struct {
	ID    entities.InvoiceVolumeBand `json:"id"`
	Label string                     `json:"label"`
	Extra int                        `json:"extra"`
}

// AddOnOption describes an add-on. PerHead is set when the fee scales with staff.
type AddOnOption struct {
	ID       entities.AddOn `json:"id"`
	Label    string         `json:"label"`
	Fee      int            `json:"fee"`
	PerHead  int            `json:"per_head,omitempty"`
	Included bool           `json:"included"`
}

// Catalogue is everything the calculator controls render.
type Catalogue struct {
	EntityTypes   []EntityOption      `json:"entity_types"`
	InvoiceBands  []InvoiceBandOption `json:"invoice_bands"`
	AddOns        []AddOnOption       `json:"add_ons"`
	StaffRate     int                 `json:"staff_rate"`
	MinStaffCount int                 `json:"min_staff_count"`
	MaxStaffCount int                 `json:"max_staff_count"`
}

func NewCatalogue() Catalogue {
	entityTypes := []struct {
		id    entities.EntityType
		label string
	}{
		{entities.EntitySoleProprietor, "ZZP / eenmanszaak"},
		{entities.EntityPartnership, "VOF / maatschap"},
		{entities.EntityPrivateLimited, "BV"},
		{entities.EntityHoldingStructure, "BV + holding"},
	}
	bands := []struct {
		id    entities.InvoiceVolumeBand
		label string
	}{
		{entities.InvoiceBand0To25, "0 – 25"},
		{entities.InvoiceBand25To50, "25 – 50"},
		{entities.InvoiceBand50To100, "50 – 100"},
		{entities.InvoiceBand100Plus, "100+"},
	}

	c := Catalogue{
		StaffRate:     staffRatePerHead,
		MinStaffCount: MinStaffCount,
		MaxStaffCount: MaxStaffCount,
		AddOns: []AddOnOption{
			{ID: entities.AddOnVATFiling, Label: "BTW-aangifte", Included: true},
			{ID: entities.AddOnAnnualReport, Label: "Jaarrekening", Fee: annualReportFee},
			{ID: entities.AddOnPayroll, Label: "Salarisadministratie", Fee: payrollFloor, PerHead: payrollRatePerHead},
			{ID: entities.AddOnTaxAdvice, Label: "Fiscaal advies", Fee: taxAdviceFee},
		},
	}
	for _, e := range entityTypes {
		c.EntityTypes = append(c.EntityTypes, EntityOption{
			ID:               e.id,
			Label:            e.label,
			BasePrice:        basePrices[e.id],
			MarketMultiplier: float64(marketPercents[e.id]) / 100,
		})
	}
	for _, b := range bands {
		c.InvoiceBands = append(c.InvoiceBands, InvoiceBandOption{ID: b.id, Label: b.label, Extra: invoiceExtras[b.id]})
	}
	return c
}
