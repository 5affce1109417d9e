package request

import (
	"strings"

	"sterling_partners/internal/domain/entities"
)

// PricingSelectionRequest is the calculator state posted by the pricing page.
// Validation of the enum values happens in the pricing engine so the error
// names the offending field value.
type PricingSelectionRequest struct {
	EntityType        string   `json:"entity_type" binding:"required"`
	InvoiceVolumeBand string   `json:"invoice_volume_band" binding:"required"`
	HasStaff          bool     `json:"has_staff"`
	StaffCount        int      `json:"staff_count"`
	AddOns            []string `json:"add_ons"`
}

func (r PricingSelectionRequest) ToSelection() entities.PricingSelection {
	addOns := make([]entities.AddOn, 0, len(r.AddOns))
	for _, a := range r.AddOns {
		addOns = append(addOns, entities.AddOn(strings.TrimSpace(a)))
	}
	return entities.PricingSelection{
		EntityType:        entities.EntityType(strings.TrimSpace(r.EntityType)),
		InvoiceVolumeBand: entities.InvoiceVolumeBand(strings.TrimSpace(r.InvoiceVolumeBand)),
		HasStaff:          r.HasStaff,
		StaffCount:        r.StaffCount,
		AddOns:            addOns,
	}
}
