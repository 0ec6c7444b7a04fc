package models

import "time"

// PriceList is a tariff table for port services. At most one list is
// active at a time; work orders price their lines from the active list.
type PriceList struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Currency   string    `json:"currency"` // e.g. "TRY", "USD", "EUR"
	ValidFrom  string    `json:"validFrom"`
	ValidUntil *string   `json:"validUntil,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PriceListItem is one tariff entry.
type PriceListItem struct {
	ID          string  `json:"id"`
	PriceListID string  `json:"priceListId"`
	ServiceCode string  `json:"serviceCode"` // e.g. "PILOTAGE", "TOWAGE", "WATER"
	Description string  `json:"description"`
	Unit        string  `json:"unit"` // hour, ton, m3, trip, piece
	UnitPrice   float64 `json:"unitPrice"`
}

// PriceListWithItems bundles a list with its entries.
type PriceListWithItems struct {
	PriceList
	Items []PriceListItem `json:"items"`
}

// ── Requests ─────────────────────────────────────────────────────

// CreatePriceListItemRequest is one tariff entry in a create request.
type CreatePriceListItemRequest struct {
	ServiceCode string  `json:"serviceCode"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
}

// CreatePriceListRequest holds the fields to create a price list.
type CreatePriceListRequest struct {
	Name       string                       `json:"name"`
	Currency   string                       `json:"currency"`
	ValidFrom  string                       `json:"validFrom"`
	ValidUntil *string                      `json:"validUntil,omitempty"`
	Items      []CreatePriceListItemRequest `json:"items"`
}

// Validate checks the price list request.
func (r *CreatePriceListRequest) Validate() map[string]string {
	errors := map[string]string{}

	if len(r.Name) < 2 {
		errors["name"] = "Price list name is required (min 2 characters)"
	}
	if r.ValidFrom == "" {
		errors["validFrom"] = "Valid-from date is required"
	}
	if len(r.Items) == 0 {
		errors["items"] = "At least one tariff entry is required"
	}
	for _, item := range r.Items {
		if item.ServiceCode == "" || item.Unit == "" {
			errors["items"] = "Service code and unit are required on every entry"
			break
		}
		if item.UnitPrice < 0 {
			errors["items"] = "Unit price cannot be negative"
			break
		}
	}

	return errors
}
