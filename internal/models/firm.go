package models

// Firm represents a customer company operating in the port: an agency,
// a forwarder, or a tenant firm with personnel on site. SGK filing
// obligations hang off the firm.
type Firm struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	TaxNumber             *string `json:"taxNumber,omitempty"`
	SgkRegistrationNumber *string `json:"sgkRegistrationNumber,omitempty"`
	SgkStartDate          *string `json:"sgkStartDate,omitempty"` // first month with filing obligation
	ContactEmail          *string `json:"contactEmail,omitempty"`
	ContactPhone          *string `json:"contactPhone,omitempty"`
	Address               *string `json:"address,omitempty"`
	IsActive              bool    `json:"isActive"`
	CreatedAt             string  `json:"createdAt"`
	UpdatedAt             string  `json:"updatedAt"`
}

// FirmWithCounts includes roster and filing aggregates for list views.
type FirmWithCounts struct {
	Firm
	EmployeeCount      int     `json:"employeeCount"`
	LastUploadedPeriod *string `json:"lastUploadedPeriod,omitempty"` // YYYYMM of newest SGK filing
}

// CreateFirmRequest holds the accepted fields for firm creation/update.
type CreateFirmRequest struct {
	Name                  string  `json:"name"`
	TaxNumber             *string `json:"taxNumber,omitempty"`
	SgkRegistrationNumber *string `json:"sgkRegistrationNumber,omitempty"`
	SgkStartDate          *string `json:"sgkStartDate,omitempty"`
	ContactEmail          *string `json:"contactEmail,omitempty"`
	ContactPhone          *string `json:"contactPhone,omitempty"`
	Address               *string `json:"address,omitempty"`
}

// Validate checks the firm request.
func (r *CreateFirmRequest) Validate() map[string]string {
	errors := map[string]string{}

	if len(r.Name) < 2 {
		errors["name"] = "Firm name is required (min 2 characters)"
	}

	return errors
}
