package models

import "time"

// Employee represents one person on a firm's roster. The roster is what
// the firm's monthly SGK declaration must cover.
type Employee struct {
	ID             string    `json:"id"`
	FirmID         string    `json:"firmId"`
	Name           string    `json:"name"`
	NationalID     *string   `json:"nationalId,omitempty"` // TC kimlik no
	Position       string    `json:"position"`
	Mobile         *string   `json:"mobile,omitempty"`
	StartDate      string    `json:"startDate"`
	EndDate        *string   `json:"endDate,omitempty"`
	Status         string    `json:"status"` // active, inactive, exited
	BadgeNumber    *string   `json:"badgeNumber,omitempty"`
	HasGateAccess  bool      `json:"hasGateAccess"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EmployeeWithFirm includes the firm name for cross-firm list views.
type EmployeeWithFirm struct {
	Employee
	FirmName string `json:"firmName"`
}

// CreateEmployeeRequest holds the fields needed to add a roster entry.
type CreateEmployeeRequest struct {
	FirmID        string  `json:"firmId"`
	Name          string  `json:"name"`
	NationalID    *string `json:"nationalId,omitempty"`
	Position      string  `json:"position"`
	Mobile        *string `json:"mobile,omitempty"`
	StartDate     string  `json:"startDate"`
	BadgeNumber   *string `json:"badgeNumber,omitempty"`
	HasGateAccess bool    `json:"hasGateAccess"`
	Status        string  `json:"status,omitempty"`
}

// Validate checks the employee request.
func (r *CreateEmployeeRequest) Validate() map[string]string {
	errors := map[string]string{}

	if r.FirmID == "" {
		errors["firmId"] = "Firm is required"
	}
	if len(r.Name) < 2 {
		errors["name"] = "Name is required (min 2 characters)"
	}
	if r.Position == "" {
		errors["position"] = "Position is required"
	}
	if r.StartDate == "" {
		errors["startDate"] = "Start date is required"
	}

	return errors
}

// UpdateEmployeeRequest holds the fields that can be partially updated.
type UpdateEmployeeRequest struct {
	Name          *string `json:"name,omitempty"`
	NationalID    *string `json:"nationalId,omitempty"`
	Position      *string `json:"position,omitempty"`
	Mobile        *string `json:"mobile,omitempty"`
	StartDate     *string `json:"startDate,omitempty"`
	EndDate       *string `json:"endDate,omitempty"`
	Status        *string `json:"status,omitempty"`
	BadgeNumber   *string `json:"badgeNumber,omitempty"`
	HasGateAccess *bool   `json:"hasGateAccess,omitempty"`
}
