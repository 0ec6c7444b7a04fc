package models

import "time"

// Vehicle represents a vehicle with gate access to the port area.
type Vehicle struct {
	ID          string    `json:"id"`
	FirmID      string    `json:"firmId"`
	PlateNumber string    `json:"plateNumber"`
	VehicleType string    `json:"vehicleType"` // car, truck, forklift, crane, other
	DriverName  *string   `json:"driverName,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VehicleWithFirm includes the owning firm name.
type VehicleWithFirm struct {
	Vehicle
	FirmName string `json:"firmName"`
}

// CreateVehicleRequest holds the accepted fields for vehicle creation/update.
type CreateVehicleRequest struct {
	FirmID      string  `json:"firmId"`
	PlateNumber string  `json:"plateNumber"`
	VehicleType string  `json:"vehicleType"`
	DriverName  *string `json:"driverName,omitempty"`
}

// Validate checks the vehicle request.
func (r *CreateVehicleRequest) Validate() map[string]string {
	errors := map[string]string{}

	if len(r.PlateNumber) < 4 {
		errors["plateNumber"] = "Plate number is required (min 4 characters)"
	}
	if r.FirmID == "" {
		errors["firmId"] = "Firm is required"
	}
	if r.VehicleType == "" {
		errors["vehicleType"] = "Vehicle type is required"
	}

	return errors
}
