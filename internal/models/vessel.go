package models

import "time"

// Vessel represents a ship calling at or registered with the port.
type Vessel struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	IMONumber     *string   `json:"imoNumber,omitempty"`
	Flag          *string   `json:"flag,omitempty"`
	VesselType    string    `json:"vesselType"` // cargo, tanker, tug, yacht, other
	GrossTonnage  *float64  `json:"grossTonnage,omitempty"`
	LengthOverall *float64  `json:"lengthOverall,omitempty"` // meters
	AgentFirmID   *string   `json:"agentFirmId,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// VesselWithAgent includes the agent firm name for list views.
type VesselWithAgent struct {
	Vessel
	AgentFirmName *string `json:"agentFirmName,omitempty"`
}

// CreateVesselRequest holds the accepted fields for vessel creation/update.
type CreateVesselRequest struct {
	Name          string   `json:"name"`
	IMONumber     *string  `json:"imoNumber,omitempty"`
	Flag          *string  `json:"flag,omitempty"`
	VesselType    string   `json:"vesselType"`
	GrossTonnage  *float64 `json:"grossTonnage,omitempty"`
	LengthOverall *float64 `json:"lengthOverall,omitempty"`
	AgentFirmID   *string  `json:"agentFirmId,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// Validate checks the vessel request.
func (r *CreateVesselRequest) Validate() map[string]string {
	errors := map[string]string{}

	if len(r.Name) < 2 {
		errors["name"] = "Vessel name is required (min 2 characters)"
	}
	if r.VesselType == "" {
		errors["vesselType"] = "Vessel type is required"
	}

	return errors
}
