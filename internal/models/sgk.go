package models

import "time"

// SgkFiling records one uploaded monthly SGK declaration for a firm.
// The compliance engine derives everything else (required periods,
// missing periods, alert level) fresh from these rows plus the clock —
// no compliance state is ever stored.
type SgkFiling struct {
	ID         string    `json:"id"`
	FirmID     string    `json:"firmId"`
	Period     string    `json:"period"` // YYYYMM
	FileURL    string    `json:"fileUrl"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	FileType   string    `json:"fileType"`
	Notes      *string   `json:"notes,omitempty"`
	UploadedBy *string   `json:"uploadedBy,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// CreateSgkFilingRequest holds the fields to record a period filing.
// The file itself goes through the upload endpoint first; this request
// carries the resulting metadata.
type CreateSgkFilingRequest struct {
	Period   string  `json:"period"` // YYYYMM or YYYY-MM
	FileURL  string  `json:"fileUrl"`
	FileName string  `json:"fileName"`
	FileSize int64   `json:"fileSize"`
	FileType string  `json:"fileType"`
	Notes    *string `json:"notes,omitempty"`
}

// Validate checks the filing request. Period format is validated by the
// handler against the sgk package.
func (r *CreateSgkFilingRequest) Validate() map[string]string {
	errors := map[string]string{}

	if r.Period == "" {
		errors["period"] = "Period is required"
	}
	if r.FileURL == "" {
		errors["fileUrl"] = "Uploaded file URL is required"
	}

	return errors
}

// FirmComplianceSummary is one row of the cross-firm SGK overview.
type FirmComplianceSummary struct {
	FirmID             string   `json:"firmId"`
	FirmName           string   `json:"firmName"`
	LastUploadedPeriod *string  `json:"lastUploadedPeriod,omitempty"`
	MissingPeriods     []string `json:"missingPeriods"`
	AlertLevel         string   `json:"alertLevel"`
	NextUploadDeadline string   `json:"nextUploadDeadline"`
	NextPeriodToUpload string   `json:"nextPeriodToUpload"`
	Message            string   `json:"message"`
}
