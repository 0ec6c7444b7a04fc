package models

import "time"

// ── Work Order Status Constants ──────────────────────────────────
// A work order moves draft → approved → completed; draft and approved
// orders can be cancelled.

const (
	WorkOrderDraft     = "draft"
	WorkOrderApproved  = "approved"
	WorkOrderCompleted = "completed"
	WorkOrderCancelled = "cancelled"
)

// ValidWorkOrderTransitions maps a status to the statuses it may move to.
var ValidWorkOrderTransitions = map[string][]string{
	WorkOrderDraft:     {WorkOrderApproved, WorkOrderCancelled},
	WorkOrderApproved:  {WorkOrderCompleted, WorkOrderCancelled},
	WorkOrderCompleted: {},
	WorkOrderCancelled: {},
}

// CanTransitionWorkOrder reports whether a status change is allowed.
func CanTransitionWorkOrder(from, to string) bool {
	for _, s := range ValidWorkOrderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ── Work Order ───────────────────────────────────────────────────

// WorkOrder represents a service order raised by or for a firm:
// pilotage, towage, water supply, waste collection, crane hire, etc.
type WorkOrder struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"` // e.g. "WO-2025-00042"
	FirmID      string    `json:"firmId"`
	VesselID    *string   `json:"vesselId,omitempty"`
	Status      string    `json:"status"`
	RequestedAt string    `json:"requestedAt"`
	ScheduledAt *string   `json:"scheduledAt,omitempty"`
	CompletedAt *string   `json:"completedAt,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Currency    string    `json:"currency"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedBy   *string   `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WorkOrderItem is one service line on a work order. Unit price is
// copied from the active price list at creation time so later tariff
// changes don't rewrite history.
type WorkOrderItem struct {
	ID          string  `json:"id"`
	WorkOrderID string  `json:"workOrderId"`
	ServiceCode string  `json:"serviceCode"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"` // hour, ton, m3, trip, piece
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// WorkOrderWithDetails bundles the order, its lines, and display names.
type WorkOrderWithDetails struct {
	WorkOrder
	FirmName   string          `json:"firmName"`
	VesselName *string         `json:"vesselName,omitempty"`
	Items      []WorkOrderItem `json:"items"`
}

// ── Requests ─────────────────────────────────────────────────────

// CreateWorkOrderItemRequest is one requested service line.
type CreateWorkOrderItemRequest struct {
	ServiceCode string  `json:"serviceCode"`
	Quantity    float64 `json:"quantity"`
}

// CreateWorkOrderRequest holds the fields to open a work order.
type CreateWorkOrderRequest struct {
	FirmID      string                       `json:"firmId"`
	VesselID    *string                      `json:"vesselId,omitempty"`
	ScheduledAt *string                      `json:"scheduledAt,omitempty"`
	Notes       *string                      `json:"notes,omitempty"`
	Items       []CreateWorkOrderItemRequest `json:"items"`
}

// Validate checks the work order request.
func (r *CreateWorkOrderRequest) Validate() map[string]string {
	errors := map[string]string{}

	if r.FirmID == "" {
		errors["firmId"] = "Firm is required"
	}
	if len(r.Items) == 0 {
		errors["items"] = "At least one service line is required"
	}
	for _, item := range r.Items {
		if item.ServiceCode == "" {
			errors["items"] = "Service code is required on every line"
			break
		}
		if item.Quantity <= 0 {
			errors["items"] = "Quantity must be positive on every line"
			break
		}
	}

	return errors
}

// UpdateWorkOrderStatusRequest changes a work order's status.
type UpdateWorkOrderStatusRequest struct {
	Status string `json:"status"`
}
