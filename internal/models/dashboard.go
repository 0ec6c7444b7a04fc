package models

// ── Dashboard Metrics ────────────────────────────────────────────

// DashboardMetrics holds the main operations dashboard statistics.
type DashboardMetrics struct {
	TotalFirms       int `json:"totalFirms"`
	TotalEmployees   int `json:"totalEmployees"`
	TotalVessels     int `json:"totalVessels"`
	OpenWorkOrders   int `json:"openWorkOrders"`
	FirmsWithGaps    int `json:"firmsWithGaps"`    // firms with at least one missing SGK period
	FilingsThisMonth int `json:"filingsThisMonth"` // SGK filings uploaded this calendar month
}

// ── Notifications ────────────────────────────────────────────────

// Notification is one user-facing alert (missing SGK period,
// approaching deadline, work order status change).
type Notification struct {
	ID         string  `json:"id"`
	UserID     string  `json:"userId"`
	Title      string  `json:"title"`
	Message    string  `json:"message"`
	Type       string  `json:"type"`
	EntityType *string `json:"entityType,omitempty"`
	EntityID   *string `json:"entityId,omitempty"`
	IsRead     bool    `json:"isRead"`
	CreatedAt  string  `json:"createdAt"`
}

// ── Activity Log ─────────────────────────────────────────────────

// ActivityEntry is one audit-trail row.
type ActivityEntry struct {
	ID         string  `json:"id"`
	UserID     *string `json:"userId,omitempty"`
	UserName   *string `json:"userName,omitempty"`
	Action     string  `json:"action"` // created, updated, deleted, uploaded, approved...
	EntityType string  `json:"entityType"`
	EntityID   string  `json:"entityId"`
	Details    *string `json:"details,omitempty"` // JSON blob
	CreatedAt  string  `json:"createdAt"`
}
