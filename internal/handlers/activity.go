package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"aliaport-backend/internal/database"
	"aliaport-backend/internal/models"
)

// ActivityHandler serves the audit trail. Admin only.
type ActivityHandler struct {
	db database.Service
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(db database.Service) *ActivityHandler {
	return &ActivityHandler{db: db}
}

// List handles GET /api/activity with optional entityType filter and
// limit (default 100, max 500).
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1
	if entityType := r.URL.Query().Get("entityType"); entityType != "" {
		where += fmt.Sprintf(" AND a.entity_type = $%d", argIdx)
		args = append(args, entityType)
		argIdx++
	}
	args = append(args, limit)

	rows, err := pool.Query(ctx, fmt.Sprintf(`
		SELECT a.id, a.user_id, u.name, a.action, a.entity_type, a.entity_id,
			a.details::text, a.created_at::text
		FROM activity_log a
		LEFT JOIN users u ON a.user_id = u.id
		%s
		ORDER BY a.created_at DESC
		LIMIT $%d
	`, where, argIdx), args...)
	if err != nil {
		log.Printf("Error fetching activity log: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch activity log")
		return
	}
	defer rows.Close()

	entries := []models.ActivityEntry{}
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.UserName, &e.Action, &e.EntityType,
			&e.EntityID, &e.Details, &e.CreatedAt,
		); err != nil {
			log.Printf("Error scanning activity entry: %v", err)
			continue
		}
		entries = append(entries, e)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": entries,
	})
}
