package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"aliaport-backend/internal/database"
	"aliaport-backend/internal/sgk"
)

// StartNotifier launches a background goroutine that runs once per day
// (and once immediately) to generate SGK compliance notifications for
// users assigned to firms with missing periods or an approaching deadline.
func StartNotifier(db database.Service, oracle sgk.Oracle) {
	go func() {
		runCycle(db, oracle)

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			runCycle(db, oracle)
		}
	}()

	log.Println("[cron] SGK compliance notifier started – runs every 24 h")
}

// deadlineWarningDays is how close the next filing deadline has to be
// before compliant firms get a reminder.
const deadlineWarningDays = 5

// runCycle recomputes the compliance status of every active firm and
// inserts a notification for each assigned user. Notifications are
// de-duplicated by (user_id, entity_id) on the same day.
func runCycle(db database.Service, oracle sgk.Oracle) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool := db.GetPool()
	now := time.Now()

	// ─── 1. Fetch every active firm with its filing state ────────────
	rows, err := pool.Query(ctx, `
		SELECT f.id, f.name, f.sgk_start_date::text,
			(SELECT MAX(period) FROM sgk_filings WHERE firm_id = f.id)
		FROM firms f
		WHERE f.is_active = true
	`)
	if err != nil {
		log.Printf("[cron] error querying firms: %v", err)
		return
	}
	defer rows.Close()

	type firmRow struct {
		ID       string
		Name     string
		StartRaw *string
		LastRaw  *string
	}

	var firms []firmRow
	for rows.Next() {
		var f firmRow
		if err := rows.Scan(&f.ID, &f.Name, &f.StartRaw, &f.LastRaw); err != nil {
			log.Printf("[cron] scan error: %v", err)
			continue
		}
		firms = append(firms, f)
	}
	rows.Close()

	if len(firms) == 0 {
		log.Println("[cron] no active firms found")
		return
	}

	// ─── 2. Build & insert notifications (skip if already sent today) ────
	inserted := 0
	today := now.Format("2006-01-02")

	for _, f := range firms {
		var lastUploaded sgk.Period
		if f.LastRaw != nil {
			if p, ok := sgk.ParsePeriod(*f.LastRaw); ok {
				lastUploaded = p
			}
		}
		var firmStart *time.Time
		if f.StartRaw != nil {
			if t, err := time.Parse("2006-01-02", *f.StartRaw); err == nil {
				firmStart = &t
			}
		}

		status := sgk.ComputeStatus(ctx, oracle, now, lastUploaded, firmStart)
		daysToDeadline := int(status.NextUploadDeadline.Sub(now).Hours() / 24)

		var title, message, nType string
		switch {
		case status.AlertLevel == sgk.AlertCritical:
			title = fmt.Sprintf("🚨 %s – SGK bildirimleri eksik", f.Name)
			message = status.Message
			nType = "sgk_critical"

		case status.AlertLevel == sgk.AlertWarning:
			title = fmt.Sprintf("⚠️ %s – SGK bildirimi eksik", f.Name)
			message = status.Message
			nType = "sgk_warning"

		case daysToDeadline >= 0 && daysToDeadline <= deadlineWarningDays:
			title = fmt.Sprintf("📋 %s – SGK son tarihi yaklaşıyor", f.Name)
			message = fmt.Sprintf(
				"%s dönemi bildirimi için son tarih %s.",
				status.NextPeriodToUpload.Label(),
				status.NextUploadDeadline.Format("02.01.2006"),
			)
			nType = "sgk_deadline"

		default:
			continue // compliant and no deadline pressure
		}

		// Notify everyone assigned to the firm plus all operators/admins.
		userRows, err := pool.Query(ctx, `
			SELECT user_id::text FROM user_firms WHERE firm_id = $1
			UNION
			SELECT id::text FROM users WHERE role IN ('operator', 'admin', 'super_admin')
		`, f.ID)
		if err != nil {
			log.Printf("[cron] error querying recipients for firm %s: %v", f.ID, err)
			continue
		}

		var recipients []string
		for userRows.Next() {
			var id string
			if userRows.Scan(&id) == nil {
				recipients = append(recipients, id)
			}
		}
		userRows.Close()

		for _, userID := range recipients {
			// De-duplicate: skip if we already notified this user about
			// this firm today.
			var exists bool
			_ = pool.QueryRow(ctx, `
				SELECT EXISTS(
					SELECT 1 FROM notifications
					WHERE user_id     = $1
					  AND entity_type = 'firm'
					  AND entity_id   = $2
					  AND created_at::date = $3::date
				)
			`, userID, f.ID, today).Scan(&exists)

			if exists {
				continue
			}

			_, err := pool.Exec(ctx, `
				INSERT INTO notifications (user_id, title, message, type, entity_type, entity_id)
				VALUES ($1, $2, $3, $4, 'firm', $5)
			`, userID, title, message, nType, f.ID)
			if err != nil {
				log.Printf("[cron] insert notification error: %v", err)
				continue
			}
			inserted++
		}
	}

	log.Printf("[cron] SGK compliance check complete – %d new notifications across %d firms", inserted, len(firms))
}
