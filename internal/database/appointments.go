package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"barberm/internal/calendar"
	"barberm/internal/models"
)

const appointmentColumns = `id, client_name, client_email, client_phone, service,
       service_duration, service_price, date, time, notes, status,
       rejection_reason, final_price, payment_method, completion_notes,
       completed_at, deleted, created_at, updated_at`

// CreateAppointment inserts the record as-is. Most callers want
// CreateAppointmentChecked; this variant exists for imports and tests that
// need to bypass the conflict check.
func (db *DB) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	_, err := db.db.ExecContext(ctx, insertAppointmentQuery, insertAppointmentArgs(appt)...)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// CreateAppointmentChecked re-validates availability and inserts inside a
// single transaction, closing the window between a client's availability
// check and their create. Returns ErrSlotTaken when an active appointment
// overlaps the requested interval.
func (db *DB) CreateAppointmentChecked(ctx context.Context, appt *models.Appointment) error {
	start, err := calendar.ParseClock(appt.Time)
	if err != nil {
		return err
	}
	end := start + appt.ServiceDuration

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx,
		`SELECT time, service_duration FROM appointments
         WHERE date = ? AND deleted = 0 AND status IN (?, ?, ?)`,
		appt.Date, models.StatusPending, models.StatusConfirmed, models.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to check conflicts in tx: %w", err)
	}

	taken, err := scanForOverlap(rows, start, end)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, insertAppointmentQuery, insertAppointmentArgs(appt)...); err != nil {
		return fmt.Errorf("failed to insert appointment in tx: %w", err)
	}

	return tx.Commit()
}

const insertAppointmentQuery = `INSERT INTO appointments (
            id, client_name, client_email, client_phone, service,
            service_duration, service_price, date, time, notes, status,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertAppointmentArgs(appt *models.Appointment) []interface{} {
	return []interface{}{
		appt.ID,
		appt.ClientName,
		appt.ClientEmail,
		appt.ClientPhone,
		appt.Service,
		appt.ServiceDuration,
		appt.ServicePrice,
		appt.Date,
		appt.Time,
		appt.Notes,
		appt.Status,
		appt.CreatedAt,
		appt.UpdatedAt,
	}
}

func scanForOverlap(rows *sql.Rows, start, end int) (bool, error) {
	defer rows.Close()

	for rows.Next() {
		var existingTime string
		var existingDuration int
		if err := rows.Scan(&existingTime, &existingDuration); err != nil {
			return false, fmt.Errorf("failed to scan conflict row: %w", err)
		}

		existingStart, err := calendar.ParseClock(existingTime)
		if err != nil {
			return false, err
		}
		existingEnd := existingStart + existingDuration

		if start < existingEnd && existingStart < end {
			return true, nil
		}
	}
	return false, rows.Err()
}

// GetAppointment returns one non-deleted appointment by id.
func (db *DB) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ? AND deleted = 0`
	appt, err := db.queryAppointment(ctx, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appt, nil
}

// GetAllAppointments returns every non-deleted appointment, newest first.
func (db *DB) GetAllAppointments(ctx context.Context) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointments WHERE deleted = 0
              ORDER BY date DESC, time DESC`
	return db.queryAppointments(ctx, query)
}

// GetAppointmentsByClient returns the union of appointments whose client
// email or phone matches the identifier; the single query deduplicates by id.
func (db *DB) GetAppointmentsByClient(ctx context.Context, identifier string) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointments
              WHERE deleted = 0 AND (client_email = ? OR client_phone = ?)
              ORDER BY date DESC, time DESC`
	return db.queryAppointments(ctx, query, identifier, identifier)
}

// GetAppointmentsByDate returns the non-deleted appointments for one exact
// ISO date, chronological.
func (db *DB) GetAppointmentsByDate(ctx context.Context, date string) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointments WHERE deleted = 0 AND date = ?
              ORDER BY time ASC`
	return db.queryAppointments(ctx, query, date)
}

// GetAppointmentsByDateRange returns the non-deleted appointments dated
// within [from, to], both bounds inclusive, chronological.
func (db *DB) GetAppointmentsByDateRange(ctx context.Context, from, to string) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointments WHERE deleted = 0 AND date BETWEEN ? AND ?
              ORDER BY date ASC, time ASC`
	return db.queryAppointments(ctx, query, from, to)
}

// GetActiveAppointmentsByDate returns the slot-occupying appointments for a
// date: non-deleted, status pending/confirmed/completed.
func (db *DB) GetActiveAppointmentsByDate(ctx context.Context, date string) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointments
              WHERE deleted = 0 AND date = ? AND status IN (?, ?, ?)
              ORDER BY time ASC`
	return db.queryAppointments(ctx, query, date,
		models.StatusPending, models.StatusConfirmed, models.StatusCompleted)
}

// UpdateAppointmentStatus writes the new status (and rejection reason when
// provided) and stamps updated_at.
func (db *DB) UpdateAppointmentStatus(ctx context.Context, id string, status models.Status, rejectionReason string) error {
	query := `UPDATE appointments
              SET status = ?, rejection_reason = ?, updated_at = ?
              WHERE id = ? AND deleted = 0`
	result, err := db.db.ExecContext(ctx, query, status, rejectionReason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return requireRow(result)
}

// CompleteAppointment marks the appointment completed and attaches the
// completion data.
func (db *DB) CompleteAppointment(ctx context.Context, id string, completion models.Completion, completedAt time.Time) error {
	query := `UPDATE appointments
              SET status = ?, final_price = ?, payment_method = ?,
                  completion_notes = ?, completed_at = ?, updated_at = ?
              WHERE id = ? AND deleted = 0`
	result, err := db.db.ExecContext(ctx, query,
		models.StatusCompleted,
		completion.FinalPrice,
		completion.PaymentMethod,
		completion.CompletionNotes,
		completedAt,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete appointment: %w", err)
	}
	return requireRow(result)
}

// UpdateAppointment applies a partial field patch and stamps updated_at.
func (db *DB) UpdateAppointment(ctx context.Context, id string, patch models.AppointmentPatch) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	addSet := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	addSet("client_name", patch.ClientName)
	addSet("client_email", patch.ClientEmail)
	addSet("client_phone", patch.ClientPhone)
	addSet("date", patch.Date)
	addSet("time", patch.Time)
	addSet("notes", patch.Notes)

	args = append(args, id)
	query := `UPDATE appointments SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND deleted = 0`
	result, err := db.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return requireRow(result)
}

// SoftDeleteAppointment marks the record deleted; the row stays in storage.
func (db *DB) SoftDeleteAppointment(ctx context.Context, id string) error {
	query := `UPDATE appointments SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`
	result, err := db.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return requireRow(result)
}

// GetStats counts non-deleted appointments per status plus those dated today.
func (db *DB) GetStats(ctx context.Context, today string) (*models.Stats, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM appointments WHERE deleted = 0 GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	defer rows.Close()

	stats := &models.Stats{}
	for rows.Next() {
		var status models.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.Total += count
		switch status {
		case models.StatusPending:
			stats.Pending = count
		case models.StatusConfirmed:
			stats.Confirmed = count
		case models.StatusRejected:
			stats.Rejected = count
		case models.StatusCompleted:
			stats.Completed = count
		case models.StatusCancelled:
			stats.Cancelled = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = db.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments WHERE deleted = 0 AND date = ?`, today).
		Scan(&stats.Today)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's appointments: %w", err)
	}

	return stats, nil
}

// CleanupOldAppointments soft-deletes non-pending appointments dated before
// cutoff and returns how many were removed.
func (db *DB) CleanupOldAppointments(ctx context.Context, cutoff string) (int64, error) {
	query := `UPDATE appointments SET deleted = 1, updated_at = ?
              WHERE deleted = 0 AND date < ? AND status != ?`
	result, err := db.db.ExecContext(ctx, query, time.Now(), cutoff, models.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old appointments: %w", err)
	}
	return result.RowsAffected()
}

func (db *DB) queryAppointment(ctx context.Context, query string, args ...interface{}) (*models.Appointment, error) {
	appt := &models.Appointment{}
	var completedAt sql.NullTime
	err := db.db.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID, &appt.ClientName, &appt.ClientEmail, &appt.ClientPhone, &appt.Service,
		&appt.ServiceDuration, &appt.ServicePrice, &appt.Date, &appt.Time, &appt.Notes,
		&appt.Status, &appt.RejectionReason, &appt.FinalPrice, &appt.PaymentMethod,
		&appt.CompletionNotes, &completedAt, &appt.Deleted, &appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		appt.CompletedAt = &completedAt.Time
	}
	return appt, nil
}

func (db *DB) queryAppointments(ctx context.Context, query string, args ...interface{}) ([]*models.Appointment, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		appt := &models.Appointment{}
		var completedAt sql.NullTime
		err := rows.Scan(
			&appt.ID, &appt.ClientName, &appt.ClientEmail, &appt.ClientPhone, &appt.Service,
			&appt.ServiceDuration, &appt.ServicePrice, &appt.Date, &appt.Time, &appt.Notes,
			&appt.Status, &appt.RejectionReason, &appt.FinalPrice, &appt.PaymentMethod,
			&appt.CompletionNotes, &completedAt, &appt.Deleted, &appt.CreatedAt, &appt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		if completedAt.Valid {
			appt.CompletedAt = &completedAt.Time
		}
		appointments = append(appointments, appt)
	}
	return appointments, rows.Err()
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
