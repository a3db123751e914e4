package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/coffeelog/apiserver/types"
)

// CoffeeRepository handles persistence for coffee records and settings.
type CoffeeRepository struct {
	db *sql.DB
}

func NewCoffeeRepository(db *sql.DB) *CoffeeRepository {
	return &CoffeeRepository{db: db}
}

const coffeeColumns = `id, user_id, date, cups, timestamp, coffee_type, size, location, notes, created_at`

func (r *CoffeeRepository) Create(ctx context.Context, record types.CoffeeRecord) (types.CoffeeRecord, error) {
	record.CreatedAt = time.Now()

	const query = `
		INSERT INTO coffee_records (user_id, date, cups, timestamp, coffee_type, size, location, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		record.UserID,
		record.Date,
		record.Cups,
		record.Timestamp,
		record.CoffeeType,
		record.Size,
		record.Location,
		record.Notes,
		record.CreatedAt,
	).Scan(&record.ID); err != nil {
		return types.CoffeeRecord{}, err
	}
	return record, nil
}

// ListMonth returns all of a user's records whose day bucket falls in
// [from, to), ordered by date descending.
func (r *CoffeeRepository) ListMonth(ctx context.Context, userID int, from, to time.Time) ([]types.CoffeeRecord, error) {
	const query = `
		SELECT ` + coffeeColumns + `
		FROM coffee_records
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC, id DESC`
	return r.listRecords(ctx, query, userID, from, to)
}

// ListRecent returns the user's most recent records by day bucket.
func (r *CoffeeRepository) ListRecent(ctx context.Context, userID, limit int) ([]types.CoffeeRecord, error) {
	const query = `
		SELECT ` + coffeeColumns + `
		FROM coffee_records
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2`
	return r.listRecords(ctx, query, userID, limit)
}

// ListSince returns all of a user's records with a day bucket on or
// after the given day, ordered oldest-first for aggregation.
func (r *CoffeeRepository) ListSince(ctx context.Context, userID int, since time.Time) ([]types.CoffeeRecord, error) {
	const query = `
		SELECT ` + coffeeColumns + `
		FROM coffee_records
		WHERE user_id = $1 AND date >= $2
		ORDER BY date ASC, id ASC`
	return r.listRecords(ctx, query, userID, since)
}

func (r *CoffeeRepository) listRecords(ctx context.Context, query string, args ...any) ([]types.CoffeeRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]types.CoffeeRecord, 0)
	for rows.Next() {
		var record types.CoffeeRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Date,
			&record.Cups,
			&record.Timestamp,
			&record.CoffeeType,
			&record.Size,
			&record.Location,
			&record.Notes,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteOwned deletes a record only when it belongs to the given user.
// A missing record and a record owned by someone else are both reported
// as ErrNotFound, indistinguishable to the caller.
func (r *CoffeeRepository) DeleteOwned(ctx context.Context, id, userID int) error {
	const query = `DELETE FROM coffee_records WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SumForDate returns the user's total cups for one day bucket.
func (r *CoffeeRepository) SumForDate(ctx context.Context, userID int, date time.Time) (int, error) {
	const query = `
		SELECT COALESCE(SUM(cups), 0)
		FROM coffee_records
		WHERE user_id = $1 AND date = $2`
	var total int
	if err := r.db.QueryRowContext(ctx, query, userID, date).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Latest returns the user's most recently logged record by timestamp.
func (r *CoffeeRepository) Latest(ctx context.Context, userID int) (types.CoffeeRecord, error) {
	const query = `
		SELECT ` + coffeeColumns + `
		FROM coffee_records
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`
	var record types.CoffeeRecord
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&record.ID,
		&record.UserID,
		&record.Date,
		&record.Cups,
		&record.Timestamp,
		&record.CoffeeType,
		&record.Size,
		&record.Location,
		&record.Notes,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.CoffeeRecord{}, ErrNotFound
		}
		return types.CoffeeRecord{}, err
	}
	return record, nil
}

func (r *CoffeeRepository) GetSettings(ctx context.Context, userID int) (types.CoffeeSettings, error) {
	const query = `
		SELECT user_id, daily_limit, warning_threshold, min_interval_minutes, updated_at
		FROM coffee_settings
		WHERE user_id = $1`
	var settings types.CoffeeSettings
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.DailyLimit,
		&settings.WarningThreshold,
		&settings.MinIntervalMinutes,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.CoffeeSettings{}, ErrNotFound
		}
		return types.CoffeeSettings{}, err
	}
	return settings, nil
}

func (r *CoffeeRepository) UpsertSettings(ctx context.Context, settings types.CoffeeSettings) (types.CoffeeSettings, error) {
	settings.UpdatedAt = time.Now()

	const query = `
		INSERT INTO coffee_settings (user_id, daily_limit, warning_threshold, min_interval_minutes, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET daily_limit = EXCLUDED.daily_limit,
			warning_threshold = EXCLUDED.warning_threshold,
			min_interval_minutes = EXCLUDED.min_interval_minutes,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		settings.UserID,
		settings.DailyLimit,
		settings.WarningThreshold,
		settings.MinIntervalMinutes,
		settings.UpdatedAt,
	); err != nil {
		return types.CoffeeSettings{}, err
	}
	return settings, nil
}
