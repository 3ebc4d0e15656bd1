package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/urmzd/myhub/pkg/telemetry"
)

// TelemetryStore is a telemetry.Store over the scan_events and
// onboarding_events tables.
type TelemetryStore struct {
	db *DB
}

// Telemetry returns a telemetry.Store for this database.
func (db *DB) Telemetry() *TelemetryStore {
	return &TelemetryStore{db: db}
}

func (s *TelemetryStore) AppendScan(ctx context.Context, e telemetry.ScanEvent, limit int) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scan_events (id, ts, wifi_found, zwave_found, total_found, filtered_out, duration_ms, mock)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, formatTime(e.Timestamp), e.WiFiFound, e.ZWaveFound, e.TotalFound, e.FilteredOut, e.DurationMS, e.Mock)
		if err != nil {
			return fmt.Errorf("failed to insert scan event: %w", err)
		}
		return trim(ctx, tx, "scan_events", limit)
	})
}

func (s *TelemetryStore) AppendOnboarding(ctx context.Context, e telemetry.OnboardingEvent, limit int) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO onboarding_events (id, ts, device_id, device_name, type, status)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.ID, formatTime(e.Timestamp), e.DeviceID, e.DeviceName, e.Type, string(e.Status))
		if err != nil {
			return fmt.Errorf("failed to insert onboarding event: %w", err)
		}
		return trim(ctx, tx, "onboarding_events", limit)
	})
}

func (s *TelemetryStore) Scans(ctx context.Context, limit int) ([]telemetry.ScanEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, wifi_found, zwave_found, total_found, filtered_out, duration_ms, mock
		FROM scan_events ORDER BY seq DESC LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	events := []telemetry.ScanEvent{}
	for rows.Next() {
		var e telemetry.ScanEvent
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.WiFiFound, &e.ZWaveFound, &e.TotalFound, &e.FilteredOut, &e.DurationMS, &e.Mock); err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *TelemetryStore) Onboardings(ctx context.Context, limit int) ([]telemetry.OnboardingEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, device_id, device_name, type, status
		FROM onboarding_events ORDER BY seq DESC LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	events := []telemetry.OnboardingEvent{}
	for rows.Next() {
		var e telemetry.OnboardingEvent
		var ts, status string
		if err := rows.Scan(&e.ID, &ts, &e.DeviceID, &e.DeviceName, &e.Type, &status); err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		e.Status = telemetry.OnboardingStatus(status)
		events = append(events, e)
	}
	return events, rows.Err()
}

// trim keeps only the newest limit rows of table.
func trim(ctx context.Context, tx *sql.Tx, table string, limit int) error {
	if limit <= 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		DELETE FROM `+table+` WHERE seq NOT IN (
			SELECT seq FROM `+table+` ORDER BY seq DESC LIMIT ?
		)
	`, limit)
	if err != nil {
		return fmt.Errorf("failed to trim %s: %w", table, err)
	}
	return nil
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
