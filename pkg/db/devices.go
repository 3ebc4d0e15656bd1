package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/urmzd/myhub/pkg/device"
)

// DeviceStore is a device.Store over the devices table. It also reports
// first-run bootstrap state for the registry.
type DeviceStore struct {
	db *DB
}

// Devices returns a device.Store for this database.
func (db *DB) Devices() *DeviceStore {
	return &DeviceStore{db: db}
}

const deviceColumns = `id, name, transport, kind, status, ip, node_id, manufacturer, product, added_at, updated_at`

func (s *DeviceStore) Backend() string {
	return "sqlite"
}

func (s *DeviceStore) Load(ctx context.Context) ([]device.Device, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrStore, err)
	}
	defer func() { _ = rows.Close() }()

	devices := []device.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", device.ErrStore, err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrStore, err)
	}
	return devices, nil
}

func (s *DeviceStore) Get(ctx context.Context, id string) (*device.Device, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = ?`, id)
	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, device.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrStore, err)
	}
	return d, nil
}

// Put upserts by id; an update keeps the row's original position.
func (s *DeviceStore) Put(ctx context.Context, d device.Device) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (`+deviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			transport = excluded.transport,
			kind = excluded.kind,
			status = excluded.status,
			ip = excluded.ip,
			node_id = excluded.node_id,
			manufacturer = excluded.manufacturer,
			product = excluded.product,
			added_at = excluded.added_at,
			updated_at = excluded.updated_at
	`,
		d.ID, d.Name, string(d.Transport), string(d.Kind), string(d.Status),
		nullString(d.IP), nullInt(d.NodeID), d.Manufacturer, d.Product,
		formatTime(d.AddedAt), formatTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save device %s: %v", device.ErrStore, d.ID, err)
	}
	return nil
}

func (s *DeviceStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", device.ErrStore, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", device.ErrStore, err)
	}
	if rows == 0 {
		return device.ErrNotFound
	}
	return nil
}

// Close is a no-op; the owner of the *DB closes the connection.
func (s *DeviceStore) Close() error {
	return nil
}

func (s *DeviceStore) NeedsBootstrap(ctx context.Context) (bool, error) {
	return s.db.NeedsBootstrap(ctx)
}

func (s *DeviceStore) MarkBootstrapped(ctx context.Context) error {
	return s.db.MarkBootstrapped(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*device.Device, error) {
	d := &device.Device{}
	var transport, kind, status, addedAt, updatedAt string
	var ip sql.NullString
	var nodeID sql.NullInt64
	err := row.Scan(&d.ID, &d.Name, &transport, &kind, &status, &ip, &nodeID,
		&d.Manufacturer, &d.Product, &addedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	d.Transport = device.Transport(transport)
	d.Kind = device.Kind(kind)
	d.Status = device.Status(status)
	d.IP = ip.String
	d.NodeID = int(nodeID.Int64)
	d.AddedAt, _ = time.Parse(time.RFC3339Nano, addedAt)
	d.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
