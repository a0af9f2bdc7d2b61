package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/models"
)

// psql is the shared squirrel statement builder configured for PostgreSQL
// dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const deviceColumns = "account_id, device_id, name, platform, is_active, requires_reapproval, last_seen, registered_at, removed_at"

// deviceRepository is the PostgreSQL-backed implementation of
// [DeviceRepository].
type deviceRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewDeviceRepository constructs a [DeviceRepository] on the shared database
// handle.
func NewDeviceRepository(db *DB, logger *logger.Logger) DeviceRepository {
	logger.Debug().Msg("creating device repository")
	return &deviceRepository{
		db:     db,
		logger: logger,
	}
}

// CreateDevice inserts a new trust row. A primary-key violation maps to
// [ErrDeviceAlreadyExists] so the service layer can distinguish "new row"
// from "touch existing".
func (r *deviceRepository) CreateDevice(ctx context.Context, device models.Device) (models.Device, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Insert("devices").
		Columns("account_id", "device_id", "name", "platform", "is_active", "requires_reapproval").
		Values(device.AccountID, device.DeviceID, device.Name, device.Platform, true, false).
		Suffix("RETURNING " + deviceColumns).
		ToSql()
	if err != nil {
		return models.Device{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	created, err := r.scanDevice(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Device{}, ErrDeviceAlreadyExists
		}
		log.Err(err).Str("func", "*deviceRepository.CreateDevice").Msg("error inserting device")
		return models.Device{}, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	return created, nil
}

// GetDevice returns the trust row for (accountID, deviceID), or
// [ErrDeviceNotFound].
func (r *deviceRepository) GetDevice(ctx context.Context, accountID int64, deviceID string) (models.Device, error) {
	query, args, err := psql.Select(deviceColumns).
		From("devices").
		Where(sq.Eq{"account_id": accountID, "device_id": deviceID}).
		ToSql()
	if err != nil {
		return models.Device{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	device, err := r.scanDevice(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Device{}, ErrDeviceNotFound
		}
		return models.Device{}, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}

	return device, nil
}

// ListDevices returns every trust row of the account, active or removed,
// most recently registered first.
func (r *deviceRepository) ListDevices(ctx context.Context, accountID int64) ([]models.Device, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(deviceColumns).
		From("devices").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("registered_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*deviceRepository.ListDevices").Msg("error querying devices")
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		device, err := r.scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScanningRow, err)
		}
		devices = append(devices, device)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}

	return devices, nil
}

// CountActiveDevices returns the number of active trust rows for the
// account. Used only on the register-creates-new-row path for quota checks.
func (r *deviceRepository) CountActiveDevices(ctx context.Context, accountID int64) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("devices").
		Where(sq.Eq{"account_id": accountID, "is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}

	return count, nil
}

// TouchDevice updates last_seen only. Heartbeats go through here so they can
// never touch trust state or trip the device quota.
func (r *deviceRepository) TouchDevice(ctx context.Context, accountID int64, deviceID string, seenAt time.Time) error {
	query, args, err := psql.Update("devices").
		Set("last_seen", seenAt).
		Where(sq.Eq{"account_id": accountID, "device_id": deviceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// UpdateTrust writes the trust columns of an existing row.
func (r *deviceRepository) UpdateTrust(ctx context.Context, device models.Device) error {
	log := logger.FromContext(ctx)

	builder := psql.Update("devices").
		Set("is_active", device.IsActive).
		Set("requires_reapproval", device.RequiresReapproval).
		Where(sq.Eq{"account_id": device.AccountID, "device_id": device.DeviceID})
	if device.RemovedAt != nil {
		builder = builder.Set("removed_at", *device.RemovedAt)
	} else {
		builder = builder.Set("removed_at", nil)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*deviceRepository.UpdateTrust").Msg("error updating device trust")
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *deviceRepository) scanDevice(row rowScanner) (models.Device, error) {
	var device models.Device
	var removedAt sql.NullTime
	err := row.Scan(
		&device.AccountID,
		&device.DeviceID,
		&device.Name,
		&device.Platform,
		&device.IsActive,
		&device.RequiresReapproval,
		&device.LastSeen,
		&device.RegisteredAt,
		&removedAt,
	)
	if err != nil {
		return models.Device{}, err
	}
	if removedAt.Valid {
		device.RemovedAt = &removedAt.Time
	}
	return device, nil
}
