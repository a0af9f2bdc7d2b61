package service

import (
	"context"
	"errors"
	"time"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/models"
)

// deviceTrustService implements [DeviceTrustService].
//
// Trust state machine per (account, device):
//
//	unknown --Register--> active --Remove--> removed (requires_reapproval)
//	removed --Register--> refused with ErrDeviceReapprovalRequired
//	removed --Approve (from another active device)--> active
type deviceTrustService struct {
	logger      *logger.Logger
	devices     store.DeviceRepository
	sessions    SessionService
	deviceLimit int
}

// NewDeviceTrustService constructs a [DeviceTrustService]. A deviceLimit of
// zero disables the quota.
func NewDeviceTrustService(devices store.DeviceRepository, sessions SessionService, deviceLimit int, logger *logger.Logger) DeviceTrustService {
	logger.Debug().Msg("creating device trust service")
	return &deviceTrustService{
		logger:      logger,
		devices:     devices,
		sessions:    sessions,
		deviceLimit: deviceLimit,
	}
}

// Register implements [DeviceTrustService]. The quota is consulted only on
// the create-new-row path, so heartbeats of already-active devices can never
// trip it.
func (s *deviceTrustService) Register(ctx context.Context, accountID int64, deviceID, name, platform string) (models.Device, error) {
	log := logger.FromContext(ctx)

	if deviceID == "" {
		return models.Device{}, ErrInvalidDataProvided
	}

	existing, err := s.devices.GetDevice(ctx, accountID, deviceID)
	switch {
	case err == nil:
		if existing.RequiresReapproval || !existing.IsActive {
			return models.Device{}, ErrDeviceReapprovalRequired
		}
		// Idempotent re-registration of an active device.
		if touchErr := s.devices.TouchDevice(ctx, accountID, deviceID, time.Now()); touchErr != nil {
			log.Err(touchErr).Str("func", "*deviceTrustService.Register").Msg("error touching device")
		}
		return existing, nil
	case errors.Is(err, store.ErrDeviceNotFound):
		// New device, fall through to creation.
	default:
		return models.Device{}, err
	}

	if s.deviceLimit > 0 {
		active, err := s.devices.CountActiveDevices(ctx, accountID)
		if err != nil {
			return models.Device{}, err
		}
		if active >= s.deviceLimit {
			return models.Device{}, ErrDeviceLimitReached
		}
	}

	created, err := s.devices.CreateDevice(ctx, models.Device{
		AccountID: accountID,
		DeviceID:  deviceID,
		Name:      name,
		Platform:  platform,
	})
	if err != nil {
		// Lost a race against a concurrent registration of the same device.
		if errors.Is(err, store.ErrDeviceAlreadyExists) {
			return s.devices.GetDevice(ctx, accountID, deviceID)
		}
		log.Err(err).Str("func", "*deviceTrustService.Register").Msg("error creating device")
		return models.Device{}, err
	}

	log.Info().
		Str("func", "*deviceTrustService.Register").
		Int64("account_id", accountID).
		Str("device_id", deviceID).
		Msg("device registered")

	return created, nil
}

// Approve implements [DeviceTrustService]. Only an active device may vouch
// for a removed one.
func (s *deviceTrustService) Approve(ctx context.Context, accountID int64, approverDeviceID, targetDeviceID string) (models.Device, error) {
	log := logger.FromContext(ctx)

	approver, err := s.devices.GetDevice(ctx, accountID, approverDeviceID)
	if err != nil {
		return models.Device{}, err
	}
	if !approver.IsActive || approver.RequiresReapproval {
		return models.Device{}, ErrApproverNotTrusted
	}

	target, err := s.devices.GetDevice(ctx, accountID, targetDeviceID)
	if err != nil {
		return models.Device{}, err
	}
	if target.IsActive && !target.RequiresReapproval {
		return target, nil
	}

	target.IsActive = true
	target.RequiresReapproval = false
	target.RemovedAt = nil
	if err = s.devices.UpdateTrust(ctx, target); err != nil {
		log.Err(err).Str("func", "*deviceTrustService.Approve").Msg("error updating device trust")
		return models.Device{}, err
	}

	log.Info().
		Str("func", "*deviceTrustService.Approve").
		Int64("account_id", accountID).
		Str("device_id", targetDeviceID).
		Str("approved_by", approverDeviceID).
		Msg("device reapproved")

	return target, nil
}

// Remove implements [DeviceTrustService]. Removal is a soft delete plus a
// session cascade: the trust row stays for audit and future reapproval, but
// every session bound to the device dies immediately.
func (s *deviceTrustService) Remove(ctx context.Context, accountID int64, callerDeviceID, targetDeviceID string) (int, error) {
	log := logger.FromContext(ctx)

	if targetDeviceID == callerDeviceID {
		return 0, ErrSelfRemoval
	}

	target, err := s.devices.GetDevice(ctx, accountID, targetDeviceID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	target.IsActive = false
	target.RequiresReapproval = true
	target.RemovedAt = &now
	if err = s.devices.UpdateTrust(ctx, target); err != nil {
		log.Err(err).Str("func", "*deviceTrustService.Remove").Msg("error updating device trust")
		return 0, err
	}

	revoked, err := s.sessions.RevokeByDevice(ctx, accountID, targetDeviceID, models.RevokeReasonDeviceRemoved)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("func", "*deviceTrustService.Remove").
		Int64("account_id", accountID).
		Str("device_id", targetDeviceID).
		Int("revoked_sessions", revoked).
		Msg("device removed")

	return revoked, nil
}

// List implements [DeviceTrustService].
func (s *deviceTrustService) List(ctx context.Context, accountID int64) ([]models.Device, error) {
	return s.devices.ListDevices(ctx, accountID)
}

// Verify implements [DeviceTrustService]. Called on every device-scoped
// request, so it also doubles as the last-seen heartbeat.
func (s *deviceTrustService) Verify(ctx context.Context, accountID int64, deviceID string) error {
	device, err := s.devices.GetDevice(ctx, accountID, deviceID)
	if err != nil {
		if errors.Is(err, store.ErrDeviceNotFound) {
			return ErrDeviceNotRegistered
		}
		return err
	}
	if device.RequiresReapproval || !device.IsActive {
		return ErrDeviceReapprovalRequired
	}

	_ = s.devices.TouchDevice(ctx, accountID, deviceID, time.Now())

	return nil
}
