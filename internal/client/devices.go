package client

import (
	"context"

	"github.com/safenode/vaultsync/models"
)

// Devices lists the account's device trust set.
func (a *App) Devices(ctx context.Context) ([]models.Device, error) {
	return a.server.ListDevices(ctx)
}

// ApproveDevice re-admits a removed device from this (trusted) one.
func (a *App) ApproveDevice(ctx context.Context, deviceID string) (models.Device, error) {
	return a.server.ApproveDevice(ctx, deviceID)
}

// RemoveDevice revokes a device's trust and all its sessions. Removing the
// current device is refused by the server; use Forget for that.
func (a *App) RemoveDevice(ctx context.Context, deviceID string) (int, error) {
	return a.server.RemoveDevice(ctx, deviceID)
}
