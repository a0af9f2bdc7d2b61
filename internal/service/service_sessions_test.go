package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/store/storetest"
	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

func testApp() config.App {
	return config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "vaultsync",
		TokenDuration: time.Hour,
	}
}

func TestSessionService_CreateIssuesTokenBoundToSession(t *testing.T) {
	repo := storetest.NewSessionRepo()
	svc := NewSessionService(repo, testApp(), logger.Nop())

	token, err := svc.Create(context.Background(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)
	assert.Equal(t, int64(42), token.AccountID)

	session, err := repo.GetSession(context.Background(), token.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, session.Status)
	assert.False(t, session.IsBound())
}

func TestSessionService_NewLoginReplacesPreviousSession(t *testing.T) {
	repo := storetest.NewSessionRepo()
	svc := NewSessionService(repo, testApp(), logger.Nop())
	ctx := context.Background()

	first, err := svc.Create(ctx, 1)
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1)
	require.NoError(t, err)

	// The first token still parses but its session is no longer active.
	_, err = svc.Validate(ctx, first.SignedString)
	assert.ErrorIs(t, err, ErrSessionInvalidated)

	session, err := svc.Validate(ctx, second.SignedString)
	require.NoError(t, err)
	assert.Equal(t, second.SessionID, session.ID)

	replaced, err := repo.GetSession(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionReplaced, replaced.Status)
	assert.Equal(t, second.SessionID, replaced.ReplacedBySessionID)
}

func TestSessionService_ValidateRejectsExpiredToken(t *testing.T) {
	repo := storetest.NewSessionRepo()
	app := testApp()
	svc := NewSessionService(repo, app, logger.Nop())
	ctx := context.Background()

	session := models.DeviceSession{ID: utils.NewUUID(), AccountID: 7}
	_, err := repo.CreateSession(ctx, session)
	require.NoError(t, err)

	expired, err := utils.GenerateJWTToken(app.TokenIssuer, 7, session.ID, -time.Minute, app.TokenSignKey)
	require.NoError(t, err)

	_, err = svc.Validate(ctx, expired.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestSessionService_ValidateRejectsForeignSignature(t *testing.T) {
	svc := NewSessionService(storetest.NewSessionRepo(), testApp(), logger.Nop())

	forged, err := utils.GenerateJWTToken("vaultsync", 7, "some-session", time.Hour, "different-key")
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), forged.SignedString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionService_BindIsPermanent(t *testing.T) {
	repo := storetest.NewSessionRepo()
	svc := NewSessionService(repo, testApp(), logger.Nop())
	ctx := context.Background()

	token, err := svc.Create(ctx, 1)
	require.NoError(t, err)
	session, err := repo.GetSession(ctx, token.SessionID)
	require.NoError(t, err)

	require.NoError(t, svc.Bind(ctx, session, "laptop"))

	bound, err := repo.GetSession(ctx, token.SessionID)
	require.NoError(t, err)

	// Same device is a no-op, a different device is a mismatch.
	assert.NoError(t, svc.Bind(ctx, bound, "laptop"))
	assert.ErrorIs(t, svc.Bind(ctx, bound, "phone"), ErrSessionDeviceMismatch)

	after, err := repo.GetSession(ctx, token.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "laptop", after.DeviceID)
}

func TestSessionService_BindLosesRaceToConcurrentBind(t *testing.T) {
	repo := storetest.NewSessionRepo()
	svc := NewSessionService(repo, testApp(), logger.Nop())
	ctx := context.Background()

	token, err := svc.Create(ctx, 1)
	require.NoError(t, err)

	// Stale snapshot taken before another request bound the session.
	stale, err := repo.GetSession(ctx, token.SessionID)
	require.NoError(t, err)
	require.NoError(t, repo.BindDevice(ctx, token.SessionID, 1, "phone"))

	assert.ErrorIs(t, svc.Bind(ctx, stale, "laptop"), ErrSessionDeviceMismatch)
}
