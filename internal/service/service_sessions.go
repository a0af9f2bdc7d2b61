package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/internal/utils"
	"github.com/safenode/vaultsync/models"
)

// sessionService implements [SessionService] on the session repository.
type sessionService struct {
	logger   *logger.Logger
	sessions store.SessionRepository
	app      config.App
}

// NewSessionService constructs a [SessionService].
func NewSessionService(sessions store.SessionRepository, app config.App, logger *logger.Logger) SessionService {
	logger.Debug().Msg("creating session service")
	return &sessionService{
		logger:   logger,
		sessions: sessions,
		app:      app,
	}
}

// Create implements [SessionService]. The session starts unbound; the first
// authenticated request carrying a device identifier binds it.
func (s *sessionService) Create(ctx context.Context, accountID int64) (models.Token, error) {
	log := logger.FromContext(ctx)

	session := models.DeviceSession{
		ID:        utils.NewUUID(),
		AccountID: accountID,
	}

	replaced, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		log.Err(err).Str("func", "*sessionService.Create").Msg("error creating session")
		return models.Token{}, err
	}
	if replaced > 0 {
		log.Info().
			Str("func", "*sessionService.Create").
			Int64("account_id", accountID).
			Int("replaced", replaced).
			Msg("previous sessions replaced by new login")
	}

	token, err := utils.GenerateJWTToken(s.app.TokenIssuer, accountID, session.ID, s.app.TokenDuration, s.app.TokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("error issuing token for session: %w", err)
	}

	return token, nil
}

// Validate implements [SessionService]. A token is only as alive as its
// session: a syntactically valid, unexpired token whose session was revoked
// or replaced is rejected with ErrSessionInvalidated.
func (s *sessionService) Validate(ctx context.Context, tokenString string) (models.DeviceSession, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.app.TokenSignKey, s.app.TokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.DeviceSession{}, ErrTokenIsExpired
		}
		return models.DeviceSession{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	session, err := s.sessions.GetSession(ctx, token.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.DeviceSession{}, ErrSessionInvalidated
		}
		return models.DeviceSession{}, err
	}

	if session.AccountID != token.AccountID || session.Status != models.SessionActive {
		return models.DeviceSession{}, ErrSessionInvalidated
	}

	_ = s.sessions.TouchSession(ctx, session.ID, time.Now())

	return session, nil
}

// Bind implements [SessionService]. Bindings are permanent: once a session
// has seen one device identifier, any other identifier is a mismatch.
func (s *sessionService) Bind(ctx context.Context, session models.DeviceSession, deviceID string) error {
	if session.IsBound() {
		if session.DeviceID == deviceID {
			return nil
		}
		return ErrSessionDeviceMismatch
	}

	err := s.sessions.BindDevice(ctx, session.ID, session.AccountID, deviceID)
	if err != nil {
		// Lost a race against a concurrent bind to a different device.
		if errors.Is(err, store.ErrSessionNotFound) {
			return ErrSessionDeviceMismatch
		}
		return err
	}

	logger.FromContext(ctx).Info().
		Str("func", "*sessionService.Bind").
		Str("session_id", session.ID).
		Str("device_id", deviceID).
		Msg("session bound to device")

	return nil
}

// RevokeByDevice implements [SessionService].
func (s *sessionService) RevokeByDevice(ctx context.Context, accountID int64, deviceID, reason string) (int, error) {
	return s.sessions.RevokeByDevice(ctx, accountID, deviceID, reason)
}
