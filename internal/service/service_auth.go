package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/models"
)

// authService implements [AuthService] on the user repository. Login is
// zero-knowledge: the stored credential is the client-derived auth hash,
// which cannot be inverted to the encryption key.
type authService struct {
	logger   *logger.Logger
	users    store.UserRepository
	sessions SessionService
}

// NewAuthService constructs an [AuthService].
func NewAuthService(users store.UserRepository, sessions SessionService, logger *logger.Logger) AuthService {
	logger.Debug().Msg("creating auth service")
	return &authService{
		logger:   logger,
		users:    users,
		sessions: sessions,
	}
}

// RegisterUser implements [AuthService]. A successful registration opens a
// session immediately so the client does not need a follow-up login.
func (s *authService) RegisterUser(ctx context.Context, login, authHash string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if login == "" || authHash == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	user, err := s.users.CreateUser(ctx, models.User{Login: login, AuthHash: authHash})
	if err != nil {
		log.Err(err).Str("func", "*authService.RegisterUser").Msg("error creating user")
		return models.Token{}, err
	}

	return s.sessions.Create(ctx, user.UserID)
}

// LoginUser implements [AuthService]. The hash comparison is constant-time;
// an unknown login and a wrong hash both surface as ErrWrongPassword so the
// response does not reveal which logins exist.
func (s *authService) LoginUser(ctx context.Context, login, authHash string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if login == "" || authHash == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	user, err := s.users.FindUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Token{}, ErrWrongPassword
		}
		log.Err(err).Str("func", "*authService.LoginUser").Msg("error finding user")
		return models.Token{}, err
	}

	if subtle.ConstantTimeCompare([]byte(user.AuthHash), []byte(authHash)) != 1 {
		return models.Token{}, ErrWrongPassword
	}

	return s.sessions.Create(ctx, user.UserID)
}
