package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/store/storetest"
	"github.com/safenode/vaultsync/internal/store"
)

func newAuthForTest(t *testing.T) AuthService {
	t.Helper()
	sessions := NewSessionService(storetest.NewSessionRepo(), testApp(), logger.Nop())
	return NewAuthService(storetest.NewUserRepo(), sessions, logger.Nop())
}

func TestAuthService_RegisterIssuesSession(t *testing.T) {
	svc := newAuthForTest(t)

	token, err := svc.RegisterUser(context.Background(), "alice", "hash-a")
	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)
	assert.NotEmpty(t, token.SessionID)
}

func TestAuthService_RegisterDuplicateLogin(t *testing.T) {
	svc := newAuthForTest(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "hash-a")
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, "alice", "hash-b")
	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthForTest(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "hash-a")
	require.NoError(t, err)

	tests := []struct {
		name     string
		login    string
		authHash string
		wantErr  error
	}{
		{name: "correct credentials", login: "alice", authHash: "hash-a"},
		{name: "wrong hash", login: "alice", authHash: "hash-b", wantErr: ErrWrongPassword},
		{name: "unknown login looks identical to wrong hash", login: "bob", authHash: "hash-a", wantErr: ErrWrongPassword},
		{name: "empty hash", login: "alice", authHash: "", wantErr: ErrInvalidDataProvided},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.LoginUser(ctx, tt.login, tt.authHash)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token.SignedString)
		})
	}
}
