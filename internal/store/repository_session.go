package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/models"
)

const sessionColumns = "id, account_id, device_id, status, created_at, last_seen_at, revoked_at, revoked_reason, replaced_by_session_id"

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository].
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] on the shared
// database handle.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSession implements [SessionRepository]. The replace-others UPDATE and
// the INSERT run in one transaction, so there is no window in which two
// sessions of the same account are both active.
func (r *sessionRepository) CreateSession(ctx context.Context, session models.DeviceSession) (int, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	replaceQuery, replaceArgs, err := psql.Update("sessions").
		Set("status", string(models.SessionReplaced)).
		Set("revoked_at", time.Now()).
		Set("revoked_reason", models.RevokeReasonNewLogin).
		Set("replaced_by_session_id", session.ID).
		Where(sq.Eq{"account_id": session.AccountID, "status": string(models.SessionActive)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, replaceQuery, replaceArgs...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error replacing previous sessions")
		return 0, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	replaced64, _ := res.RowsAffected()

	insertQuery, insertArgs, err := psql.Insert("sessions").
		Columns("id", "account_id", "device_id", "status").
		Values(session.ID, session.AccountID, nullableString(session.DeviceID), string(models.SessionActive)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error inserting session")
		return 0, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCommittingTransaction, err)
	}

	return int(replaced64), nil
}

// GetSession returns the session with the given ID, or [ErrSessionNotFound].
func (r *sessionRepository) GetSession(ctx context.Context, sessionID string) (models.DeviceSession, error) {
	query, args, err := psql.Select(sessionColumns).
		From("sessions").
		Where(sq.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return models.DeviceSession{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	session, err := r.scanSession(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeviceSession{}, ErrSessionNotFound
		}
		return models.DeviceSession{}, fmt.Errorf("%w: %v", ErrScanningRow, err)
	}

	return session, nil
}

// BindDevice implements [SessionRepository]. The WHERE clause encodes the
// binding rule (only an active session of the right account that is unbound
// or already bound to this exact device matches), so a rebind to a different
// device affects zero rows and surfaces as [ErrSessionNotFound] to the
// service layer, which translates it to a mismatch error.
func (r *sessionRepository) BindDevice(ctx context.Context, sessionID string, accountID int64, deviceID string) error {
	query, args, err := psql.Update("sessions").
		Set("device_id", deviceID).
		Set("last_seen_at", time.Now()).
		Where(sq.Eq{"id": sessionID, "account_id": accountID, "status": string(models.SessionActive)}).
		Where(sq.Or{sq.Eq{"device_id": nil}, sq.Eq{"device_id": deviceID}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// RevokeByDevice implements [SessionRepository].
func (r *sessionRepository) RevokeByDevice(ctx context.Context, accountID int64, deviceID, reason string) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Update("sessions").
		Set("status", string(models.SessionRevoked)).
		Set("revoked_at", time.Now()).
		Set("revoked_reason", reason).
		Where(sq.Eq{
			"account_id": accountID,
			"device_id":  deviceID,
			"status":     string(models.SessionActive),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.RevokeByDevice").Msg("error revoking sessions")
		return 0, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	revoked, _ := res.RowsAffected()
	return int(revoked), nil
}

// TouchSession updates last_seen_at.
func (r *sessionRepository) TouchSession(ctx context.Context, sessionID string, seenAt time.Time) error {
	query, args, err := psql.Update("sessions").
		Set("last_seen_at", seenAt).
		Where(sq.Eq{"id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	return nil
}

func (r *sessionRepository) scanSession(row rowScanner) (models.DeviceSession, error) {
	var session models.DeviceSession
	var deviceID, revokedReason, replacedBy sql.NullString
	var revokedAt sql.NullTime
	err := row.Scan(
		&session.ID,
		&session.AccountID,
		&deviceID,
		&session.Status,
		&session.CreatedAt,
		&session.LastSeenAt,
		&revokedAt,
		&revokedReason,
		&replacedBy,
	)
	if err != nil {
		return models.DeviceSession{}, err
	}
	session.DeviceID = deviceID.String
	session.RevokedReason = revokedReason.String
	session.ReplacedBySessionID = replacedBy.String
	if revokedAt.Valid {
		session.RevokedAt = &revokedAt.Time
	}
	return session, nil
}

// nullableString maps "" to SQL NULL for optional text columns.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
