package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/safenode/vaultsync/internal/adapter"
	"github.com/safenode/vaultsync/internal/crypto"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/models"
)

//go:generate mockgen -source=engine.go -destination=../mock/local_store_mock.go -package=mock

// LocalStore is what the engine needs from client-side persistence: caching
// the last server-confirmed blob and remembering that changes are waiting.
type LocalStore interface {
	// SaveBlob caches the encrypted blob last confirmed by the server, so
	// the vault survives restarts and is readable offline.
	SaveBlob(blob models.EncryptedVaultBlob) error

	// MarkPending records whether local changes still await a push.
	MarkPending(pending bool) error
}

// Outcome reports what one sync cycle did.
type Outcome struct {
	// Vault is the post-sync vault state the caller must adopt atomically.
	Vault models.Vault

	Pushed    bool
	Pulled    bool
	Conflicts int

	// Queued is true when the server was unreachable and changes wait
	// locally.
	Queued bool
}

const (
	// maxPushAttempts bounds the pull-merge-push loop under contention.
	maxPushAttempts = 3

	// maxTransientRetries and retryBaseDelay shape the exponential backoff
	// for transient failures of a single request.
	maxTransientRetries = 3
	retryBaseDelay      = 500 * time.Millisecond
)

// Engine runs the sync cycle. It is safe for concurrent use; cycles are
// single-flight, and the current phase is observable via State.
type Engine struct {
	logger  *logger.Logger
	server  adapter.ServerAdapter
	cipher  crypto.CipherService
	local   LocalStore
	resolve ResolveFunc
	policy  Policy

	retryBase time.Duration
	retryMax  uint64

	mu    gosync.Mutex
	state atomic.Int32
}

// NewEngine constructs a sync engine. resolve may be nil to use
// DefaultResolve.
func NewEngine(server adapter.ServerAdapter, cipher crypto.CipherService, local LocalStore, resolve ResolveFunc, policy Policy, logger *logger.Logger) *Engine {
	logger.Debug().Msg("creating sync engine")
	return &Engine{
		logger:    logger,
		server:    server,
		cipher:    cipher,
		local:     local,
		resolve:   resolve,
		policy:    policy,
		retryBase: retryBaseDelay,
		retryMax:  maxTransientRetries,
	}
}

// State returns the engine's current phase.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
}

// Sync runs one full cycle: pull, merge if needed, push if dirty. key is the
// unlocked vault key; local is the caller's current vault; dirty reports
// unpushed local edits. The returned Outcome.Vault replaces the caller's
// vault wholesale; never mutate the input and the output concurrently.
//
// Decryption failures are structural and surface unwrapped as
// crypto.ErrDecryptionFailed; they are never retried.
func (e *Engine) Sync(ctx context.Context, key []byte, local models.Vault, dirty bool) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// StateQueued survives the cycle so callers can see changes are waiting;
	// the next cycle overwrites it.
	defer func() {
		if e.State() != StateQueued {
			e.setState(StateIdle)
		}
	}()

	log := e.logger

	current := local.Clone()
	out := Outcome{Vault: current}

	// confirmed is the last version the server has acknowledged, either as
	// our local baseline or as a pulled blob. It is the only value safe to
	// use as the pull cursor: a speculative merged version would make the
	// server answer "up to date" right after a lost push race, hiding the
	// winner's blob from the re-merge.
	confirmed := local.Version

	for attempt := 1; attempt <= maxPushAttempts; attempt++ {
		e.setState(StatePulling)
		remote, err := e.pull(ctx, confirmed)
		if err != nil {
			return e.queue(out, err)
		}

		serverVault, serverBlob, haveServer, err := e.decodeRemote(remote, key)
		if err != nil {
			return out, err
		}
		if haveServer {
			confirmed = remote.Blob.Version
		}
		if haveServer && remote.Blob.Version > local.Version {
			out.Pulled = true
		}

		// Decide what the next vault state is.
		var next models.Vault
		switch {
		case !remote.Exists && !dirty && current.Version == 0 && len(current.Entries) == 0:
			// Fresh device, empty account: nothing to sync.
			out.Vault = current
			return out, nil
		case !remote.Exists:
			// No vault on the server yet: ours becomes version 1.
			next = current.Clone()
			next.Version = 1
		case !haveServer && !dirty:
			// Already current, nothing edited.
			out.Vault = current
			return out, nil
		case !haveServer:
			// Server confirmed we are current; push our edits as the next
			// version.
			next = current.Clone()
			next.Version = confirmed + 1
		case !dirty:
			// No local edits: adopt the server state wholesale.
			out.Vault = serverVault
			if err := e.local.SaveBlob(serverBlob); err != nil {
				return out, err
			}
			return out, nil
		default:
			e.setState(StateMerging)
			conflicts := DetectConflicts(current, serverVault, e.policy)
			merged, err := Merge(current, serverVault, conflicts, e.resolve)
			if err != nil {
				return out, err
			}
			out.Conflicts += len(conflicts)
			next = merged
		}

		pushed, err := e.push(ctx, key, next, remote.Exists)
		if err == nil {
			out.Vault = pushed
			out.Pushed = true
			if err := e.local.MarkPending(false); err != nil {
				return out, err
			}
			return out, nil
		}
		if errors.Is(err, adapter.ErrVersionConflict) || errors.Is(err, adapter.ErrVaultAlreadyExists) {
			// Another device advanced the vault between our pull and push.
			// Keep pulling from the confirmed baseline so the winner's blob
			// comes back in full and gets merged into the retry.
			log.Info().
				Str("func", "*Engine.Sync").
				Int("attempt", attempt).
				Msg("push lost version race, re-pulling")
			current = next
			dirty = true
			continue
		}
		return e.queue(out, err)
	}

	return out, ErrContention
}

// pull fetches the server blob with transient retries. since skips the
// payload when the local version is already current.
func (e *Engine) pull(ctx context.Context, since int64) (adapter.RemoteVault, error) {
	var remote adapter.RemoteVault
	err := e.withRetry(ctx, func(ctx context.Context) error {
		var err error
		remote, err = e.server.LatestVault(ctx, since)
		return err
	})
	return remote, err
}

// decodeRemote decrypts and decodes the pulled blob, when there is one.
func (e *Engine) decodeRemote(remote adapter.RemoteVault, key []byte) (models.Vault, models.EncryptedVaultBlob, bool, error) {
	if !remote.Exists || remote.UpToDate || !remote.Blob.HasVault() {
		return models.Vault{}, models.EncryptedVaultBlob{}, false, nil
	}

	e.setState(StateDecrypting)
	plaintext, err := e.cipher.Decrypt(remote.Blob.Ciphertext, remote.Blob.IV, key)
	if err != nil {
		return models.Vault{}, models.EncryptedVaultBlob{}, false, err
	}
	vault, err := e.cipher.DecodeVault(plaintext)
	if err != nil {
		return models.Vault{}, models.EncryptedVaultBlob{}, false, err
	}

	// The server's version column is authoritative over the encoded one.
	vault.Version = remote.Blob.Version
	return vault, remote.Blob, true, nil
}

// push encrypts next and sends it, choosing init or save based on whether
// the server already has a vault. Returns the vault stamped with the
// server-confirmed version.
func (e *Engine) push(ctx context.Context, key []byte, next models.Vault, serverHasVault bool) (models.Vault, error) {
	e.setState(StateEncrypting)
	plaintext, err := e.cipher.EncodeVault(next)
	if err != nil {
		return models.Vault{}, err
	}
	ciphertext, iv, err := e.cipher.Encrypt(plaintext, key)
	if err != nil {
		return models.Vault{}, err
	}

	e.setState(StatePushing)
	var confirmed int64
	err = e.withRetry(ctx, func(ctx context.Context) error {
		var err error
		if serverHasVault {
			confirmed, err = e.server.SaveVault(ctx, ciphertext, iv, next.Version)
		} else {
			confirmed, err = e.server.InitVault(ctx, ciphertext, iv)
		}
		return err
	})
	if err != nil {
		return models.Vault{}, err
	}

	next.Version = confirmed
	if err := e.local.SaveBlob(models.EncryptedVaultBlob{
		Ciphertext: ciphertext,
		IV:         iv,
		Version:    confirmed,
	}); err != nil {
		return next, err
	}

	return next, nil
}

// queue handles an unreachable server: remember that changes are pending and
// report the cycle as queued.
func (e *Engine) queue(out Outcome, err error) (Outcome, error) {
	if !errors.Is(err, adapter.ErrTransient) {
		return out, err
	}

	e.setState(StateQueued)
	out.Queued = true
	if markErr := e.local.MarkPending(true); markErr != nil {
		return out, errors.Join(err, markErr)
	}

	e.logger.Info().Str("func", "*Engine.Sync").Msg("server unreachable, sync queued")
	return out, fmt.Errorf("%w: %v", ErrOffline, err)
}

// withRetry retries fn with bounded exponential backoff, but only for
// transient failures. Structural errors pass through on the first attempt.
func (e *Engine) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(e.retryMax, retry.NewExponential(e.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, adapter.ErrTransient) {
			return retry.RetryableError(err)
		}
		return err
	})
}
