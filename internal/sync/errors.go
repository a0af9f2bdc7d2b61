package sync

import "errors"

var (
	// ErrOffline means the server was unreachable after retries. Local
	// changes stay queued and the next sync attempt picks them up.
	ErrOffline = errors.New("server unreachable, changes queued")

	// ErrContention means the push lost the version race repeatedly: some
	// other device kept advancing the vault between our pull and push.
	ErrContention = errors.New("gave up after repeated version conflicts")
)
