package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendRejected means the ledger returned a non-ok status for a
	// legal-looking request. The local view may be stale, callers should
	// reload the deal to pick up backend truth.
	ErrBackendRejected = errors.New("backend rejected request")

	// ErrNetwork means the ledger was unreachable, nothing changed
	ErrNetwork = errors.New("backend unreachable")
)

// BackendError preserves the rejected response
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend rejected request: status %d: %s", e.StatusCode, e.Body)
}

func (e *BackendError) Unwrap() error {
	return ErrBackendRejected
}

// wrapErr folds transport-level failures into ErrNetwork, backend
// rejections pass through
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBackendRejected) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
