package service

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ErrStoreUnavailable wraps any unexpected failure of an underlying store.
// Nothing in this package retries; callers should present it as retryable.
var ErrStoreUnavailable = errors.New("store unavailable")

func storeFailure(op string, err error) error {
	log.WithError(err).Errorf("%s failed", op)
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
