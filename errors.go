package timsgo

import (
	"errors"
	"fmt"

	"github.com/mzkit/timsgo/blobstore"
	"github.com/mzkit/timsgo/metadata"
	"github.com/mzkit/timsgo/storage"
)

var (
	// ErrNotFound is returned when a requested frame id is absent from the
	// experiment metadata or storage. The typed cause (naming the id) can be
	// accessed via errors.As with *storage.ErrFrameNotFound or
	// *metadata.ErrFrameNotFound.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt is returned when storage holds a frame block that fails
	// validation. The typed cause is *storage.ErrCorruptFrame.
	ErrCorrupt = errors.New("corrupt frame")
)

// translateError unifies collaborator errors under the package sentinels
// while keeping the typed causes reachable through errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var snf *storage.ErrFrameNotFound
	if errors.As(err, &snf) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var mnf *metadata.ErrFrameNotFound
	if errors.As(err, &mnf) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var corrupt *storage.ErrCorruptFrame
	if errors.As(err, &corrupt) {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return err
}
