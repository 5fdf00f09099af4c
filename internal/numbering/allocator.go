package numbering

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultAllocateTimeout bounds the single counter round trip.
const DefaultAllocateTimeout = 5 * time.Second

// Allocator hands out the next document number exactly once per call.
// A caller that aborts after allocating leaves a gap in the sequence;
// gaps are permitted, duplicates are not, and no compensation is taken.
type Allocator struct {
	store   Store
	timeout time.Duration
	logger  *slog.Logger
}

// NewAllocator constructs an allocator. A non-positive timeout falls back to
// DefaultAllocateTimeout.
func NewAllocator(store Store, timeout time.Duration, logger *slog.Logger) *Allocator {
	if timeout <= 0 {
		timeout = DefaultAllocateTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator{store: store, timeout: timeout, logger: logger}
}

// AllocateNext atomically consumes the next counter value for the type and
// returns it formatted. It never retries internally; a wrapped ErrTransient
// tells the caller the attempt is safe to repeat.
func (a *Allocator) AllocateNext(ctx context.Context, tenant string, docType DocumentType) (AllocatedNumber, error) {
	if _, err := ParseDocumentType(string(docType)); err != nil {
		return AllocatedNumber{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, cfg, err := a.store.IncrementAndGet(ctx, tenant, docType)
	if err != nil {
		return AllocatedNumber{}, fmt.Errorf("numbering: allocate %s: %w", docType, err)
	}

	formatted, err := Format(cfg, raw)
	if err != nil {
		return AllocatedNumber{}, fmt.Errorf("numbering: allocate %s: %w", docType, err)
	}

	a.logger.Info("document number allocated",
		slog.String("tenant", tenant),
		slog.String("document_type", string(docType)),
		slog.Int64("raw_value", raw),
		slog.String("number", formatted),
	)

	return AllocatedNumber{
		DocumentType: docType,
		RawValue:     raw,
		Formatted:    formatted,
	}, nil
}
