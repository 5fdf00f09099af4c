package numbering

import "context"

// Store is the durable counter state for format configs. Implementations
// must upsert the default config on first access to any (tenant, type)
// pair; no method ever fails with not-found.
type Store interface {
	// Get returns the current config, creating the default on first read.
	Get(ctx context.Context, tenant string, docType DocumentType) (FormatConfig, error)

	// IncrementAndGet atomically returns the current counter value and
	// advances it by one in the same step, together with the format fields
	// in effect at that moment. Two concurrent callers never receive the
	// same value.
	IncrementAndGet(ctx context.Context, tenant string, docType DocumentType) (int64, FormatConfig, error)

	// UpdateFormat applies a partial format update. It never touches the
	// counter.
	UpdateFormat(ctx context.Context, tenant string, docType DocumentType, upd FormatUpdate) (FormatConfig, error)

	// ResetCounter unconditionally sets the counter to start. Moving it
	// backward is an explicit operator action, not a bug.
	ResetCounter(ctx context.Context, tenant string, docType DocumentType, start int64) (FormatConfig, error)
}
