package models

import "context"

// MarketProvider is implemented once per external prediction market. Adding a
// provider means conforming to this shape and registering it by name.
type MarketProvider interface {
	Name() string
	Status(ctx context.Context, slug string) (MarketStatus, error)
}

// Signer produces a detached signature over record content. Signing is
// best-effort: when no key is configured, Available returns false and the
// caller skips signing without treating it as an error.
type Signer interface {
	Available() bool
	Sign(content string) (string, error)
}

// ResolutionSink observes records the moment the reconciler finalizes them.
// Sink failures are logged and never fail the batch.
type ResolutionSink interface {
	RecordResolution(ctx context.Context, rec *Record) error
}
