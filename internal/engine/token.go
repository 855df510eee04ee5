package engine

import "github.com/google/uuid"

// TokenGenerator generates unique invocation tokens for log correlation.
// Implemented by UUIDv7Generator (production) and testutil.FixedTokens
// (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 invocation tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so tokens sort by
// creation time, which keeps interleaved initialization runs readable in
// logs.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
