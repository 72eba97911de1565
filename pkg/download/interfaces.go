package download

import "context"

// Manager fetches release listings and archives over HTTP.
type Manager interface {
	// Get returns the body of a small document such as a release listing.
	Get(ctx context.Context, url string) ([]byte, error)

	// Fetch streams url into dest. The body is staged in a temporary file next
	// to dest, which is removed on failure and moved into place on success.
	Fetch(ctx context.Context, url, dest string, progress ProgressFunc) error
}

// ProgressFunc receives the bytes written so far and the expected total,
// which is -1 when the server does not announce a length.
type ProgressFunc func(done, total int64)
