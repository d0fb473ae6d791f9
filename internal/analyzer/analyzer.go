package analyzer

import "context"

// Analyzer produces a textual description of a single image.
// The only implementation calls a hosted AI model; the result is cached by the
// caller, so implementations should not cache themselves.
type Analyzer interface {
	// Describe returns a description of the image bytes. mimeType must be an
	// image MIME type such as "image/jpeg".
	Describe(ctx context.Context, image []byte, mimeType string) (string, error)
}
