package repositories

import (
	"context"
	"io"
)

// AvatarStore is the object store holding profile pictures.
type AvatarStore interface {
	// Upload writes an object at path.
	Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) error

	// Remove deletes the objects at paths. Missing objects are not an error.
	Remove(ctx context.Context, paths ...string) error

	// RemovePrefix deletes every object under prefix.
	RemovePrefix(ctx context.Context, prefix string) error

	// PublicURL returns the URL browsers load the object from.
	PublicURL(path string) string

	// ObjectPath recovers the object path from a URL produced by PublicURL.
	ObjectPath(publicURL string) (string, bool)
}
