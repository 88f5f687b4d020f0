package sdk

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// BlobRegistry hands out short-lived object URLs for downloaded payloads.
// Each URL is unique and stops resolving once revoked; it is never reissued.
type BlobRegistry struct {
	origin string

	mu    sync.Mutex
	blobs map[string]*Download
}

// NewBlobRegistry creates a registry whose URLs look like blob:<origin>/<uuid>.
func NewBlobRegistry(origin string) *BlobRegistry {
	return &BlobRegistry{
		origin: strings.TrimRight(origin, "/"),
		blobs:  make(map[string]*Download),
	}
}

// Create registers d and returns its object URL.
func (r *BlobRegistry) Create(d *Download) string {
	url := "blob:" + r.origin + "/" + uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[url] = d
	return url
}

// Resolve returns the payload behind url, if it is still live.
func (r *BlobRegistry) Resolve(url string) (*Download, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.blobs[url]
	return d, ok
}

// Revoke releases url. It reports whether the URL was live.
func (r *BlobRegistry) Revoke(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[url]; !ok {
		return false
	}
	delete(r.blobs, url)
	return true
}

// Len is the number of live URLs.
func (r *BlobRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}

// Close revokes every outstanding URL.
func (r *BlobRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.blobs)
	return nil
}
