package cart

import "context"

// StorageKey is the key under which a cart blob is stored.
const StorageKey = "cart"

// Storage is a durable string key-value store. Read reports found=false for a
// key that was never written.
type Storage interface {
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key string, value string) error
}

type scopedStorage struct {
	inner     Storage
	namespace string
}

// Scope returns a Storage whose keys live under namespace, so that several
// carts can share one backend without seeing each other's blobs.
func Scope(s Storage, namespace string) Storage {
	if namespace == "" {
		return s
	}
	return &scopedStorage{inner: s, namespace: namespace}
}

func (s *scopedStorage) Read(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Read(ctx, s.namespace+":"+key)
}

func (s *scopedStorage) Write(ctx context.Context, key string, value string) error {
	return s.inner.Write(ctx, s.namespace+":"+key, value)
}
