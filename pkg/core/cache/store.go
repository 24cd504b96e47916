package cache

import (
	"context"
	"encoding/json"
	"time"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

// Store persists one JSON document per Key.
type Store interface {
	// Get decodes the document for key into out. It reports false when
	// no document exists.
	Get(ctx context.Context, key Key, out any) (bool, error)

	// Put stores v as the document for key, replacing an existing one.
	Put(ctx context.Context, key Key, v any) error

	// Prune removes documents whose day lies before the calendar date of
	// before and returns how many were removed.
	Prune(ctx context.Context, before time.Time) (int, error)
}

// FetchFunc produces a document on a cache miss.
type FetchFunc func(ctx context.Context) (any, error)

// ReadThrough fills out from the cached document for key, or calls fetch,
// stores its result and fills out from it. It reports whether the cache
// was hit. When storing fails out is still filled and the error returned.
func ReadThrough(ctx context.Context, store Store, key Key, out any, fetch FetchFunc) (bool, error) {
	found, err := store.Get(ctx, key, out)
	if err != nil {
		return false, err
	}
	if found {
		return true, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return false, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return false, mdwerror.Wrap(err, "encode fetched document").WithCode(mdwerror.CodeInternal)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, mdwerror.Wrap(err, "decode fetched document").WithCode(mdwerror.CodeInternal)
	}

	if err := store.Put(ctx, key, v); err != nil {
		return false, err
	}
	return false, nil
}

func encode(key Key, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, mdwerror.Wrap(err, "encode cache document").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("key", key.String())
	}
	return data, nil
}

func decode(key Key, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return mdwerror.Wrap(err, "decode cache document").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("key", key.String())
	}
	return nil
}
