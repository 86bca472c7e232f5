package mongo

import (
	"context"
	"math/big"
	"strings"
)

// SaveLoad stores the job load in the collection named after jid.
func (r *Returner) SaveLoad(ctx context.Context, jid string, load map[string]any) error {
	return r.withStore(ctx, "", "save_load", func(ctx context.Context, store Store) error {
		return store.Insert(ctx, jid, load)
	})
}

// GetLoad returns the load saved for jid, or nil when there is none.
func (r *Returner) GetLoad(ctx context.Context, jid string) (Document, error) {
	var load Document
	err := r.withStore(ctx, "", "get_load", func(ctx context.Context, store Store) error {
		doc, _, err := store.First(ctx, jid)
		load = doc
		return err
	})
	return load, err
}

// GetJID returns, per collection, a document holding the return of jid.
func (r *Returner) GetJID(ctx context.Context, jid string) (map[string]Document, error) {
	return r.scan(ctx, "get_jid", func(ctx context.Context, store Store, collection string) (Document, bool, error) {
		return store.FindWithKey(ctx, collection, jid)
	})
}

// GetFun returns, per collection, the most recent document of a job that
// ran fun.
func (r *Returner) GetFun(ctx context.Context, fun string) (map[string]Document, error) {
	return r.scan(ctx, "get_fun", func(ctx context.Context, store Store, collection string) (Document, bool, error) {
		return store.Latest(ctx, collection, "fun", fun)
	})
}

// GetMinions returns the collection names that are not job ids.
func (r *Returner) GetMinions(ctx context.Context) ([]string, error) {
	return r.listCollections(ctx, "get_minions", func(name string) bool { return !IsJobID(name) })
}

// GetJIDs returns the collection names that are job ids.
func (r *Returner) GetJIDs(ctx context.Context) ([]string, error) {
	return r.listCollections(ctx, "get_jids", IsJobID)
}

// IsJobID reports whether a collection name is a job id: 20 characters
// that parse as a base-10 integer.
func IsJobID(name string) bool {
	if len(name) != 20 {
		return false
	}
	_, ok := new(big.Int).SetString(strings.TrimSpace(name), 10)
	return ok
}

func (r *Returner) scan(ctx context.Context, op string, find func(context.Context, Store, string) (Document, bool, error)) (map[string]Document, error) {
	out := make(map[string]Document)
	err := r.withStore(ctx, "", op, func(ctx context.Context, store Store) error {
		names, err := store.CollectionNames(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			doc, found, err := find(ctx, store, name)
			if err != nil {
				return err
			}
			if found {
				out[name] = doc
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Returner) listCollections(ctx context.Context, op string, keep func(string) bool) ([]string, error) {
	var out []string
	err := r.withStore(ctx, "", op, func(ctx context.Context, store Store) error {
		names, err := store.CollectionNames(ctx)
		if err != nil {
			return err
		}
		out = make([]string, 0, len(names))
		for _, name := range names {
			if keep(name) {
				out = append(out, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
