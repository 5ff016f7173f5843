package verse

import (
	"context"
	"errors"
	"fmt"

	"github.com/hairizuan-noorazman/bible-memo/storage"
)

// VersesKey is the fixed storage key of the verse collection.
const VersesKey = "bible-memo-verses"

// SlotPersister keeps the collection under one key of a storage.Store.
type SlotPersister struct {
	kv  storage.Store
	key string
}

// NewSlotPersister persists under key; an empty key means VersesKey.
func NewSlotPersister(kv storage.Store, key string) *SlotPersister {
	if key == "" {
		key = VersesKey
	}
	return &SlotPersister{kv: kv, key: key}
}

func (p *SlotPersister) Load(ctx context.Context) ([]byte, error) {
	data, err := p.kv.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", p.key, err)
	}
	return data, nil
}

func (p *SlotPersister) Save(ctx context.Context, data []byte) error {
	if err := p.kv.Put(ctx, p.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.key, err)
	}
	return nil
}
