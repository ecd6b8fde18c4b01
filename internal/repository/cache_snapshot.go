package repository

import (
	"context"
	"errors"
	"fmt"

	"btcmag7/internal/domain/models"
	domrepo "btcmag7/internal/domain/repository"
	pkgcache "btcmag7/pkg/cache"
)

// CacheSnapshotStore keeps the snapshot CSV under a single key of a
// key/value cache (redis or in-process memory). The entry never expires.
type CacheSnapshotStore struct {
	cache pkgcache.Service
	key   string
}

func NewCacheSnapshotStore(c pkgcache.Service, key string) domrepo.SnapshotStore {
	return &CacheSnapshotStore{cache: c, key: key}
}

func (s *CacheSnapshotStore) Load(ctx context.Context) (*models.PriceTable, bool, error) {
	var raw string
	err := s.cache.Get(ctx, s.key, &raw)
	if errors.Is(err, pkgcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, models.CacheCorruptError(err, "read snapshot key %s", s.key)
	}
	table, err := DecodeSnapshotCSV([]byte(raw))
	if err != nil {
		return nil, false, err
	}
	return table, true, nil
}

func (s *CacheSnapshotStore) Store(ctx context.Context, table *models.PriceTable) error {
	data, err := EncodeSnapshotCSV(table)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, s.key, string(data), 0); err != nil {
		return fmt.Errorf("write snapshot key %s: %w", s.key, err)
	}
	return nil
}

func (s *CacheSnapshotStore) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete snapshot key %s: %w", s.key, err)
	}
	return nil
}

func (s *CacheSnapshotStore) Exists(ctx context.Context) (bool, error) {
	return s.cache.Exists(ctx, s.key)
}
