package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/okian/teamiq/internal/domain/analysis"
)

const defaultSize = 1000

// Memory is a bounded LRU with per-entry expiry.
type Memory struct {
	lru *expirable.LRU[string, analysis.Report]
}

// NewMemory creates a cache holding at most size reports for ttl each.
// ttl <= 0 disables expiry.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = defaultSize
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Memory{lru: expirable.NewLRU[string, analysis.Report](size, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, key string) (analysis.Report, error) {
	rep, ok := m.lru.Get(key)
	if !ok {
		return analysis.Report{}, ErrMiss
	}
	return rep, nil
}

func (m *Memory) Set(_ context.Context, key string, rep analysis.Report) error { //nolint:gocritic // hugeParam: report is stored by value
	m.lru.Add(key, rep)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

func (m *Memory) Len(context.Context) int { return m.lru.Len() }

func (m *Memory) Backend() string { return BackendMemory }

func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
