package search

import (
	"context"
	"testing"
	"time"

	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	data map[string]string
}

func (f *fakeBackend) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (f *fakeBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

type countingSearcher struct {
	calls  int
	result *models.WebSearch
	err    error
}

func (s *countingSearcher) Search(ctx context.Context, query string, num int) (*models.WebSearch, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestCachedSearcher(t *testing.T) {
	inner := &countingSearcher{result: &models.WebSearch{
		Query:   "golang",
		Results: []models.WebResult{{Title: "Go", Link: "https://go.dev"}},
	}}
	cache := &CachedSearcher{inner: inner, backend: &fakeBackend{data: map[string]string{}}}

	first, err := cache.Search(context.Background(), "golang", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	second, err := cache.Search(context.Background(), "golang", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second lookup should come from cache")
	assert.Equal(t, first, second)

	// a different num is a different cache entry
	_, err = cache.Search(context.Background(), "golang", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedSearcherErrorNotCached(t *testing.T) {
	inner := &countingSearcher{err: errors.New("serper down")}
	cache := &CachedSearcher{inner: inner, backend: &fakeBackend{data: map[string]string{}}}

	_, err := cache.Search(context.Background(), "golang", 5)
	require.Error(t, err)
	_, err = cache.Search(context.Background(), "golang", 5)
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls, "failures must not be cached")
}

func TestCachedSearcherWithoutRedis(t *testing.T) {
	inner := &countingSearcher{result: &models.WebSearch{Query: "q"}}
	cache := NewCachedSearcher(inner, nil)

	for i := 0; i < 3; i++ {
		_, err := cache.Search(context.Background(), "q", 5)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.calls, "no backend means every call goes through")
}
