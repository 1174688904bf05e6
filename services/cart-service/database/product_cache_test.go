package database

import (
	"context"
	"errors"
	"testing"

	"github.com/shopswift/commerce-backend/services/cart-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	data    map[models.Ref]*models.ProductSummary
	getErr  error
	setErr  error
	setCall int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[models.Ref]*models.ProductSummary{}}
}

func (m *memoryCache) GetMany(_ context.Context, refs []models.Ref) (map[models.Ref]*models.ProductSummary, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := map[models.Ref]*models.ProductSummary{}
	for _, r := range refs {
		if s, ok := m.data[r]; ok {
			out[r] = s
		}
	}
	return out, nil
}

func (m *memoryCache) SetMany(_ context.Context, summaries []*models.ProductSummary) error {
	m.setCall++
	if m.setErr != nil {
		return m.setErr
	}
	for _, s := range summaries {
		m.data[s.ID] = s
	}
	return nil
}

type countingSource struct {
	data  map[models.Ref]*models.ProductSummary
	asked [][]models.Ref
	err   error
}

func (s *countingSource) FindSummaries(_ context.Context, refs []models.Ref) (map[models.Ref]*models.ProductSummary, error) {
	s.asked = append(s.asked, refs)
	if s.err != nil {
		return nil, s.err
	}
	out := map[models.Ref]*models.ProductSummary{}
	for _, r := range refs {
		if p, ok := s.data[r]; ok {
			out[r] = p
		}
	}
	return out, nil
}

func TestCachedProductReader(t *testing.T) {
	mug := &models.ProductSummary{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Mug", Price: 9.5, Stock: 3}
	lamp := &models.ProductSummary{ID: "sku-lamp", Name: "Lamp", Price: 30, Stock: 1}

	t.Run("read-through then cached", func(t *testing.T) {
		cache := newMemoryCache()
		source := &countingSource{data: map[models.Ref]*models.ProductSummary{mug.ID: mug, lamp.ID: lamp}}
		reader := NewCachedProductReader(cache, source)

		out, err := reader.FindSummaries(context.Background(), []models.Ref{mug.ID, lamp.ID, "sku-gone"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
		assert.Len(t, cache.data, 2)

		out, err = reader.FindSummaries(context.Background(), []models.Ref{mug.ID, lamp.ID})
		require.NoError(t, err)
		assert.Equal(t, "Lamp", out[lamp.ID].Name)
		assert.Len(t, source.asked, 1)
	})

	t.Run("only misses hit the source", func(t *testing.T) {
		cache := newMemoryCache()
		cache.data[mug.ID] = mug
		source := &countingSource{data: map[models.Ref]*models.ProductSummary{lamp.ID: lamp}}
		reader := NewCachedProductReader(cache, source)

		out, err := reader.FindSummaries(context.Background(), []models.Ref{mug.ID, lamp.ID})
		require.NoError(t, err)
		assert.Len(t, out, 2)
		require.Len(t, source.asked, 1)
		assert.Equal(t, []models.Ref{lamp.ID}, source.asked[0])
	})

	t.Run("cache outage falls back to source", func(t *testing.T) {
		cache := newMemoryCache()
		cache.getErr = errors.New("redis: connection refused")
		cache.setErr = errors.New("redis: connection refused")
		source := &countingSource{data: map[models.Ref]*models.ProductSummary{mug.ID: mug}}
		reader := NewCachedProductReader(cache, source)

		out, err := reader.FindSummaries(context.Background(), []models.Ref{mug.ID})
		require.NoError(t, err)
		assert.Equal(t, "Mug", out[mug.ID].Name)
		assert.Equal(t, 1, cache.setCall)
	})

	t.Run("source error is returned", func(t *testing.T) {
		reader := NewCachedProductReader(newMemoryCache(), &countingSource{err: errors.New("mongo down")})
		_, err := reader.FindSummaries(context.Background(), []models.Ref{mug.ID})
		assert.EqualError(t, err, "mongo down")
	})
}

func TestSummaryKey(t *testing.T) {
	assert.Equal(t, "product:summary:sku-42", summaryKey("sku-42"))
}
