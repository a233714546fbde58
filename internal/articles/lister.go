package articles

import (
	"context"
	"errors"
	"time"

	"provenance-api/internal/cache"
	"provenance-api/internal/metrics"
	"provenance-api/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	keyAll       = "all"
	keyAvailable = "available"
)

// Source is the read side of the article store.
type Source interface {
	FindAll(ctx context.Context) ([]models.Article, error)
	FindAvailable(ctx context.Context) ([]models.Article, error)
}

// CachedLister serves article listings from an aged cache, loading from the
// Source on a miss. Concurrent misses on one key share a single load.
// Listings may be up to ttl stale after a feed refresh.
type CachedLister struct {
	group   singleflight.Group
	source  Source
	store   cache.Store[string, []models.ArticleInfo]
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCachedLister wires a lister. The store must be safe for concurrent use
// when the lister is shared between requests. A ttl <= 0 disables caching,
// since a zero retention would make a listing permanent.
func NewCachedLister(source Source, store cache.Store[string, []models.ArticleInfo], ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *CachedLister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLister{
		source:  source,
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// All lists every article.
func (l *CachedLister) All(ctx context.Context) ([]models.ArticleInfo, error) {
	return l.list(ctx, keyAll, l.source.FindAll)
}

// Available lists the available articles.
func (l *CachedLister) Available(ctx context.Context) ([]models.ArticleInfo, error) {
	return l.list(ctx, keyAvailable, l.source.FindAvailable)
}

func (l *CachedLister) list(ctx context.Context, key string, load func(context.Context) ([]models.Article, error)) ([]models.ArticleInfo, error) {
	if l.ttl > 0 {
		if infos, ok := l.store.Get(key); ok {
			l.hit()
			return infos, nil
		}
	}
	l.miss()

	// The shared load outlives any one caller; each caller waits on its own ctx.
	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		records, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		// Never nil: the cache rejects nil values and clients expect [] not null.
		infos := make([]models.ArticleInfo, 0, len(records))
		for _, r := range records {
			infos = append(infos, r.Info())
		}

		if l.ttl > 0 {
			// A load that started before an earlier one stored the key finds it
			// taken; that listing is just as fresh.
			if err := l.store.Put(key, infos, l.ttl); err != nil && !errors.Is(err, cache.ErrDuplicateKey) {
				l.logger.Warn("failed to cache article listing", zap.String("key", key), zap.Error(err))
			}
		}
		return infos, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.ArticleInfo), nil
	}
}

func (l *CachedLister) hit() {
	if l.metrics != nil {
		l.metrics.CacheHits.Inc()
	}
}

func (l *CachedLister) miss() {
	if l.metrics != nil {
		l.metrics.CacheMisses.Inc()
	}
}
