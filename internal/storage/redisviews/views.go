package redisviews

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const DefaultPageViewsKey = "railstatus:pageviews"

// PageViews is the persisted page-view counter. INCR makes the
// read-increment-write a single step.
type PageViews struct {
	c   *redis.Client
	key string
}

func NewPageViews(addr, key string) *PageViews {
	if key == "" {
		key = DefaultPageViewsKey
	}
	return &PageViews{
		c:   redis.NewClient(&redis.Options{Addr: addr}),
		key: key,
	}
}

func (p *PageViews) Increment(ctx context.Context) (int64, error) {
	n, err := p.c.Incr(ctx, p.key).Result()
	if err != nil {
		return 0, errors.Wrap(err, "redis incr page views")
	}
	return n, nil
}

func (p *PageViews) Current(ctx context.Context) (int64, error) {
	n, err := p.c.Get(ctx, p.key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "redis get page views")
	}
	return n, nil
}

func (p *PageViews) Ping(ctx context.Context) error {
	return errors.Wrap(p.c.Ping(ctx).Err(), "redis ping")
}

func (p *PageViews) Close() error {
	return p.c.Close()
}
