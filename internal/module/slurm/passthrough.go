package slurm

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultPassthroughTTL 透传接口的缓存时间.
const DefaultPassthroughTTL = 30 * time.Second

// RawSource 原样返回 slurmrestd/slurmdbd 响应的接口, 通常为 *slurmrest.Client.
type RawSource interface {
	GetReservations(ctx context.Context) ([]byte, error)
	GetUserRunningJobs(ctx context.Context, user string) ([]byte, error)
}

// Passthrough 对透传接口做短时缓存. 失败的响应不缓存.
type Passthrough struct {
	source RawSource
	cache  *gocache.Cache
}

func NewPassthrough(source RawSource, ttl time.Duration) *Passthrough {
	if ttl <= 0 {
		ttl = DefaultPassthroughTTL
	}
	return &Passthrough{
		source: source,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

func (p *Passthrough) Reservations(ctx context.Context) ([]byte, error) {
	return p.load("reservations", func() ([]byte, error) {
		return p.source.GetReservations(ctx)
	})
}

func (p *Passthrough) UserRunningJobs(ctx context.Context, user string) ([]byte, error) {
	return p.load("jobs/user/"+user, func() ([]byte, error) {
		return p.source.GetUserRunningJobs(ctx, user)
	})
}

func (p *Passthrough) load(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if v, ok := p.cache.Get(key); ok {
		return v.([]byte), nil
	}
	body, err := fetch()
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(key, body)
	return body, nil
}
