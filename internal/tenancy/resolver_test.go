package tenancy

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/infrastructure/persistence/redis"
	apperrors "casino-platform-api/pkg/errors"
)

// fakeDirectory 可编程的租户目录
type fakeDirectory struct {
	mu      sync.Mutex
	byCode  map[string]*entity.Domain
	byHost  map[string]*entity.Domain
	calls   atomic.Int64
	blockFn func(ctx context.Context) error
}

func newFakeDirectory(domains ...*entity.Domain) *fakeDirectory {
	d := &fakeDirectory{
		byCode: make(map[string]*entity.Domain),
		byHost: make(map[string]*entity.Domain),
	}
	for _, dom := range domains {
		d.byCode[dom.TenantCode] = dom
		for _, h := range dom.Hostnames {
			d.byHost[h] = dom
		}
	}
	return d
}

func (d *fakeDirectory) GetByCode(ctx context.Context, code string) (*entity.Domain, error) {
	d.calls.Add(1)
	if d.blockFn != nil {
		if err := d.blockFn(ctx); err != nil {
			return nil, err
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byCode[code], nil
}

func (d *fakeDirectory) GetByHostname(ctx context.Context, host string) (*entity.Domain, error) {
	d.calls.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byHost[host], nil
}

func newTestCache(t *testing.T) *redis.TenantCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClientWithRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return redis.NewTenantCache(client)
}

func activeDomain(id int64, code string, hosts ...string) *entity.Domain {
	d := entity.NewDomain(code, code, hosts)
	d.DomainID = id
	return d
}

func TestResolveByCode(t *testing.T) {
	dir := newFakeDirectory(activeDomain(1, "lucky-ace", "lucky.example.com"))
	r := NewResolver(dir, newTestCache(t), ResolverConfig{})

	domain, err := r.Resolve(context.Background(), "lucky-ace", "ignored.example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), domain.DomainID)
	assert.Equal(t, "lucky-ace", domain.TenantCode)
}

func TestResolveCachesIdentity(t *testing.T) {
	dir := newFakeDirectory(activeDomain(1, "lucky-ace"))
	r := NewResolver(dir, newTestCache(t), ResolverConfig{})

	for i := 0; i < 5; i++ {
		domain, err := r.Resolve(context.Background(), "lucky-ace", "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), domain.DomainID)
	}
	// 首次未命中回源一次，之后全部命中缓存
	assert.Equal(t, int64(1), dir.calls.Load())
}

func TestResolveByHostFallback(t *testing.T) {
	dir := newFakeDirectory(activeDomain(2, "royal-flush", "royal.example.com"))
	r := NewResolver(dir, newTestCache(t), ResolverConfig{})

	// Host 头携带端口与大写，解析前先规范化
	domain, err := r.Resolve(context.Background(), "", "Royal.Example.COM:8443")
	require.NoError(t, err)
	assert.Equal(t, int64(2), domain.DomainID)
}

func TestResolveUnknownTenant(t *testing.T) {
	dir := newFakeDirectory()
	r := NewResolver(dir, newTestCache(t), ResolverConfig{})

	_, err := r.Resolve(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, apperrors.ErrTenantNotFound)

	_, err = r.Resolve(context.Background(), "", "nowhere.example.com")
	assert.ErrorIs(t, err, apperrors.ErrTenantNotFound)

	_, err = r.Resolve(context.Background(), "", "")
	assert.ErrorIs(t, err, apperrors.ErrTenantNotFound)
}

func TestResolveStatusGate(t *testing.T) {
	inactive := activeDomain(3, "cold-deck")
	inactive.Status = entity.DomainStatusInactive
	maintenance := activeDomain(4, "night-shift")
	maintenance.Status = entity.DomainStatusMaintenance
	suspended := activeDomain(5, "busted")
	suspended.Status = entity.DomainStatusSuspended

	dir := newFakeDirectory(inactive, maintenance, suspended)
	r := NewResolver(dir, newTestCache(t), ResolverConfig{})

	_, err := r.Resolve(context.Background(), "cold-deck", "")
	assert.ErrorIs(t, err, apperrors.ErrTenantInactive)

	_, err = r.Resolve(context.Background(), "night-shift", "")
	assert.ErrorIs(t, err, apperrors.ErrTenantMaintenance)

	_, err = r.Resolve(context.Background(), "busted", "")
	assert.ErrorIs(t, err, apperrors.ErrTenantInactive)
}

func TestResolveTimeoutFailsClosed(t *testing.T) {
	dir := newFakeDirectory(activeDomain(1, "lucky-ace"))
	dir.blockFn = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	r := NewResolver(dir, newTestCache(t), ResolverConfig{ResolveTimeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := r.Resolve(context.Background(), "lucky-ace", "")
	// 超时一律表现为未知租户，绝不放行
	assert.ErrorIs(t, err, apperrors.ErrTenantNotFound)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNormalizeHost(t *testing.T) {
	cases := map[string]string{
		"Example.COM":      "example.com",
		"example.com:8080": "example.com",
		"example.com.":     "example.com",
		" example.com ":    "example.com",
		"[::1]:8080":       "::1",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHost(in), "input %q", in)
	}
}
