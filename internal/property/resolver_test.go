package property

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-platform-api/internal/audit"
	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
	"casino-platform-api/internal/infrastructure/persistence/redis"
	apperrors "casino-platform-api/pkg/errors"
)

type propKey struct {
	domainID int64
	name     string
}

// fakePropertyRepo 内存属性存储
type fakePropertyRepo struct {
	mu    sync.Mutex
	store map[propKey]string
	gets  int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{store: make(map[propKey]string)}
}

func (r *fakePropertyRepo) Get(ctx context.Context, domainID int64, name string) (*entity.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	v, ok := r.store[propKey{domainID, name}]
	if !ok {
		return nil, nil
	}
	return &entity.Property{DomainID: domainID, Name: name, Value: v}, nil
}

func (r *fakePropertyRepo) Set(ctx context.Context, domainID int64, name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[propKey{domainID, name}] = value
	return nil
}

func (r *fakePropertyRepo) Remove(ctx context.Context, domainID int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, propKey{domainID, name})
	return nil
}

func (r *fakePropertyRepo) ListByDomain(ctx context.Context, domainID int64) ([]*entity.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Property
	for k, v := range r.store {
		if k.domainID == domainID {
			out = append(out, &entity.Property{DomainID: k.domainID, Name: k.name, Value: v})
		}
	}
	return out, nil
}

// fakeAuditRepo 记录审计写入
type fakeAuditRepo struct {
	mu      sync.Mutex
	records []*entity.AuditRecord
}

func (r *fakeAuditRepo) Append(ctx context.Context, record *entity.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeAuditRepo) AppendBatch(ctx context.Context, records []*entity.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

func (r *fakeAuditRepo) ListByDomain(ctx context.Context, domainID int64, p repository.Pagination) (*repository.PagedResult[*entity.AuditRecord], error) {
	return nil, nil
}

func (r *fakeAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func newTestResolver(t *testing.T) (*Resolver, *fakePropertyRepo, *fakeAuditRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewTenantCache(redis.NewClientWithRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()})))
	repo := newFakePropertyRepo()
	auditRepo := &fakeAuditRepo{}
	sink := audit.NewSink(auditRepo, audit.Config{})
	t.Cleanup(func() { _ = sink.Close(context.Background()) })
	return NewResolver(repo, cache, DefaultRegistry(), sink, ResolverConfig{}), repo, auditRepo
}

func TestResolveTierOrder(t *testing.T) {
	r, _, _ := newTestResolver(t)
	ctx := context.Background()

	// 三层都没有存量值时回落到内置默认值
	v, err := r.Resolve(ctx, 7, PropMaxPlayers)
	require.NoError(t, err)
	assert.Equal(t, "10000", v)

	// 全局值覆盖默认值
	require.NoError(t, r.Set(ctx, entity.GlobalDomainID, PropMaxPlayers, "5000"))
	v, err = r.Resolve(ctx, 7, PropMaxPlayers)
	require.NoError(t, err)
	assert.Equal(t, "5000", v)

	// 租户覆盖值优先于全局值
	require.NoError(t, r.Set(ctx, 7, PropMaxPlayers, "250"))
	v, err = r.Resolve(ctx, 7, PropMaxPlayers)
	require.NoError(t, err)
	assert.Equal(t, "250", v)

	// 其他租户不受影响
	v, err = r.Resolve(ctx, 8, PropMaxPlayers)
	require.NoError(t, err)
	assert.Equal(t, "5000", v)

	// 删除覆盖值后回落到全局值
	require.NoError(t, r.Remove(ctx, 7, PropMaxPlayers))
	v, err = r.Resolve(ctx, 7, PropMaxPlayers)
	require.NoError(t, err)
	assert.Equal(t, "5000", v)
}

func TestResolveUnknownProperty(t *testing.T) {
	r, _, _ := newTestResolver(t)

	_, err := r.Resolve(context.Background(), 7, "noSuchProperty")
	assert.ErrorIs(t, err, apperrors.ErrPropertyResolution)
}

func TestGetIntMalformedFallsThrough(t *testing.T) {
	r, _, _ := newTestResolver(t)
	ctx := context.Background()

	// 租户覆盖值是畸形的，解析应回落到全局值而不是报错
	require.NoError(t, r.Set(ctx, entity.GlobalDomainID, PropMaxRequestsPerMinute, "120"))
	require.NoError(t, r.Set(ctx, 7, PropMaxRequestsPerMinute, "not-a-number"))

	v, err := r.GetInt(ctx, 7, PropMaxRequestsPerMinute)
	require.NoError(t, err)
	assert.Equal(t, int64(120), v)
}

func TestGetBool(t *testing.T) {
	r, _, _ := newTestResolver(t)
	ctx := context.Background()

	v, err := r.GetBool(ctx, 7, PropRegistrationOpen)
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, r.Set(ctx, 7, PropRegistrationOpen, "false"))
	v, err = r.GetBool(ctx, 7, PropRegistrationOpen)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestGetJSON(t *testing.T) {
	r, _, _ := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, 7, PropFeatureFlags, `{"liveDealer":true}`))

	var flags map[string]bool
	require.NoError(t, r.GetJSON(ctx, 7, PropFeatureFlags, &flags))
	assert.True(t, flags["liveDealer"])
}

func TestSetRejectsUnknownProperty(t *testing.T) {
	r, _, _ := newTestResolver(t)

	err := r.Set(context.Background(), 7, "noSuchProperty", "1")
	assert.ErrorIs(t, err, apperrors.ErrPropertyResolution)
}

func TestSetAndRemoveAudited(t *testing.T) {
	r, _, auditRepo := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, 7, PropMaxPlayers, "100"))
	assert.Equal(t, 1, auditRepo.count())

	require.NoError(t, r.Remove(ctx, 7, PropMaxPlayers))
	assert.Equal(t, 2, auditRepo.count())

	// 删除不存在的覆盖值是空操作，不产生审计
	require.NoError(t, r.Remove(ctx, 7, PropMaxPlayers))
	assert.Equal(t, 2, auditRepo.count())
}

func TestCachedResolutionSkipsStore(t *testing.T) {
	r, repo, _ := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, 7, PropMaxPlayers, "250"))

	_, err := r.Resolve(ctx, 7, PropMaxPlayers)
	require.NoError(t, err)
	repo.mu.Lock()
	afterFirst := repo.gets
	repo.mu.Unlock()

	_, err = r.Resolve(ctx, 7, PropMaxPlayers)
	require.NoError(t, err)
	repo.mu.Lock()
	afterSecond := repo.gets
	repo.mu.Unlock()

	// 第二次解析全部命中缓存，不再访问存储
	assert.Equal(t, afterFirst, afterSecond)
}
