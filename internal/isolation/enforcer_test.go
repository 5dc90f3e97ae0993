package isolation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-platform-api/internal/audit"
	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
	"casino-platform-api/internal/tenancy"
	apperrors "casino-platform-api/pkg/errors"
)

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

func (r *fakeAuditRepo) byType(eventType entity.AuditEventType) []*entity.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditRecord
	for _, rec := range r.records {
		if rec.EventType == eventType {
			out = append(out, rec)
		}
	}
	return out
}

func newTestEnforcer(t *testing.T) (*Enforcer, *fakeAuditRepo) {
	t.Helper()
	repo := &fakeAuditRepo{}
	sink := audit.NewSink(repo, audit.Config{})
	t.Cleanup(func() { _ = sink.Close(context.Background()) })
	return NewEnforcer(sink), repo
}

func ctxWithTenant(domainID int64, caps ...string) context.Context {
	domain := entity.NewDomain("lucky-ace", "Lucky Ace", nil)
	domain.DomainID = domainID
	rc := tenancy.NewRequestContext(domain, "req-1", "tester", entity.NewCapabilitySet(caps))
	return tenancy.WithRequestContext(context.Background(), rc)
}

func TestCheckAccessSameTenant(t *testing.T) {
	e, _ := newTestEnforcer(t)

	decision, err := e.CheckAccess(ctxWithTenant(7), 7)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.False(t, decision.CrossTenant)
}

func TestCheckAccessMissingContext(t *testing.T) {
	e, _ := newTestEnforcer(t)

	_, err := e.CheckAccess(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrTenantContextMissing)
}

func TestCheckAccessDenied(t *testing.T) {
	e, repo := newTestEnforcer(t)

	decision, err := e.CheckAccess(ctxWithTenant(7), 8)
	assert.ErrorIs(t, err, apperrors.ErrCrossTenantAccessDenied)
	assert.False(t, decision.Allowed)

	// 拒绝决策同步落审计
	denied := repo.byType(entity.AuditEventAccessDenied)
	require.Len(t, denied, 1)
	assert.Equal(t, "tester", denied[0].Actor)
	assert.Equal(t, "domain:8", denied[0].Target)
}

func TestCheckAccessCrossTenantAdmin(t *testing.T) {
	e, repo := newTestEnforcer(t)

	decision, err := e.CheckAccess(ctxWithTenant(7, string(entity.CapabilityCrossTenantAdmin)), 8)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.True(t, decision.CrossTenant)

	// 特权放行同样同步落审计
	crossed := repo.byType(entity.AuditEventCrossTenantAccess)
	require.Len(t, crossed, 1)
	assert.Equal(t, "domain:8", crossed[0].Target)
}

func TestCheckChildWrite(t *testing.T) {
	e, repo := newTestEnforcer(t)
	ctx := ctxWithTenant(7)

	require.NoError(t, e.CheckChildWrite(ctx, 7, 7))

	err := e.CheckChildWrite(ctx, 7, 9)
	assert.ErrorIs(t, err, apperrors.ErrDomainMismatch)
	denied := repo.byType(entity.AuditEventAccessDenied)
	require.Len(t, denied, 1)
	assert.Equal(t, "domain:9", denied[0].Target)
}
