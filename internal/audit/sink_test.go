package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
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

func (r *fakeAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func TestRecordSync(t *testing.T) {
	repo := &fakeAuditRepo{}
	sink := NewSink(repo, Config{})
	defer sink.Close(context.Background())

	rec := entity.NewAuditRecord(entity.AuditEventAccessDenied, "tester")
	require.NoError(t, sink.Record(context.Background(), rec))
	assert.Equal(t, 1, repo.count())
}

func TestRecordAsyncFlushOnClose(t *testing.T) {
	repo := &fakeAuditRepo{}
	sink := NewSink(repo, Config{FlushInterval: time.Hour})

	for i := 0; i < 10; i++ {
		sink.RecordAsync(entity.NewAuditRecord(entity.AuditEventAccessAllowed, "tester"))
	}
	require.NoError(t, sink.Close(context.Background()))
	assert.Equal(t, 10, repo.count())
}

func TestRecordAsyncFlushOnBatchSize(t *testing.T) {
	repo := &fakeAuditRepo{}
	sink := NewSink(repo, Config{FlushInterval: time.Hour, FlushBatchSize: 5, BufferSize: 64})
	defer sink.Close(context.Background())

	for i := 0; i < 5; i++ {
		sink.RecordAsync(entity.NewAuditRecord(entity.AuditEventAccessAllowed, "tester"))
	}

	// 攒满批量后后台应很快落库，无需等待刷盘间隔
	require.Eventually(t, func() bool {
		return repo.count() == 5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRecordAsyncDropsWhenFull(t *testing.T) {
	repo := &fakeAuditRepo{}
	sink := NewSink(repo, Config{FlushInterval: time.Hour, FlushBatchSize: 1000, BufferSize: 2})

	// 写满缓冲后继续写入不会阻塞调用方
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			sink.RecordAsync(entity.NewAuditRecord(entity.AuditEventAccessAllowed, "tester"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RecordAsync blocked on full buffer")
	}
	require.NoError(t, sink.Close(context.Background()))
	assert.LessOrEqual(t, repo.count(), 100)
}
