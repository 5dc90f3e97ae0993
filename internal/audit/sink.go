// Package audit 提供只追加的审计事件落库
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
	"casino-platform-api/pkg/logger"
	"casino-platform-api/pkg/metrics"
)

// Config 审计落库配置
type Config struct {
	// BufferSize 异步通道容量，写满后直接丢弃并计数
	BufferSize int
	// FlushInterval 后台批量落库的最大等待间隔
	FlushInterval time.Duration
	// FlushBatchSize 单次批量落库的最大条数
	FlushBatchSize int
}

// Sink 审计事件落库器
// Record 同步写库，用于拒绝决策与变更操作，写入失败即操作失败
// RecordAsync 经缓冲通道异步批量写库，用于高频读路径事件，可容忍丢弃
type Sink struct {
	repo repository.AuditRepository
	cfg  Config

	ch   chan *entity.AuditRecord
	wg   sync.WaitGroup
	once sync.Once
	done chan struct{}
}

// NewSink 创建审计落库器并启动后台刷写协程
func NewSink(repo repository.AuditRepository, cfg Config) *Sink {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 4096
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.FlushBatchSize <= 0 {
		cfg.FlushBatchSize = 256
	}

	s := &Sink{
		repo: repo,
		cfg:  cfg,
		ch:   make(chan *entity.AuditRecord, cfg.BufferSize),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.flushLoop()
	return s
}

// Record 同步落库一条审计记录
// 调用方必须在 Record 返回成功后才能视其所审计的操作为完成
func (s *Sink) Record(ctx context.Context, record *entity.AuditRecord) error {
	if err := s.repo.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	metrics.AuditRecordsTotal.WithLabelValues("sync").Inc()
	return nil
}

// RecordAsync 非阻塞写入异步缓冲，缓冲已满时丢弃并递增丢弃计数
func (s *Sink) RecordAsync(record *entity.AuditRecord) {
	select {
	case s.ch <- record:
	default:
		metrics.AuditDroppedTotal.Inc()
	}
}

// Close 停止后台协程并刷写剩余缓冲
func (s *Sink) Close(ctx context.Context) error {
	s.once.Do(func() {
		close(s.done)
	})

	closed := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(closed)
	}()

	select {
	case <-closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// flushLoop 后台批量刷写：攒够 FlushBatchSize 或到达 FlushInterval 即落库
func (s *Sink) flushLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*entity.AuditRecord, 0, s.cfg.FlushBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.AppendBatch(ctx, batch); err != nil {
			logger.Error(ctx, "failed to flush audit batch", err,
				slog.Int("count", len(batch)))
			metrics.AuditDroppedTotal.Add(float64(len(batch)))
		} else {
			metrics.AuditRecordsTotal.WithLabelValues("async").Add(float64(len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case record := <-s.ch:
			batch = append(batch, record)
			if len(batch) >= s.cfg.FlushBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			// 排空通道后做最后一次刷写
			for {
				select {
				case record := <-s.ch:
					batch = append(batch, record)
					if len(batch) >= s.cfg.FlushBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
