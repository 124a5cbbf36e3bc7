package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"pantrify/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrSuperseded 同一個 key 已有較新的任務
var ErrSuperseded = common.ErrSuperseded

// Result 任務結果
type Result[T any] struct {
	Value T
	Error error
}

// Status 執行器狀態
type Status struct {
	Name       string `json:"name"`
	Running    int    `json:"running"`
	Submitted  int64  `json:"submitted"`
	Completed  int64  `json:"completed"`
	Superseded int64  `json:"superseded"`
}

type job struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// Runner 依 key 執行可被取代的非同步任務
//
// 同一 key 提交新任務時，進行中的舊任務會被取消，
// 舊任務的呼叫端收到 ErrSuperseded 而不是過期結果。
type Runner[T any] struct {
	name     string
	timeout  time.Duration
	mu       sync.Mutex
	inflight map[string]*job
	seq      uint64

	submitted  int64
	completed  int64
	superseded int64
}

// NewRunner 創建任務執行器，timeout 為 0 表示不限時
func NewRunner[T any](name string, timeout time.Duration) *Runner[T] {
	return &Runner[T]{
		name:     name,
		timeout:  timeout,
		inflight: make(map[string]*job),
	}
}

// Submit 提交任務，結果通道只會收到一個值
func (r *Runner[T]) Submit(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) <-chan Result[T] {
	jobCtx, cancel := context.WithCancelCause(ctx)

	r.mu.Lock()
	r.seq++
	current := &job{id: r.seq, cancel: cancel}
	if prev, ok := r.inflight[key]; ok {
		prev.cancel(ErrSuperseded)
	}
	r.inflight[key] = current
	r.mu.Unlock()

	atomic.AddInt64(&r.submitted, 1)

	out := make(chan Result[T], 1)
	go func() {
		defer cancel(nil)

		runCtx := jobCtx
		if r.timeout > 0 {
			var stop context.CancelFunc
			runCtx, stop = context.WithTimeout(jobCtx, r.timeout)
			defer stop()
		}

		value, err := fn(runCtx)

		if r.finish(key, current) {
			atomic.AddInt64(&r.superseded, 1)
			common.LogDebug("任務已被取代", zap.String("runner", r.name), zap.String("key", key))
			var zero T
			out <- Result[T]{Value: zero, Error: ErrSuperseded}
			return
		}

		if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = common.ErrGatewayTimeout.Wrap(err)
		}
		atomic.AddInt64(&r.completed, 1)
		out <- Result[T]{Value: value, Error: err}
	}()
	return out
}

// Do 提交任務並等待結果
func (r *Runner[T]) Do(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	res := <-r.Submit(ctx, key, fn)
	return res.Value, res.Error
}

// finish 移除進行中紀錄，回傳此任務是否已被較新任務取代
func (r *Runner[T]) finish(key string, j *job) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	latest, ok := r.inflight[key]
	if ok && latest.id == j.id {
		delete(r.inflight, key)
		return false
	}
	return true
}

// Status 取得執行器狀態
func (r *Runner[T]) Status() Status {
	r.mu.Lock()
	running := len(r.inflight)
	r.mu.Unlock()

	return Status{
		Name:       r.name,
		Running:    running,
		Submitted:  atomic.LoadInt64(&r.submitted),
		Completed:  atomic.LoadInt64(&r.completed),
		Superseded: atomic.LoadInt64(&r.superseded),
	}
}
