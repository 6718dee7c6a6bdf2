package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/pkg/scheduler"
)

// DefaultRefreshDelay 自动通过后延迟刷新，容忍存储传播延迟
const DefaultRefreshDelay = time.Second

// GenerationController 排课生成与审核
type GenerationController struct {
	backend GenerationBackend
	store   *SlotStore
	delay   time.Duration
	logger  *zap.Logger
	busy    *busyGuard

	// afterFunc 便于测试替换定时器
	afterFunc func(d time.Duration, f func()) *time.Timer

	mu      sync.Mutex
	results map[int64]scheduler.Result
}

// NewGenerationController 创建控制器；delay <= 0 时使用 DefaultRefreshDelay
func NewGenerationController(backend GenerationBackend, store *SlotStore, delay time.Duration, logger *zap.Logger) *GenerationController {
	if delay <= 0 {
		delay = DefaultRefreshDelay
	}
	return &GenerationController{
		backend:   backend,
		store:     store,
		delay:     delay,
		logger:    logger,
		busy:      newBusyGuard(),
		afterFunc: time.AfterFunc,
		results:   make(map[int64]scheduler.Result),
	}
}

// Result 已知的生成结果
func (g *GenerationController) Result(id int64) (scheduler.Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.results[id]
	return r, ok
}

// Generate 触发生成；结果已自动通过时延迟刷新当前教授的课时
func (g *GenerationController) Generate(ctx context.Context, capability *Capability) (scheduler.Result, error) {
	if err := requireCapability(capability); err != nil {
		return scheduler.Result{}, err
	}
	release, err := g.busy.acquire("generate")
	if err != nil {
		return scheduler.Result{}, err
	}
	defer release()

	result, err := g.backend.Generate(ctx, capability)
	if err != nil {
		return scheduler.Result{}, err
	}

	g.mu.Lock()
	g.results[result.ID] = *result
	g.mu.Unlock()

	if result.Status == scheduler.StatusApproved {
		g.afterFunc(g.delay, func() {
			if err := g.store.Reload(context.Background()); err != nil {
				g.logger.Debug("自动通过后的刷新被跳过", zap.Error(err))
			}
		})
	}
	return *result, nil
}

// Approve 通过待审核方案；远端成功后才标记为 approved 并立即刷新
func (g *GenerationController) Approve(ctx context.Context, capability *Capability, id int64) error {
	return g.review(ctx, capability, id, scheduler.StatusApproved, g.backend.ApproveSchedule)
}

// Reject 驳回待审核方案
func (g *GenerationController) Reject(ctx context.Context, capability *Capability, id int64) error {
	return g.review(ctx, capability, id, scheduler.StatusRejected, g.backend.RejectSchedule)
}

func (g *GenerationController) review(
	ctx context.Context,
	capability *Capability,
	id int64,
	status string,
	call func(context.Context, *Capability, int64) error,
) error {
	if err := requireCapability(capability); err != nil {
		return err
	}
	release, err := g.busy.acquire(fmt.Sprintf("review:%d", id))
	if err != nil {
		return err
	}
	defer release()

	if err := call(ctx, capability, id); err != nil {
		return err
	}

	g.mu.Lock()
	if r, ok := g.results[id]; ok {
		r.Status = status
		g.results[id] = r
	}
	g.mu.Unlock()

	if status == scheduler.StatusApproved {
		if err := g.store.Reload(ctx); err != nil {
			g.logger.Debug("通过后的刷新被跳过", zap.Error(err))
		}
	}
	return nil
}
