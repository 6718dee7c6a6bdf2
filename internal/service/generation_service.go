package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/config"
	"github.com/handrailjsp/Scheduling/internal/dto"
	"github.com/handrailjsp/Scheduling/pkg/redis"
	"github.com/handrailjsp/Scheduling/pkg/scheduler"
)

// ── 排课生成模块业务错误 ──

var (
	ErrGenerationInProgress = errors.New("已有排课生成任务进行中")
	ErrScheduleNotFound     = errors.New("排课方案不存在")
	ErrScheduleNotPending   = errors.New("排课方案不处于待审核状态")
)

const generationLockKey = "schedule:generate"

// SchedulerAPI 外部排课服务契约（*scheduler.Client 实现）
type SchedulerAPI interface {
	Generate(ctx context.Context, runs int) (*scheduler.GenerateResponse, error)
	Approve(ctx context.Context, scheduleID int64) (*scheduler.ActionResponse, error)
	Reject(ctx context.Context, scheduleID int64) (*scheduler.ActionResponse, error)
	ListSchedules(ctx context.Context) ([]scheduler.ScheduleSummary, error)
	GetSchedule(ctx context.Context, scheduleID int64) (*scheduler.ScheduleDetail, error)
}

// Locker 分布式互斥锁
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// ResultCache 生成结果缓存，未命中返回 redis.ErrCacheMiss
type ResultCache interface {
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, v interface{}) error
}

// GenerationService 排课生成代理
//
// 同一时刻只允许一个生成任务；结果仅缓存不落库；
// 通过/驳回只允许从 pending 出发，外部服务成功后才变更状态。所有调用均不重试。
type GenerationService interface {
	Generate(ctx context.Context) (*dto.ScheduleResultResponse, error)
	Result(ctx context.Context, scheduleID int64) (*dto.ScheduleResultResponse, error)
	Approve(ctx context.Context, scheduleID int64) (*dto.ScheduleActionResponse, error)
	Reject(ctx context.Context, scheduleID int64) (*dto.ScheduleActionResponse, error)
	List(ctx context.Context) (*dto.ScheduleListResponse, error)
	Get(ctx context.Context, scheduleID int64) (*scheduler.ScheduleDetail, error)
}

type generationService struct {
	cfg    *config.SchedulerConfig
	sched  SchedulerAPI
	locker Locker
	cache  ResultCache
	logger *zap.Logger
}

// NewGenerationService 创建 GenerationService 实例
func NewGenerationService(
	cfg *config.SchedulerConfig,
	sched SchedulerAPI,
	locker Locker,
	cache ResultCache,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		cfg:    cfg,
		sched:  sched,
		locker: locker,
		cache:  cache,
		logger: logger,
	}
}

// ════════════════════════════════════════════════════════════
// Generate — 加锁后调用外部服务，结果写入缓存
// ════════════════════════════════════════════════════════════

func (s *generationService) Generate(ctx context.Context) (*dto.ScheduleResultResponse, error) {
	token, ok, err := s.locker.Lock(ctx, generationLockKey, s.lockTTL())
	if err != nil {
		s.logger.Error("获取排课生成锁失败", zap.Error(err))
		return nil, err
	}
	if !ok {
		generationRuns.WithLabelValues("busy").Inc()
		return nil, ErrGenerationInProgress
	}
	defer func() {
		if err := s.locker.Unlock(context.Background(), generationLockKey, token); err != nil {
			s.logger.Warn("释放排课生成锁失败", zap.Error(err))
		}
	}()

	start := time.Now()
	resp, err := s.sched.Generate(ctx, s.cfg.Runs)
	generationDuration.Observe(time.Since(start).Seconds())
	generationRuns.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		s.logger.Error("排课生成失败", zap.Int("runs", s.cfg.Runs), zap.Error(err))
		return nil, err
	}

	result := scheduler.ResultFromGenerate(resp)
	s.store(ctx, result)

	s.logger.Info("排课生成完成",
		zap.Int64("schedule_id", result.ID),
		zap.String("status", result.Status),
		zap.Float64("fitness_score", result.FitnessScore),
	)
	return result, nil
}

func (s *generationService) Result(ctx context.Context, scheduleID int64) (*dto.ScheduleResultResponse, error) {
	return s.load(ctx, scheduleID)
}

func (s *generationService) Approve(ctx context.Context, scheduleID int64) (*dto.ScheduleActionResponse, error) {
	return s.review(ctx, scheduleID, "approve", scheduler.StatusApproved, s.sched.Approve)
}

func (s *generationService) Reject(ctx context.Context, scheduleID int64) (*dto.ScheduleActionResponse, error) {
	return s.review(ctx, scheduleID, "reject", scheduler.StatusRejected, s.sched.Reject)
}

func (s *generationService) review(
	ctx context.Context,
	scheduleID int64,
	action, target string,
	call func(context.Context, int64) (*scheduler.ActionResponse, error),
) (*dto.ScheduleActionResponse, error) {
	result, err := s.load(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if !result.IsPending() {
		return nil, ErrScheduleNotPending
	}

	resp, err := call(ctx, scheduleID)
	scheduleReviews.WithLabelValues(action, resultLabel(err)).Inc()
	if err != nil {
		// 状态保持 pending
		s.logger.Error("排课方案审核失败",
			zap.String("action", action),
			zap.Int64("schedule_id", scheduleID),
			zap.Error(err),
		)
		return nil, err
	}

	result.Status = target
	s.store(ctx, result)

	return &dto.ScheduleActionResponse{
		ID:      scheduleID,
		Status:  target,
		Message: resp.Message,
	}, nil
}

func (s *generationService) List(ctx context.Context) (*dto.ScheduleListResponse, error) {
	list, err := s.sched.ListSchedules(ctx)
	if err != nil {
		s.logger.Error("查询排课方案列表失败", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []scheduler.ScheduleSummary{}
	}
	return &dto.ScheduleListResponse{List: list}, nil
}

func (s *generationService) Get(ctx context.Context, scheduleID int64) (*scheduler.ScheduleDetail, error) {
	detail, err := s.sched.GetSchedule(ctx, scheduleID)
	if err != nil {
		s.logger.Error("查询排课方案失败", zap.Int64("schedule_id", scheduleID), zap.Error(err))
		return nil, err
	}
	return detail, nil
}

// ── 缓存读写 ──

func resultKey(id int64) string {
	return fmt.Sprintf("schedule:result:%d", id)
}

// store 缓存写入失败仅记录日志
func (s *generationService) store(ctx context.Context, result *scheduler.Result) {
	if err := s.cache.SetJSON(ctx, resultKey(result.ID), result, s.resultTTL()); err != nil {
		s.logger.Warn("缓存排课结果失败", zap.Int64("schedule_id", result.ID), zap.Error(err))
	}
}

// load 缓存未命中时回源方案列表重建结果
func (s *generationService) load(ctx context.Context, scheduleID int64) (*scheduler.Result, error) {
	var result scheduler.Result
	err := s.cache.GetJSON(ctx, resultKey(scheduleID), &result)
	if err == nil {
		return &result, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		s.logger.Warn("读取排课结果缓存失败", zap.Int64("schedule_id", scheduleID), zap.Error(err))
	}

	list, err := s.sched.ListSchedules(ctx)
	if err != nil {
		s.logger.Error("查询排课方案列表失败", zap.Error(err))
		return nil, err
	}
	summary := scheduler.FindSummary(list, scheduleID)
	if summary == nil {
		return nil, ErrScheduleNotFound
	}
	rebuilt := scheduler.ResultFromSummary(summary)
	s.store(ctx, rebuilt)
	return rebuilt, nil
}

func (s *generationService) lockTTL() time.Duration {
	if s.cfg.LockTTL > 0 {
		return s.cfg.LockTTL
	}
	return 5 * time.Minute
}

func (s *generationService) resultTTL() time.Duration {
	if s.cfg.ResultTTL > 0 {
		return s.cfg.ResultTTL
	}
	return 24 * time.Hour
}
