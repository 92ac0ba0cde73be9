// Package minigame 实现限时收集小游戏的对局引擎
//
// 引擎是单线程、由外部驱动的：驱动方每帧调用 Tick，
// 在输入解析出物品时调用 Select。引擎内部没有协程，也不做渲染。
package minigame

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/decker502/trashcollector/pkg/ecs"
)

// RoundStatus 对局状态
type RoundStatus int

const (
	// RoundIdle 未开始（或启动失败）
	RoundIdle RoundStatus = iota
	// RoundRunning 进行中
	RoundRunning
	// RoundWon 胜利
	RoundWon
	// RoundLost 超时失败
	RoundLost
)

func (s RoundStatus) String() string {
	switch s {
	case RoundIdle:
		return "Idle"
	case RoundRunning:
		return "Running"
	case RoundWon:
		return "Won"
	case RoundLost:
		return "Lost"
	default:
		return fmt.Sprintf("RoundStatus(%d)", int(s))
	}
}

// IsTerminal 是否为终态
func (s RoundStatus) IsTerminal() bool {
	return s == RoundWon || s == RoundLost
}

// SelectOutcome 一次选择（或一帧）的结果
type SelectOutcome int

const (
	// SelectIgnored 非当前目标/已失效/对局未进行，状态不变
	SelectIgnored SelectOutcome = iota
	// SelectCollected 收集成功，对局继续
	SelectCollected
	// SelectWon 收集成功并赢得对局
	SelectWon
	// SelectLost 对局超时（仅由 Driver.Frame 返回）
	SelectLost
)

func (o SelectOutcome) String() string {
	switch o {
	case SelectIgnored:
		return "Ignored"
	case SelectCollected:
		return "Collected"
	case SelectWon:
		return "Won"
	case SelectLost:
		return "Lost"
	default:
		return fmt.Sprintf("SelectOutcome(%d)", int(o))
	}
}

// RoundSnapshot 表现层每帧读取的只读视图
type RoundSnapshot struct {
	Status        RoundStatus
	Elapsed       float64
	Remaining     float64
	Collected     int
	TargetCount   int
	LiveCount     int
	CurrentTarget ecs.EntityID
	Seed          int64
}

// Round 对局状态机
//
// 生命周期：Idle -> Running -> {Won, Lost}；终态只能通过新的 StartRound 离开。
// 不支持并发调用，跨线程使用时需由调用方串行化。
type Round struct {
	factory SpawnFactory
	rng     *rand.Rand
	seed    int64
	cfg     RoundConfig

	status      RoundStatus
	elapsed     float64
	remaining   float64
	collected   int
	targetCount int

	// items 存活物品，按生成顺序排列，只会减少
	items         []*PlannedItem
	currentTarget ecs.EntityID
	tally         *Tally
	placement     PlacementStats

	strict bool

	onTargetChanged func(prev, next ecs.EntityID)
	onRoundEnded    func(status RoundStatus)
}

// NewRound 创建对局管理器
// factory 为 nil 时使用 SequentialFactory
func NewRound(factory SpawnFactory) *Round {
	if factory == nil {
		factory = NewSequentialFactory()
	}
	return &Round{
		factory: factory,
		status:  RoundIdle,
		tally:   NewTally(),
	}
}

// SetStrict 严格模式：契约违规时 panic(*UsageError)，用于调试和测试
func (r *Round) SetStrict(strict bool) {
	r.strict = strict
}

// OnTargetChanged 注册当前目标变化回调（表现层据此切换高亮）
// next 为 ecs.InvalidEntity 表示没有目标
func (r *Round) OnTargetChanged(fn func(prev, next ecs.EntityID)) {
	r.onTargetChanged = fn
}

// OnRoundEnded 注册对局结束回调
func (r *Round) OnRoundEnded(fn func(status RoundStatus)) {
	r.onRoundEnded = fn
}

// StartRound 开始新的一局
//
// 无条件清理上一局的存活物品，然后规划类别、放置位置、通过工厂生成物品，
// 并把第一个物品设为当前目标。
//
// 返回 *ConfigError 时对局保持 Idle，且没有任何物品。
// TargetCount 为 0 时立即胜利；工厂一个物品都没生成出来时立即失败。
func (r *Round) StartRound(cfg RoundConfig) error {
	r.clearItems()
	r.tally.Reset()
	r.status = RoundIdle
	r.elapsed = 0
	r.remaining = 0
	r.collected = 0
	r.targetCount = 0
	r.placement = PlacementStats{}

	if err := cfg.Validate(); err != nil {
		log.Printf("[MiniGame] ERROR: round not started: %v", err)
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.seed = seed
	r.rng = rand.New(rand.NewSource(seed))

	kinds := PlanKinds(r.rng, cfg.TargetCount, cfg.Weights, cfg.Guaranteed, cfg.Fallback)
	positions, stats, err := PlacePositions(r.rng, kinds, cfg.SpawnArea, cfg.MinSeparation, cfg.MaxAttempts)
	if err != nil {
		log.Printf("[MiniGame] ERROR: placement failed: %v", err)
		return err
	}
	r.placement = stats
	if stats.Relaxed > 0 {
		log.Printf("[MiniGame] WARNING: %d/%d items placed closer than %.2f (attempts exhausted)",
			stats.Relaxed, len(kinds), cfg.MinSeparation)
	}

	r.cfg = cfg
	r.targetCount = cfg.TargetCount
	r.remaining = cfg.TimeLimit
	r.status = RoundRunning

	r.items = make([]*PlannedItem, 0, len(kinds))
	for i, kind := range kinds {
		item := &PlannedItem{Category: kind, Position: positions[i]}
		id, tag, err := r.factory.Spawn(*item)
		if err != nil {
			// 工厂失败时停止生成剩余物品，已生成的照常进行
			log.Printf("[MiniGame] ERROR: spawn stopped at item %d/%d: %v", i+1, len(kinds), err)
			break
		}
		item.ID = id
		item.AssetTag = tag
		item.Alive = true
		r.items = append(r.items, item)
	}

	log.Printf("[MiniGame] Round started: seed=%d target=%d spawned=%d timeLimit=%.1fs",
		r.seed, r.targetCount, len(r.items), cfg.TimeLimit)

	if r.targetCount == 0 {
		r.finish(RoundWon)
		return nil
	}
	if len(r.items) == 0 {
		log.Printf("[MiniGame] ERROR: no items spawned for a round of %d", r.targetCount)
		r.finish(RoundLost)
		return nil
	}

	r.setTarget(r.items[0].ID)
	return nil
}

// Tick 推进计时器 dt 秒
// 剩余时间 <= 0 时进入 Lost。非 Running 状态下调用属于契约违规。
func (r *Round) Tick(dt float64) {
	if r.status != RoundRunning {
		r.usage("Tick")
		return
	}
	if dt < 0 || math.IsNaN(dt) {
		log.Printf("[MiniGame] WARNING: ignoring invalid dt %v", dt)
		return
	}

	r.elapsed += dt
	r.remaining -= dt
	if r.remaining <= 0 {
		r.remaining = 0
		r.finish(RoundLost)
	}
}

// Select 处理一次"物品被选中"事件
//
// 只有当前目标且仍存活时才计入；其他情况（过期的点击、重复事件）返回 SelectIgnored
// 且不改变任何状态。
func (r *Round) Select(id ecs.EntityID) SelectOutcome {
	if r.status != RoundRunning {
		r.usage("Select")
		return SelectIgnored
	}
	if id == ecs.InvalidEntity || id != r.currentTarget {
		return SelectIgnored
	}

	idx := r.indexOf(id)
	if idx < 0 || !r.items[idx].Alive {
		return SelectIgnored
	}

	item := r.items[idx]
	item.Alive = false
	r.collected++
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	r.factory.Despawn(item.ID)

	if err := r.tally.Record(item.AssetTag); err != nil {
		log.Printf("[MiniGame] ERROR: failed to record %q: %v", item.AssetTag, err)
	}

	if r.collected >= r.targetCount || len(r.items) == 0 {
		r.finish(RoundWon)
		return SelectWon
	}

	// 按生成顺序推进，不重新随机
	next := idx
	if next >= len(r.items) {
		next = 0
	}
	r.setTarget(r.items[next].ID)
	return SelectCollected
}

// Status 当前状态
func (r *Round) Status() RoundStatus { return r.status }

// CurrentTarget 当前唯一可选的物品
func (r *Round) CurrentTarget() (ecs.EntityID, bool) {
	return r.currentTarget, r.currentTarget != ecs.InvalidEntity
}

// Remaining 剩余时间（秒）
func (r *Round) Remaining() float64 { return r.remaining }

// Elapsed 已用时间（秒）
func (r *Round) Elapsed() float64 { return r.elapsed }

// Collected 已收集数量
func (r *Round) Collected() int { return r.collected }

// TargetCount 目标数量
func (r *Round) TargetCount() int { return r.targetCount }

// LiveCount 存活物品数量
func (r *Round) LiveCount() int { return len(r.items) }

// Seed 本局实际使用的随机种子（可用于复现）
func (r *Round) Seed() int64 { return r.seed }

// Config 本局配置
func (r *Round) Config() RoundConfig { return r.cfg }

// Placement 本局放置统计
func (r *Round) Placement() PlacementStats { return r.placement }

// LiveItems 返回存活物品的副本（生成顺序）
func (r *Round) LiveItems() []PlannedItem {
	out := make([]PlannedItem, len(r.items))
	for i, it := range r.items {
		out[i] = *it
	}
	return out
}

// Summarize 本局收集汇总（数量降序，同数量按首次收集顺序）
func (r *Round) Summarize() []TallyEntry {
	return r.tally.Summarize()
}

// Snapshot 返回表现层使用的只读视图
func (r *Round) Snapshot() RoundSnapshot {
	return RoundSnapshot{
		Status:        r.status,
		Elapsed:       r.elapsed,
		Remaining:     r.remaining,
		Collected:     r.collected,
		TargetCount:   r.targetCount,
		LiveCount:     len(r.items),
		CurrentTarget: r.currentTarget,
		Seed:          r.seed,
	}
}

// finish 进入终态：清空目标、封存计分、回收剩余物品
func (r *Round) finish(status RoundStatus) {
	r.status = status
	r.setTarget(ecs.InvalidEntity)
	r.tally.Seal()
	r.clearItems()

	log.Printf("[MiniGame] Round ended: %s collected=%d/%d elapsed=%.2fs",
		status, r.collected, r.targetCount, r.elapsed)

	if r.onRoundEnded != nil {
		r.onRoundEnded(status)
	}
}

// clearItems 回收全部存活物品
func (r *Round) clearItems() {
	r.setTarget(ecs.InvalidEntity)
	for _, it := range r.items {
		it.Alive = false
		r.factory.Despawn(it.ID)
	}
	r.items = nil
}

func (r *Round) setTarget(next ecs.EntityID) {
	prev := r.currentTarget
	r.currentTarget = next
	if prev != next && r.onTargetChanged != nil {
		r.onTargetChanged(prev, next)
	}
}

func (r *Round) indexOf(id ecs.EntityID) int {
	for i, it := range r.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (r *Round) usage(op string) {
	err := &UsageError{Op: op, Status: r.status}
	if r.strict {
		panic(err)
	}
	log.Printf("[MiniGame] WARNING: %v", err)
}
