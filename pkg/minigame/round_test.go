package minigame

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/decker502/trashcollector/pkg/ecs"
	"github.com/decker502/trashcollector/pkg/types"
)

// scriptedFactory 可控的测试工厂：按脚本分配素材标签，可在第 N 个物品时失败
type scriptedFactory struct {
	nextID    ecs.EntityID
	tags      []string
	failAt    int // 从 1 开始；0 表示永不失败
	spawned   []PlannedItem
	despawned []ecs.EntityID
	live      map[ecs.EntityID]bool
}

func newScriptedFactory() *scriptedFactory {
	return &scriptedFactory{nextID: 100, live: make(map[ecs.EntityID]bool)}
}

func (f *scriptedFactory) Spawn(item PlannedItem) (ecs.EntityID, string, error) {
	if f.failAt > 0 && len(f.spawned)+1 >= f.failAt {
		return ecs.InvalidEntity, "", fmt.Errorf("no prefab for %s", item.Category)
	}
	tag := item.Category.String()
	if i := len(f.spawned); i < len(f.tags) {
		tag = f.tags[i]
	}
	id := f.nextID
	f.nextID++
	item.ID = id
	f.spawned = append(f.spawned, item)
	f.live[id] = true
	return id, tag, nil
}

func (f *scriptedFactory) Despawn(id ecs.EntityID) {
	f.despawned = append(f.despawned, id)
	delete(f.live, id)
}

func scenarioConfig(target int) RoundConfig {
	return RoundConfig{
		TargetCount: target,
		Weights: map[types.ItemCategory]float64{
			types.CategoryCommon:   6,
			types.CategoryUncommon: 3,
			types.CategoryRare:     1,
		},
		SpawnArea:     Rect{Min: Vec2{X: -5, Y: -5}, Max: Vec2{X: 5, Y: 5}},
		MinSeparation: 0.5,
		MaxAttempts:   40,
		TimeLimit:     10,
		Guaranteed:    types.CategoryRare,
		Fallback:      types.CategoryCommon,
		Seed:          12345,
	}
}

func mustStart(t *testing.T, r *Round, cfg RoundConfig) {
	t.Helper()
	if err := r.StartRound(cfg); err != nil {
		t.Fatalf("StartRound() failed: %v", err)
	}
}

func mustTarget(t *testing.T, r *Round) ecs.EntityID {
	t.Helper()
	id, ok := r.CurrentTarget()
	if !ok {
		t.Fatalf("Expected a current target, status=%s", r.Status())
	}
	return id
}

// TestRound_ScenarioWin 3 个物品，5 次 1 秒的 tick 内按顺序全部选中 -> Won
func TestRound_ScenarioWin(t *testing.T) {
	r := NewRound(newScriptedFactory())
	r.SetStrict(true)
	mustStart(t, r, scenarioConfig(3))

	items := r.LiveItems()
	if len(items) != 3 {
		t.Fatalf("Expected 3 live items, got %d", len(items))
	}
	rare := 0
	for _, it := range items {
		if it.Category == types.CategoryRare {
			rare++
		}
	}
	if rare != 1 {
		t.Fatalf("Expected exactly 1 rare item, got %d", rare)
	}

	driver := NewDriver(r)
	outcomes := []SelectOutcome{}
	for tick := 0; tick < 5 && r.Status() == RoundRunning; tick++ {
		outcomes = append(outcomes, driver.Frame(1.0, mustTarget(t, r)))
	}

	if r.Status() != RoundWon {
		t.Fatalf("Expected Won, got %s (outcomes %v)", r.Status(), outcomes)
	}
	if r.Collected() != 3 {
		t.Errorf("Expected collected=3, got %d", r.Collected())
	}
	if outcomes[len(outcomes)-1] != SelectWon {
		t.Errorf("Last frame should report Won, got %v", outcomes)
	}
	if r.Remaining() <= 0 {
		t.Errorf("Won round should have time left, got %.2f", r.Remaining())
	}
}

// TestRound_ScenarioLost 只选中 2 个，10 次 1 秒的 tick 后 -> Lost
func TestRound_ScenarioLost(t *testing.T) {
	r := NewRound(newScriptedFactory())
	r.SetStrict(true)
	mustStart(t, r, scenarioConfig(3))

	for i := 0; i < 2; i++ {
		if got := r.Select(mustTarget(t, r)); got != SelectCollected {
			t.Fatalf("Selection %d: expected Collected, got %v", i+1, got)
		}
	}

	for tick := 1; tick <= 10; tick++ {
		r.Tick(1.0)
		if tick < 10 && r.Status() != RoundRunning {
			t.Fatalf("Round ended early at tick %d: %s", tick, r.Status())
		}
	}

	if r.Status() != RoundLost {
		t.Fatalf("Expected Lost after 10th tick, got %s", r.Status())
	}
	if r.Collected() != 2 {
		t.Errorf("Expected collected=2, got %d", r.Collected())
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining should be clamped to 0, got %f", r.Remaining())
	}
	if _, ok := r.CurrentTarget(); ok {
		t.Error("Lost round must not have a current target")
	}
}

func TestRound_ZeroTargetWinsImmediately(t *testing.T) {
	r := NewRound(newScriptedFactory())
	mustStart(t, r, scenarioConfig(0))

	if r.Status() != RoundWon {
		t.Fatalf("Expected Won, got %s", r.Status())
	}
	if r.Collected() != 0 || r.TargetCount() != 0 {
		t.Errorf("Expected 0/0, got %d/%d", r.Collected(), r.TargetCount())
	}
	if len(r.Summarize()) != 0 {
		t.Errorf("Expected empty summary, got %v", r.Summarize())
	}
}

// TestRound_SelectCurrentTarget 选中当前目标：Collected，存活数减 1
func TestRound_SelectCurrentTarget(t *testing.T) {
	factory := newScriptedFactory()
	r := NewRound(factory)
	mustStart(t, r, scenarioConfig(6))

	spawnOrder := r.LiveItems()
	for i := 0; i < 5; i++ {
		target := mustTarget(t, r)
		if target != spawnOrder[i].ID {
			t.Fatalf("Step %d: target %d is not spawn-order item %d", i, target, spawnOrder[i].ID)
		}
		before := r.LiveCount()
		if got := r.Select(target); got != SelectCollected {
			t.Fatalf("Step %d: expected Collected, got %v", i, got)
		}
		if r.LiveCount() != before-1 {
			t.Errorf("Step %d: live count %d -> %d", i, before, r.LiveCount())
		}
		if factory.live[target] {
			t.Errorf("Step %d: collected item %d was not despawned", i, target)
		}
	}
}

// TestRound_StaleSelectionsIgnored 非目标/已收集/未知ID 的选择不改变任何状态
func TestRound_StaleSelectionsIgnored(t *testing.T) {
	r := NewRound(newScriptedFactory())
	r.SetStrict(true)
	mustStart(t, r, scenarioConfig(4))

	first := mustTarget(t, r)
	if r.Select(first) != SelectCollected {
		t.Fatal("First selection should be collected")
	}
	nonTarget := r.LiveItems()[1].ID

	stale := []struct {
		name string
		id   ecs.EntityID
	}{
		{"已收集的物品（重复点击）", first},
		{"非当前目标", nonTarget},
		{"未知ID", ecs.EntityID(9999)},
		{"无效ID", ecs.InvalidEntity},
	}

	for _, tt := range stale {
		t.Run(tt.name, func(t *testing.T) {
			target := mustTarget(t, r)
			collected, live := r.Collected(), r.LiveCount()

			if got := r.Select(tt.id); got != SelectIgnored {
				t.Fatalf("Expected Ignored, got %v", got)
			}
			if r.Collected() != collected || r.LiveCount() != live {
				t.Errorf("State changed: collected %d->%d live %d->%d", collected, r.Collected(), live, r.LiveCount())
			}
			if now := mustTarget(t, r); now != target {
				t.Errorf("Target changed from %d to %d", target, now)
			}
		})
	}
}

func TestRound_ConfigErrorKeepsIdle(t *testing.T) {
	factory := newScriptedFactory()
	r := NewRound(factory)

	// 先赢一局，再用坏配置启动：应回到 Idle 且没有物品
	mustStart(t, r, scenarioConfig(0))

	bad := scenarioConfig(5)
	bad.SpawnArea = Rect{Min: Vec2{X: 2, Y: 2}, Max: Vec2{X: 2, Y: 8}}
	err := r.StartRound(bad)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
	if r.Status() != RoundIdle {
		t.Errorf("Expected Idle after config error, got %s", r.Status())
	}
	if r.LiveCount() != 0 || len(factory.spawned) != 0 {
		t.Errorf("Nothing should be spawned, live=%d spawned=%d", r.LiveCount(), len(factory.spawned))
	}
}

func TestRound_StartClearsPreviousItems(t *testing.T) {
	factory := newScriptedFactory()
	r := NewRound(factory)
	mustStart(t, r, scenarioConfig(5))
	first := r.LiveItems()

	cfg := scenarioConfig(3)
	cfg.Seed = 777
	mustStart(t, r, cfg)

	for _, it := range first {
		if factory.live[it.ID] {
			t.Errorf("Item %d from the previous round leaked", it.ID)
		}
	}
	if len(factory.live) != 3 || r.LiveCount() != 3 {
		t.Errorf("Expected 3 live items, factory=%d round=%d", len(factory.live), r.LiveCount())
	}
	if r.Collected() != 0 || r.Status() != RoundRunning {
		t.Errorf("Expected fresh running round, got collected=%d status=%s", r.Collected(), r.Status())
	}
}

func TestRound_FactoryFailures(t *testing.T) {
	t.Run("第一个物品就失败 -> Lost", func(t *testing.T) {
		factory := newScriptedFactory()
		factory.failAt = 1
		r := NewRound(factory)
		mustStart(t, r, scenarioConfig(4))

		if r.Status() != RoundLost {
			t.Fatalf("Expected Lost, got %s", r.Status())
		}
		if r.LiveCount() != 0 {
			t.Errorf("Expected no live items, got %d", r.LiveCount())
		}
	})

	t.Run("部分生成 -> 收完即胜", func(t *testing.T) {
		factory := newScriptedFactory()
		factory.failAt = 3
		r := NewRound(factory)
		mustStart(t, r, scenarioConfig(5))

		if r.LiveCount() != 2 {
			t.Fatalf("Expected 2 live items, got %d", r.LiveCount())
		}
		if got := r.Select(mustTarget(t, r)); got != SelectCollected {
			t.Fatalf("Expected Collected, got %v", got)
		}
		if got := r.Select(mustTarget(t, r)); got != SelectWon {
			t.Fatalf("Expected Won once live items run out, got %v", got)
		}
		if r.Collected() != 2 || r.TargetCount() != 5 {
			t.Errorf("Expected 2/5, got %d/%d", r.Collected(), r.TargetCount())
		}
	})
}

func TestRound_SummaryOrder(t *testing.T) {
	factory := newScriptedFactory()
	factory.tags = []string{"apple", "can", "can", "bottle", "bottle", "apple", "can"}
	r := NewRound(factory)
	mustStart(t, r, scenarioConfig(7))

	for r.Status() == RoundRunning {
		r.Select(mustTarget(t, r))
	}

	want := []TallyEntry{{"can", 3}, {"apple", 2}, {"bottle", 2}}
	got := r.Summarize()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestRound_TargetChangedCallbacks(t *testing.T) {
	r := NewRound(newScriptedFactory())

	var changes [][2]ecs.EntityID
	r.OnTargetChanged(func(prev, next ecs.EntityID) {
		changes = append(changes, [2]ecs.EntityID{prev, next})
	})
	var ended []RoundStatus
	r.OnRoundEnded(func(status RoundStatus) { ended = append(ended, status) })

	mustStart(t, r, scenarioConfig(2))
	items := r.LiveItems()
	r.Select(items[0].ID)
	r.Select(items[1].ID)

	want := [][2]ecs.EntityID{
		{ecs.InvalidEntity, items[0].ID},
		{items[0].ID, items[1].ID},
		{items[1].ID, ecs.InvalidEntity},
	}
	if len(changes) != len(want) {
		t.Fatalf("Expected %v, got %v", want, changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("Change %d: expected %v, got %v", i, want[i], changes[i])
		}
	}
	if len(ended) != 1 || ended[0] != RoundWon {
		t.Errorf("Expected one Won end callback, got %v", ended)
	}
}

func TestRound_UsageErrors(t *testing.T) {
	t.Run("非严格模式下为空操作", func(t *testing.T) {
		r := NewRound(nil)
		r.Tick(1)
		if got := r.Select(1); got != SelectIgnored {
			t.Errorf("Expected Ignored, got %v", got)
		}
		if r.Status() != RoundIdle {
			t.Errorf("Expected Idle, got %s", r.Status())
		}
	})

	t.Run("严格模式下 panic", func(t *testing.T) {
		r := NewRound(nil)
		r.SetStrict(true)
		mustStart(t, r, scenarioConfig(0))

		defer func() {
			rec := recover()
			usage, ok := rec.(*UsageError)
			if !ok {
				t.Fatalf("Expected *UsageError panic, got %v", rec)
			}
			if usage.Op != "Tick" || usage.Status != RoundWon {
				t.Errorf("Unexpected usage error: %v", usage)
			}
		}()
		r.Tick(1)
	})
}

// TestRound_WinIffBeforeTimeout 先收完则胜，先超时则负
func TestRound_WinIffBeforeTimeout(t *testing.T) {
	tests := []struct {
		name       string
		collectAt  []int // 在第几帧（从 0 开始）选中当前目标
		frames     int
		wantStatus RoundStatus
	}{
		{"最后一帧点击仍然有效", []int{0, 5, 9}, 10, RoundWon},
		{"差一个物品", []int{0, 1}, 10, RoundLost},
		{"很快收完", []int{0, 1, 2}, 10, RoundWon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRound(nil)
			r.SetStrict(true)
			mustStart(t, r, scenarioConfig(3))
			driver := NewDriver(r)

			pick := make(map[int]bool)
			for _, f := range tt.collectAt {
				pick[f] = true
			}

			for frame := 0; frame < tt.frames && r.Status() == RoundRunning; frame++ {
				if pick[frame] {
					driver.Frame(1.0, mustTarget(t, r))
				} else {
					driver.Frame(1.0)
				}
			}

			if r.Status() != tt.wantStatus {
				t.Errorf("Expected %s, got %s (collected %d)", tt.wantStatus, r.Status(), r.Collected())
			}
		})
	}
}

// TestRound_DenseConfigStillCompletes 区域放不下要求的间距时仍能开始并完成对局
func TestRound_DenseConfigStillCompletes(t *testing.T) {
	cfg := scenarioConfig(10)
	cfg.SpawnArea = Rect{Max: Vec2{X: 1, Y: 1}}
	cfg.MinSeparation = 5

	r := NewRound(newScriptedFactory())
	r.SetStrict(true)
	mustStart(t, r, cfg)

	if r.Placement().Relaxed == 0 {
		t.Fatal("Expected relaxed placements in a dense area")
	}
	for _, it := range r.LiveItems() {
		if !cfg.SpawnArea.Contains(it.Position) {
			t.Errorf("Item %d placed outside the area: %v", it.ID, it.Position)
		}
	}

	for r.Status() == RoundRunning {
		r.Select(mustTarget(t, r))
	}
	if r.Status() != RoundWon || r.Collected() != 10 {
		t.Errorf("Expected Won with 10 collected, got %s collected=%d", r.Status(), r.Collected())
	}
}

// TestRound_InfiniteAreaRejected 角点为无穷的区域不能开始对局
func TestRound_InfiniteAreaRejected(t *testing.T) {
	cfg := scenarioConfig(3)
	cfg.SpawnArea.Min.X = math.Inf(-1)

	f := newScriptedFactory()
	r := NewRound(f)
	err := r.StartRound(cfg)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "spawnArea" {
		t.Fatalf("Expected spawnArea ConfigError, got %v", err)
	}
	if r.Status() != RoundIdle || len(f.spawned) != 0 {
		t.Errorf("Expected Idle with nothing spawned, got %s spawned=%d", r.Status(), len(f.spawned))
	}
}
