package entities

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/decker502/trashcollector/pkg/components"
	"github.com/decker502/trashcollector/pkg/ecs"
	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/types"
)

func testPrefabs() map[types.ItemCategory][]string {
	return map[types.ItemCategory][]string{
		types.CategoryCommon:   {"apple", "bread_crust"},
		types.CategoryUncommon: {"soda_can"},
		types.CategoryRare:     {"sea_shell"},
	}
}

func TestCollectibleFactory_Spawn(t *testing.T) {
	em := ecs.NewEntityManager()
	factory := NewCollectibleFactory(em, testPrefabs(), rand.New(rand.NewSource(1)))

	id, tag, err := factory.Spawn(minigame.PlannedItem{
		Category: types.CategoryRare,
		Position: minigame.Vec2{X: 1.5, Y: -2},
	})
	if err != nil {
		t.Fatalf("Spawn() failed: %v", err)
	}
	if id == ecs.InvalidEntity {
		t.Fatal("Spawn() returned the invalid entity")
	}
	if tag != "sea_shell" {
		t.Errorf("Expected tag sea_shell, got %q", tag)
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok || pos.X != 1.5 || pos.Y != -2 {
		t.Errorf("Unexpected position component: %+v (ok=%v)", pos, ok)
	}
	item, ok := ecs.GetComponent[*components.CollectibleComponent](em, id)
	if !ok || item.Category != types.CategoryRare || item.AssetTag != "sea_shell" {
		t.Errorf("Unexpected collectible component: %+v (ok=%v)", item, ok)
	}
	click, ok := ecs.GetComponent[*components.ClickableComponent](em, id)
	if !ok || click.IsEnabled {
		t.Errorf("New items must start with a disabled clickable: %+v (ok=%v)", click, ok)
	}
	if !ecs.HasComponent[*components.ScaleComponent](em, id) || !ecs.HasComponent[*components.TintComponent](em, id) {
		t.Error("Missing scale or tint component")
	}
	if factory.LiveCount() != 1 {
		t.Errorf("Expected 1 live item, got %d", factory.LiveCount())
	}
}

func TestCollectibleFactory_PrefabFallback(t *testing.T) {
	tests := []struct {
		name    string
		prefabs map[types.ItemCategory][]string
		cat     types.ItemCategory
		allowed []string
		wantErr error
	}{
		{
			name:    "使用类别自己的列表",
			prefabs: testPrefabs(),
			cat:     types.CategoryCommon,
			allowed: []string{"apple", "bread_crust"},
		},
		{
			name: "类别列表为空时从并集中挑选",
			prefabs: map[types.ItemCategory][]string{
				types.CategoryCommon:   {"apple"},
				types.CategoryUncommon: {"soda_can"},
			},
			cat:     types.CategoryRare,
			allowed: []string{"apple", "soda_can"},
		},
		{
			name:    "所有列表为空",
			prefabs: map[types.ItemCategory][]string{},
			cat:     types.CategoryRare,
			wantErr: ErrNoPrefabs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			factory := NewCollectibleFactory(em, tt.prefabs, rand.New(rand.NewSource(3)))

			for i := 0; i < 20; i++ {
				_, tag, err := factory.Spawn(minigame.PlannedItem{Category: tt.cat})
				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Fatalf("Expected %v, got %v", tt.wantErr, err)
					}
					if em.Count() != 0 {
						t.Errorf("Failed spawn must not create entities, got %d", em.Count())
					}
					return
				}
				if err != nil {
					t.Fatalf("Spawn() failed: %v", err)
				}
				if !contains(tt.allowed, tag) {
					t.Errorf("Tag %q not in %v", tag, tt.allowed)
				}
			}
		})
	}
}

func TestCollectibleFactory_Despawn(t *testing.T) {
	em := ecs.NewEntityManager()
	factory := NewCollectibleFactory(em, testPrefabs(), nil)

	id, _, _ := factory.Spawn(minigame.PlannedItem{Category: types.CategoryCommon})
	click, _ := ecs.GetComponent[*components.ClickableComponent](em, id)
	click.IsEnabled = true

	factory.Despawn(id)
	if click.IsEnabled {
		t.Error("Despawn should disable the clickable immediately")
	}
	if factory.LiveCount() != 0 {
		t.Errorf("Expected 0 live items, got %d", factory.LiveCount())
	}
	if em.PendingDestroyCount() != 1 {
		t.Errorf("Expected 1 pending destroy, got %d", em.PendingDestroyCount())
	}

	// 重复回收只记录警告
	factory.Despawn(id)
	if em.PendingDestroyCount() != 1 {
		t.Errorf("Double despawn queued another destroy: %d", em.PendingDestroyCount())
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after RemoveMarkedEntities")
	}
}

// TestCollectibleFactory_WithRound 工厂接入对局：结束时所有实体都被回收
func TestCollectibleFactory_WithRound(t *testing.T) {
	em := ecs.NewEntityManager()
	factory := NewCollectibleFactory(em, testPrefabs(), rand.New(rand.NewSource(9)))
	round := minigame.NewRound(factory)

	cfg := minigame.DefaultRoundConfig()
	cfg.TargetCount = 8
	cfg.Seed = 9
	if err := round.StartRound(cfg); err != nil {
		t.Fatalf("StartRound() failed: %v", err)
	}
	if factory.LiveCount() != 8 {
		t.Fatalf("Expected 8 live items, got %d", factory.LiveCount())
	}

	round.Select(mustCurrentTarget(t, round))
	round.Tick(cfg.TimeLimit)

	if round.Status() != minigame.RoundLost {
		t.Fatalf("Expected Lost, got %s", round.Status())
	}
	if factory.LiveCount() != 0 {
		t.Errorf("Round end should despawn every item, %d left", factory.LiveCount())
	}
	em.RemoveMarkedEntities()
	if em.Count() != 0 {
		t.Errorf("Expected empty world, got %d entities", em.Count())
	}

	summary := round.Summarize()
	if len(summary) != 1 || summary[0].Count != 1 {
		t.Errorf("Expected one recorded item, got %v", summary)
	}
}

func TestCollectibleFactory_NoPrefabsLosesRound(t *testing.T) {
	em := ecs.NewEntityManager()
	factory := NewCollectibleFactory(em, nil, nil)
	round := minigame.NewRound(factory)

	cfg := minigame.DefaultRoundConfig()
	cfg.TargetCount = 3
	if err := round.StartRound(cfg); err != nil {
		t.Fatalf("StartRound() failed: %v", err)
	}
	if round.Status() != minigame.RoundLost {
		t.Errorf("Expected Lost when nothing can be spawned, got %s", round.Status())
	}
}

func mustCurrentTarget(t *testing.T, r *minigame.Round) ecs.EntityID {
	t.Helper()
	id, ok := r.CurrentTarget()
	if !ok {
		t.Fatalf("Expected a current target, status=%s", r.Status())
	}
	return id
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
