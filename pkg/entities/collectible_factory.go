package entities

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math/rand"

	"github.com/decker502/trashcollector/pkg/components"
	"github.com/decker502/trashcollector/pkg/ecs"
	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/types"
)

// ErrNoPrefabs 所有类别的素材列表都为空
var ErrNoPrefabs = errors.New("all prefab lists are empty")

// DefaultItemSize 物品可点击区域的边长（世界单位）
const DefaultItemSize = 0.8

// CollectibleFactory 基于 ECS 的物品工厂，实现 minigame.SpawnFactory
//
// 每个物品是一个带 Position/Collectible/Clickable/Scale/Tint 组件的实体。
// 生成时可点击组件是禁用的，由 TargetHighlightSystem 启用当前目标。
type CollectibleFactory struct {
	em      *ecs.EntityManager
	rng     *rand.Rand
	prefabs map[types.ItemCategory][]string
	// all 所有列表的并集（按固定类别顺序），类别列表为空时从这里挑
	all []string

	ItemSize    float64
	NormalColor color.RGBA

	live map[ecs.EntityID]struct{}
}

// NewCollectibleFactory 创建物品工厂
// 参数：
//
//	em - 实体管理器
//	prefabs - 类别 -> 素材标签列表
//	rng - 挑选素材用的随机源；nil 时使用固定种子 1
func NewCollectibleFactory(em *ecs.EntityManager, prefabs map[types.ItemCategory][]string, rng *rand.Rand) *CollectibleFactory {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &CollectibleFactory{
		em:          em,
		rng:         rng,
		prefabs:     make(map[types.ItemCategory][]string, len(prefabs)),
		ItemSize:    DefaultItemSize,
		NormalColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		live:        make(map[ecs.EntityID]struct{}),
	}
	for _, cat := range types.AllItemCategories {
		tags := append([]string(nil), prefabs[cat]...)
		f.prefabs[cat] = tags
		f.all = append(f.all, tags...)
	}
	return f
}

// Spawn 为规划好的物品创建实体
func (f *CollectibleFactory) Spawn(item minigame.PlannedItem) (ecs.EntityID, string, error) {
	tag, err := f.pickPrefab(item.Category)
	if err != nil {
		return ecs.InvalidEntity, "", err
	}

	id := f.em.CreateEntity()
	ecs.AddComponent(f.em, id, &components.PositionComponent{X: item.Position.X, Y: item.Position.Y})
	ecs.AddComponent(f.em, id, &components.CollectibleComponent{Category: item.Category, AssetTag: tag})
	ecs.AddComponent(f.em, id, &components.ClickableComponent{
		Width:     f.ItemSize,
		Height:    f.ItemSize,
		IsEnabled: false,
	})
	ecs.AddComponent(f.em, id, &components.ScaleComponent{ScaleX: 1, ScaleY: 1})
	ecs.AddComponent(f.em, id, &components.TintComponent{Color: f.NormalColor})

	f.live[id] = struct{}{}
	return id, tag, nil
}

// Despawn 销毁物品实体
// 可点击组件立即禁用，实体在帧末 RemoveMarkedEntities 时清理
func (f *CollectibleFactory) Despawn(id ecs.EntityID) {
	if _, ok := f.live[id]; !ok {
		log.Printf("[CollectibleFactory] WARNING: despawn of unknown entity %d", id)
		return
	}
	delete(f.live, id)

	if click, ok := ecs.GetComponent[*components.ClickableComponent](f.em, id); ok {
		click.IsEnabled = false
	}
	f.em.DestroyEntity(id)
}

// LiveCount 尚未销毁的物品数量
func (f *CollectibleFactory) LiveCount() int {
	return len(f.live)
}

// pickPrefab 在类别列表中随机挑选，列表为空时从并集中挑选
func (f *CollectibleFactory) pickPrefab(cat types.ItemCategory) (string, error) {
	if tags := f.prefabs[cat]; len(tags) > 0 {
		return tags[f.rng.Intn(len(tags))], nil
	}
	if len(f.all) == 0 {
		return "", fmt.Errorf("spawn %s item: %w", cat, ErrNoPrefabs)
	}
	log.Printf("[CollectibleFactory] No prefab for %s, picking from all lists", cat)
	return f.all[f.rng.Intn(len(f.all))], nil
}
