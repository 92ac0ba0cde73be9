package minigame

import (
	"github.com/decker502/trashcollector/pkg/ecs"
	"github.com/decker502/trashcollector/pkg/types"
)

// PlannedItem 一个规划好的物品
type PlannedItem struct {
	Category types.ItemCategory
	Position Vec2
	ID       ecs.EntityID
	Alive    bool
	// AssetTag 仅用于汇总分组，核心不解释它
	AssetTag string
}

// SpawnFactory 由外部提供，负责创建物品的视觉/物理表现
//
// 核心从不自己构造表现层对象：Spawn 返回身份和素材标签，
// Despawn 在物品被收集或对局结束时调用。
type SpawnFactory interface {
	Spawn(item PlannedItem) (ecs.EntityID, string, error)
	Despawn(id ecs.EntityID)
}

// SequentialFactory 不带表现层的工厂，ID 顺序递增，素材标签即类别名
// 用于无界面验证工具和测试
type SequentialFactory struct {
	nextID ecs.EntityID
	live   map[ecs.EntityID]bool
}

// NewSequentialFactory 创建顺序工厂
func NewSequentialFactory() *SequentialFactory {
	return &SequentialFactory{nextID: 1, live: make(map[ecs.EntityID]bool)}
}

// Spawn 分配下一个ID
func (f *SequentialFactory) Spawn(item PlannedItem) (ecs.EntityID, string, error) {
	id := f.nextID
	f.nextID++
	f.live[id] = true
	return id, item.Category.String(), nil
}

// Despawn 释放ID
func (f *SequentialFactory) Despawn(id ecs.EntityID) {
	delete(f.live, id)
}

// LiveCount 尚未释放的物品数量
func (f *SequentialFactory) LiveCount() int {
	return len(f.live)
}
