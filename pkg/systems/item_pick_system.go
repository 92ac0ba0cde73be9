package systems

import (
	"github.com/decker502/trashcollector/pkg/components"
	"github.com/decker502/trashcollector/pkg/ecs"
)

// ItemPickSystem 把指针位置解析为物品实体
type ItemPickSystem struct {
	entityManager *ecs.EntityManager
}

// NewItemPickSystem 创建物品拾取系统
func NewItemPickSystem(em *ecs.EntityManager) *ItemPickSystem {
	return &ItemPickSystem{entityManager: em}
}

// PickAt 返回世界坐标 (x, y) 处最上层的可点击物品
// 只考虑已启用的可点击组件；没有命中时返回 ecs.InvalidEntity
func (s *ItemPickSystem) PickAt(x, y float64) ecs.EntityID {
	entities := ecs.GetEntitiesWith3[
		*components.PositionComponent,
		*components.ClickableComponent,
		*components.CollectibleComponent,
	](s.entityManager)

	hit := ecs.InvalidEntity
	hitOrder := 0
	for _, id := range entities {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		clickable, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
		if !clickable.IsEnabled {
			continue
		}
		if !clickable.Contains(pos.X, pos.Y, x, y) {
			continue
		}

		order := 0
		if tint, ok := ecs.GetComponent[*components.TintComponent](s.entityManager, id); ok {
			order = tint.SortingOrder
		}
		// 排序相同时后创建的在上层
		if hit == ecs.InvalidEntity || order >= hitOrder {
			hit = id
			hitOrder = order
		}
	}
	return hit
}
