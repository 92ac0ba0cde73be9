package systems

import (
	"image/color"
	"log"

	"github.com/decker502/trashcollector/pkg/components"
	"github.com/decker502/trashcollector/pkg/config"
	"github.com/decker502/trashcollector/pkg/ecs"
)

// HighlightStyle 目标/普通物品的显示样式
type HighlightStyle struct {
	TargetColor color.RGBA
	NormalColor color.RGBA
	TargetScale float64
	TargetOrder int
	NormalOrder int
}

// NewHighlightStyle 从配置构造样式
func NewHighlightStyle(cfg config.HighlightConfig) HighlightStyle {
	style := HighlightStyle{
		TargetColor: color.RGBA{R: 255, G: 230, B: 64, A: 255},
		NormalColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		TargetScale: cfg.TargetScale,
	}
	if cfg.TargetSortingOrder != nil {
		style.TargetOrder = *cfg.TargetSortingOrder
	}
	if cfg.NormalSortingOrder != nil {
		style.NormalOrder = *cfg.NormalSortingOrder
	}
	if cfg.TargetColor != nil {
		style.TargetColor = cfg.TargetColor.Color()
	}
	if cfg.NormalColor != nil {
		style.NormalColor = cfg.NormalColor.Color()
	}
	if style.TargetScale <= 0 {
		style.TargetScale = 1
	}
	return style
}

// TargetHighlightSystem 根据对局的目标变化切换物品外观
//
// 当前目标：高亮颜色、放大、排在上层，可点击组件启用。
// 其他物品：恢复普通样式，可点击组件禁用。
// 注册方式：round.OnTargetChanged(highlight.OnTargetChanged)
type TargetHighlightSystem struct {
	entityManager *ecs.EntityManager
	style         HighlightStyle
}

// NewTargetHighlightSystem 创建目标高亮系统
func NewTargetHighlightSystem(em *ecs.EntityManager, style HighlightStyle) *TargetHighlightSystem {
	return &TargetHighlightSystem{entityManager: em, style: style}
}

// OnTargetChanged 目标切换回调
func (s *TargetHighlightSystem) OnTargetChanged(prev, next ecs.EntityID) {
	if prev != ecs.InvalidEntity {
		s.apply(prev, false)
	}
	if next != ecs.InvalidEntity {
		s.apply(next, true)
	}
}

func (s *TargetHighlightSystem) apply(id ecs.EntityID, target bool) {
	if !s.entityManager.Exists(id) {
		log.Printf("[TargetHighlightSystem] Entity %d no longer exists", id)
		return
	}

	if item, ok := ecs.GetComponent[*components.CollectibleComponent](s.entityManager, id); ok {
		item.IsTarget = target
	}
	if click, ok := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id); ok {
		click.IsEnabled = target
	}
	if scale, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id); ok {
		if target {
			scale.Uniform(s.style.TargetScale)
		} else {
			scale.Uniform(1)
		}
	}
	if tint, ok := ecs.GetComponent[*components.TintComponent](s.entityManager, id); ok {
		if target {
			tint.Color = s.style.TargetColor
			tint.SortingOrder = s.style.TargetOrder
		} else {
			tint.Color = s.style.NormalColor
			tint.SortingOrder = s.style.NormalOrder
		}
	}
}
