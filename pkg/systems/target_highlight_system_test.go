package systems

import (
	"image/color"
	"testing"

	"github.com/decker502/trashcollector/pkg/components"
	"github.com/decker502/trashcollector/pkg/config"
	"github.com/decker502/trashcollector/pkg/ecs"
)

func TestTargetHighlightSystem_OnTargetChanged(t *testing.T) {
	em := ecs.NewEntityManager()
	a := newTestItem(em, 0, 0, false, 0)
	b := newTestItem(em, 2, 0, false, 0)

	style := NewHighlightStyle(config.DefaultMiniGameConfig().Highlight)
	s := NewTargetHighlightSystem(em, style)

	s.OnTargetChanged(ecs.InvalidEntity, a)
	assertHighlighted(t, em, a, true, style)
	assertHighlighted(t, em, b, false, style)

	s.OnTargetChanged(a, b)
	assertHighlighted(t, em, a, false, style)
	assertHighlighted(t, em, b, true, style)

	s.OnTargetChanged(b, ecs.InvalidEntity)
	assertHighlighted(t, em, b, false, style)

	// 已销毁的实体只记录日志
	em.DestroyEntity(a)
	em.RemoveMarkedEntities()
	s.OnTargetChanged(a, ecs.InvalidEntity)
}

func TestNewHighlightStyle_Defaults(t *testing.T) {
	style := NewHighlightStyle(config.HighlightConfig{})
	if style.TargetScale != 1 {
		t.Errorf("Expected scale 1 for an unset style, got %v", style.TargetScale)
	}
	if style.NormalColor != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected white normal colour, got %v", style.NormalColor)
	}

	def := NewHighlightStyle(config.DefaultMiniGameConfig().Highlight)
	if def.TargetScale != 1.15 || def.TargetOrder != 50 || def.NormalOrder != 0 {
		t.Errorf("Unexpected default style %+v", def)
	}
}

func TestNewHighlightStyle_ExplicitZeroOrder(t *testing.T) {
	zero, below := 0, -2
	style := NewHighlightStyle(config.HighlightConfig{TargetSortingOrder: &zero, NormalSortingOrder: &below})
	if style.TargetOrder != 0 || style.NormalOrder != -2 {
		t.Errorf("Expected orders 0/-2, got %d/%d", style.TargetOrder, style.NormalOrder)
	}
}

func assertHighlighted(t *testing.T, em *ecs.EntityManager, id ecs.EntityID, want bool, style HighlightStyle) {
	t.Helper()
	item, _ := ecs.GetComponent[*components.CollectibleComponent](em, id)
	click, _ := ecs.GetComponent[*components.ClickableComponent](em, id)
	scale, _ := ecs.GetComponent[*components.ScaleComponent](em, id)
	tint, _ := ecs.GetComponent[*components.TintComponent](em, id)

	if item.IsTarget != want || click.IsEnabled != want {
		t.Errorf("Entity %d: IsTarget=%v IsEnabled=%v, want %v", id, item.IsTarget, click.IsEnabled, want)
	}
	wantScale, wantOrder, wantColor := 1.0, style.NormalOrder, style.NormalColor
	if want {
		wantScale, wantOrder, wantColor = style.TargetScale, style.TargetOrder, style.TargetColor
	}
	if scale.ScaleX != wantScale || scale.ScaleY != wantScale {
		t.Errorf("Entity %d: scale %v/%v, want %v", id, scale.ScaleX, scale.ScaleY, wantScale)
	}
	if tint.SortingOrder != wantOrder || tint.Color != wantColor {
		t.Errorf("Entity %d: tint %+v, want order %d colour %v", id, tint, wantOrder, wantColor)
	}
}
