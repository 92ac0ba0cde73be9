package components

import "github.com/decker502/trashcollector/pkg/types"

// CollectibleComponent 小游戏中可收集的物品
type CollectibleComponent struct {
	Category types.ItemCategory
	// AssetTag 素材标签，同时用作汇总分组键
	AssetTag string
	// IsTarget 是否为当前目标（由 TargetHighlightSystem 维护）
	IsTarget bool
}
