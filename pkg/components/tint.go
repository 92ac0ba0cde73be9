package components

import "image/color"

// TintComponent 渲染染色和排序
// SortingOrder 越大越后绘制（显示在上层）
type TintComponent struct {
	Color        color.RGBA
	SortingOrder int
}
