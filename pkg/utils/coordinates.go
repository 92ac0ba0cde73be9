// Package utils 提供游戏开发中常用的工具函数
//
// coordinates.go 负责小游戏世界坐标与屏幕坐标之间的转换。
//
// # 坐标系统
//
//   - 世界坐标：生成区域所在的坐标系，Y 轴向上，单位为世界单位
//   - 屏幕坐标：相对于游戏窗口左上角，Y 轴向下，单位为像素
//
// Viewport 把生成区域等比缩放后居中放进屏幕上的一个矩形里，
// 渲染和点击检测都通过它转换，保证两者使用同一套映射。
package utils

import "github.com/decker502/trashcollector/pkg/minigame"

// Viewport 世界矩形到屏幕矩形的等比映射
type Viewport struct {
	world minigame.Rect

	// Scale 每个世界单位对应的像素数
	Scale float64
	// OffsetX, OffsetY 世界矩形左上角（Min.X, Max.Y）在屏幕上的位置
	OffsetX, OffsetY float64
}

// NewViewport 创建映射
//
// 参数：
//   - world: 世界矩形（通常是生成区域，可以外扩一些边距）
//   - screenX, screenY, screenW, screenH: 屏幕上的可用矩形
//
// 世界矩形退化时返回 Scale 为 1 的映射
func NewViewport(world minigame.Rect, screenX, screenY, screenW, screenH float64) Viewport {
	v := Viewport{world: world, Scale: 1}
	w, h := world.Width(), world.Height()
	if w > 0 && h > 0 {
		sx := screenW / w
		sy := screenH / h
		v.Scale = sx
		if sy < sx {
			v.Scale = sy
		}
	}
	// 居中
	v.OffsetX = screenX + (screenW-w*v.Scale)/2
	v.OffsetY = screenY + (screenH-h*v.Scale)/2
	return v
}

// WorldToScreen 世界坐标 -> 屏幕坐标
func (v Viewport) WorldToScreen(x, y float64) (float64, float64) {
	sx := v.OffsetX + (x-v.world.Min.X)*v.Scale
	sy := v.OffsetY + (v.world.Max.Y-y)*v.Scale
	return sx, sy
}

// ScreenToWorld 屏幕坐标 -> 世界坐标
func (v Viewport) ScreenToWorld(sx, sy float64) (float64, float64) {
	x := v.world.Min.X + (sx-v.OffsetX)/v.Scale
	y := v.world.Max.Y - (sy-v.OffsetY)/v.Scale
	return x, y
}

// WorldLength 世界长度 -> 像素长度
func (v Viewport) WorldLength(l float64) float64 {
	return l * v.Scale
}
