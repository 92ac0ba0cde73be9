package components

// PositionComponent 世界坐标（Y 轴向上，与生成区域一致）
type PositionComponent struct {
	X float64
	Y float64
}
