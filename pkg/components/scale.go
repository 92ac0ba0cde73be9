package components

// ScaleComponent 存储实体级别的缩放因子
// 当前目标放大显示（默认 1.15），其余物品为 1.0
type ScaleComponent struct {
	// ScaleX X轴缩放因子（1.0 = 原始大小）
	ScaleX float64

	// ScaleY Y轴缩放因子（1.0 = 原始大小）
	ScaleY float64
}

// Uniform 设置等比缩放
func (s *ScaleComponent) Uniform(v float64) {
	s.ScaleX = v
	s.ScaleY = v
}
