package components

// ClickableComponent 标记实体可以被指针选中
// 可点击区域是以 PositionComponent 为中心的矩形（世界单位）
type ClickableComponent struct {
	Width     float64 // 可点击区域的宽度
	Height    float64 // 可点击区域的高度
	IsEnabled bool    // 是否响应点击（只有当前目标是启用的）
}

// Contains 判断世界坐标点是否落在以 (cx, cy) 为中心的可点击区域内
func (c *ClickableComponent) Contains(cx, cy, x, y float64) bool {
	halfW := c.Width / 2
	halfH := c.Height / 2
	return x >= cx-halfW && x <= cx+halfW && y >= cy-halfH && y <= cy+halfH
}
