package config

// 布局配置常量
// 屏幕坐标（像素），原点在窗口左上角

const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 800
	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 600

	// HUDHeight 对局区域上方留给标题、计分、计时的高度
	HUDHeight = 72.0

	// PlayfieldMargin 对局区域与弹窗边缘的距离
	PlayfieldMargin = 24.0

	// ItemRadiusPixels 物品最小绘制半径，避免缩放很小时看不见
	ItemRadiusPixels = 6.0
)

// PlayfieldRect 在弹窗矩形内计算对局区域（去掉 HUD 和边距）
// 返回：x, y, w, h
func PlayfieldRect(popupX, popupY, popupW, popupH float64) (float64, float64, float64, float64) {
	x := popupX + PlayfieldMargin
	y := popupY + HUDHeight
	w := popupW - 2*PlayfieldMargin
	h := popupH - HUDHeight - PlayfieldMargin
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return x, y, w, h
}
