package modules

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/decker502/trashcollector/pkg/game"
	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// PopupView 弹窗当前显示的内容
type PopupView int

const (
	// PopupClosed 弹窗关闭
	PopupClosed PopupView = iota
	// PopupReady 弹窗打开，等待开始（已锁定时只能关闭）
	PopupReady
	// PopupPlaying 对局进行中，按钮隐藏
	PopupPlaying
	// PopupEnded 对局结束，显示结果和汇总，只能关闭
	PopupEnded
)

func (v PopupView) String() string {
	switch v {
	case PopupClosed:
		return "Closed"
	case PopupReady:
		return "Ready"
	case PopupPlaying:
		return "Playing"
	case PopupEnded:
		return "Ended"
	default:
		return fmt.Sprintf("PopupView(%d)", int(v))
	}
}

// NoItemsRecordedText 汇总为空时显示的行
const NoItemsRecordedText = "No items recorded"

// 弹窗布局（屏幕坐标）
const (
	popupButtonWidth  = 120
	popupButtonHeight = 36
	popupPadding      = 24
)

// MiniGamePopupModule 收集小游戏弹窗
//
// 打开（M 键）后可以开始一局；一局结束后显示结果和汇总，
// 并永久锁定（Start 隐藏，只能关闭）。锁定状态通过 RecordManager 持久化。
//
// 模块只负责弹窗状态和绘制，对局本身由场景驱动。
type MiniGamePopupModule struct {
	records *game.RecordManager
	onStart func() error

	view     PopupView
	endTitle string
	rows     []string

	// 窗口矩形
	x, y, width, height float64
}

// NewMiniGamePopupModule 创建弹窗模块
//
// 参数:
//   - records: 记录管理器（提供锁定状态，可为降级模式）
//   - onStart: 点击 Start 时调用，由场景启动对局
//   - windowWidth, windowHeight: 游戏窗口尺寸
func NewMiniGamePopupModule(records *game.RecordManager, onStart func() error, windowWidth, windowHeight int) *MiniGamePopupModule {
	w := float64(windowWidth) * 0.9
	h := float64(windowHeight) * 0.9
	return &MiniGamePopupModule{
		records: records,
		onStart: onStart,
		view:    PopupClosed,
		x:       (float64(windowWidth) - w) / 2,
		y:       (float64(windowHeight) - h) / 2,
		width:   w,
		height:  h,
	}
}

// View 当前显示内容
func (m *MiniGamePopupModule) View() PopupView { return m.view }

// IsOpen 弹窗是否打开
func (m *MiniGamePopupModule) IsOpen() bool { return m.view != PopupClosed }

// IsLocked 是否已永久锁定
func (m *MiniGamePopupModule) IsLocked() bool { return m.records.IsPopupLocked() }

// CanStart Start 按钮是否可见
func (m *MiniGamePopupModule) CanStart() bool {
	return m.view == PopupReady && !m.IsLocked()
}

// CanClose Close 按钮是否可见
func (m *MiniGamePopupModule) CanClose() bool {
	return m.view == PopupReady || m.view == PopupEnded
}

// SummaryRows 汇总行
func (m *MiniGamePopupModule) SummaryRows() []string {
	return append([]string(nil), m.rows...)
}

// EndTitle 结束标题，未结束时为空
func (m *MiniGamePopupModule) EndTitle() string { return m.endTitle }

// Open 打开弹窗（已打开时忽略）
// 已锁定时显示上一局的记录
func (m *MiniGamePopupModule) Open() {
	if m.IsOpen() {
		return
	}
	m.view = PopupReady
	m.endTitle = ""
	m.rows = nil

	if last, ok := m.records.LastRound(); ok && m.IsLocked() {
		m.endTitle = fmt.Sprintf("Last round: %s - Collected: %d/%d", last.Status, last.Collected, last.TargetCount)
		m.rows = FormatSummaryRows(last.Summary)
	}
	log.Printf("[MiniGamePopup] Opened (locked=%v)", m.IsLocked())
}

// Start 开始一局
// 返回是否真的开始了
func (m *MiniGamePopupModule) Start() bool {
	if !m.CanStart() {
		return false
	}
	if m.onStart != nil {
		if err := m.onStart(); err != nil {
			log.Printf("[MiniGamePopup] ERROR: failed to start round: %v", err)
			m.endTitle = "Could not start round"
			m.rows = []string{err.Error()}
			return false
		}
	}
	// 目标数为 0 或一个物品都没生成时，对局在启动过程中就已结束
	if m.view == PopupEnded {
		return true
	}
	m.view = PopupPlaying
	m.endTitle = ""
	m.rows = nil
	return true
}

// Close 关闭弹窗（进行中不可关闭）
func (m *MiniGamePopupModule) Close() bool {
	if !m.CanClose() {
		return false
	}
	m.view = PopupClosed
	m.endTitle = ""
	m.rows = nil
	return true
}

// OnRoundEnded 对局结束：显示结果、锁定弹窗并保存记录
func (m *MiniGamePopupModule) OnRoundEnded(r *minigame.Round) {
	snap := r.Snapshot()
	m.view = PopupEnded
	m.endTitle = EndTitle(snap)
	m.rows = FormatSummaryRows(r.Summarize())

	if err := m.records.RecordRound(game.NewRoundRecord(r, time.Now())); err != nil {
		log.Printf("[MiniGamePopup] Warning: failed to save record: %v", err)
	}
}

// HandleClick 处理屏幕点击，返回是否点中了按钮
func (m *MiniGamePopupModule) HandleClick(px, py int) bool {
	if m.CanStart() {
		bx, by := m.startButtonRect()
		if utils.InRect(px, py, bx, by, popupButtonWidth, popupButtonHeight) {
			return m.Start()
		}
	}
	if m.CanClose() {
		bx, by := m.closeButtonRect()
		if utils.InRect(px, py, bx, by, popupButtonWidth, popupButtonHeight) {
			return m.Close()
		}
	}
	return false
}

// Bounds 窗口矩形（场景用它放置对局区域）
func (m *MiniGamePopupModule) Bounds() (x, y, w, h float64) {
	return m.x, m.y, m.width, m.height
}

func (m *MiniGamePopupModule) startButtonRect() (float64, float64) {
	return m.x + m.width/2 - popupButtonWidth - 8, m.y + m.height - popupPadding - popupButtonHeight
}

func (m *MiniGamePopupModule) closeButtonRect() (float64, float64) {
	if !m.CanStart() {
		return m.x + m.width/2 - popupButtonWidth/2, m.y + m.height - popupPadding - popupButtonHeight
	}
	return m.x + m.width/2 + 8, m.y + m.height - popupPadding - popupButtonHeight
}

// Draw 绘制遮罩、窗口背景、结果和按钮
// 对局进行中只绘制透明窗口，物品和 HUD 由场景绘制
func (m *MiniGamePopupModule) Draw(screen *ebiten.Image) {
	if !m.IsOpen() {
		return
	}

	sw := float32(screen.Bounds().Dx())
	sh := float32(screen.Bounds().Dy())
	if m.view != PopupPlaying {
		vector.DrawFilledRect(screen, 0, 0, sw, sh, color.RGBA{A: 140}, false)
		vector.DrawFilledRect(screen, float32(m.x), float32(m.y), float32(m.width), float32(m.height),
			color.RGBA{R: 40, G: 40, B: 40, A: 77}, false)
	}
	vector.StrokeRect(screen, float32(m.x), float32(m.y), float32(m.width), float32(m.height), 2,
		color.RGBA{R: 220, G: 220, B: 220, A: 255}, false)

	tx := int(m.x) + popupPadding
	ty := int(m.y) + popupPadding
	if m.view != PopupPlaying {
		ebitenutil.DebugPrintAt(screen, TitleText, tx, ty)
	}
	if m.endTitle != "" {
		ebitenutil.DebugPrintAt(screen, m.endTitle, tx, ty+24)
	}
	for i, row := range m.rows {
		ebitenutil.DebugPrintAt(screen, row, tx, ty+56+i*18)
	}

	if m.CanStart() {
		bx, by := m.startButtonRect()
		drawButton(screen, bx, by, "Start")
	}
	if m.CanClose() {
		bx, by := m.closeButtonRect()
		drawButton(screen, bx, by, "Close")
	}
}

func drawButton(screen *ebiten.Image, x, y float64, label string) {
	vector.DrawFilledRect(screen, float32(x), float32(y), popupButtonWidth, popupButtonHeight,
		color.RGBA{R: 70, G: 110, B: 70, A: 255}, false)
	vector.StrokeRect(screen, float32(x), float32(y), popupButtonWidth, popupButtonHeight, 1,
		color.RGBA{R: 230, G: 230, B: 230, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, label, int(x)+popupButtonWidth/2-len(label)*3, int(y)+popupButtonHeight/2-8)
}

// ========== HUD 文本 ==========

// TitleText 小游戏标题
const TitleText = "Trash Collector"

// CollectedText "Collected: x/y"
func CollectedText(snap minigame.RoundSnapshot) string {
	return fmt.Sprintf("Collected: %d/%d", snap.Collected, snap.TargetCount)
}

// TimerText "Time: n"，剩余时间向上取整
func TimerText(snap minigame.RoundSnapshot) string {
	return fmt.Sprintf("Time: %d", int(math.Ceil(snap.Remaining)))
}

// EndTitle 结束标题
func EndTitle(snap minigame.RoundSnapshot) string {
	switch snap.Status {
	case minigame.RoundWon:
		return fmt.Sprintf("You Win - Collected: %d/%d", snap.Collected, snap.TargetCount)
	case minigame.RoundLost:
		return fmt.Sprintf("Game Over - Collected: %d/%d", snap.Collected, snap.TargetCount)
	default:
		return ""
	}
}

// FormatSummaryRows 汇总行 "tag x count"，为空时返回一行 NoItemsRecordedText
func FormatSummaryRows(summary []minigame.TallyEntry) []string {
	if len(summary) == 0 {
		return []string{NoItemsRecordedText}
	}
	rows := make([]string, len(summary))
	for i, e := range summary {
		rows[i] = fmt.Sprintf("%s x %d", e.AssetTag, e.Count)
	}
	return rows
}
