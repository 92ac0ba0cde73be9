// Package terminal 提供基于 tcell 的收集小游戏终端前端
//
// 物品以类别字母显示，当前目标高亮。鼠标点击或方向键 + Enter 选择物品，
// 空格或 s 开始一局，q 或 Esc 退出。
package terminal

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/decker502/trashcollector/pkg/components"
	"github.com/decker502/trashcollector/pkg/config"
	"github.com/decker502/trashcollector/pkg/ecs"
	"github.com/decker502/trashcollector/pkg/entities"
	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/modules"
	"github.com/decker502/trashcollector/pkg/systems"
	"github.com/decker502/trashcollector/pkg/types"
	"github.com/gdamore/tcell/v2"
)

// 布局（终端单元格）
const (
	hudRows    = 2 // 标题行 + 分隔行
	footerRows = 1
	frameTime  = 16 * time.Millisecond
)

const helpText = "space/s: start  click or arrows+Enter: collect  q/Esc: quit"

// Chime 收集和结束时的提示音
type Chime interface {
	Collect()
	RoundEnded(status minigame.RoundStatus)
}

// NopChime 静音
type NopChime struct{}

// Collect 无声
func (NopChime) Collect() {}

// RoundEnded 无声
func (NopChime) RoundEnded(minigame.RoundStatus) {}

// 类别字母
var categoryGlyphs = map[types.ItemCategory]rune{
	types.CategoryCommon:   'c',
	types.CategoryUncommon: 'u',
	types.CategoryRare:     'r',
}

var categoryStyles = map[types.ItemCategory]tcell.Style{
	types.CategoryCommon:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
	types.CategoryUncommon: tcell.StyleDefault.Foreground(tcell.ColorBlue),
	types.CategoryRare:     tcell.StyleDefault.Foreground(tcell.ColorPurple),
}

// Frontend 终端前端
//
// 与 ebiten 场景共用 ECS 工厂、拾取系统和高亮系统；
// 每帧先提交本帧收集到的选择，再推进计时器。
type Frontend struct {
	screen tcell.Screen
	chime  Chime

	entityManager *ecs.EntityManager
	round         *minigame.Round
	driver        *minigame.Driver
	pickSystem    *systems.ItemPickSystem
	roundConfig   minigame.RoundConfig

	pending     []ecs.EntityID
	cursorX     int
	cursorY     int
	lastButtons tcell.ButtonMask

	endTitle string
	rows     []string
}

// NewFrontend 创建终端前端
//
// 参数:
//   - screen: 已 Init 的 tcell 屏幕（测试中使用 SimulationScreen）
//   - cfg: 小游戏配置
//   - seed: 非 0 时覆盖配置中的种子
//   - chime: 提示音，nil 表示静音
func NewFrontend(screen tcell.Screen, cfg *config.MiniGameConfig, seed int64, chime Chime) (*Frontend, error) {
	roundConfig, err := cfg.ToRoundConfig()
	if err != nil {
		return nil, err
	}
	if seed != 0 {
		roundConfig.Seed = seed
	}
	if chime == nil {
		chime = NopChime{}
	}

	prefabSeed := roundConfig.Seed
	if prefabSeed == 0 {
		prefabSeed = time.Now().UnixNano()
	}

	em := ecs.NewEntityManager()
	factory := entities.NewCollectibleFactory(em, cfg.PrefabsByCategory(), rand.New(rand.NewSource(prefabSeed)))
	highlight := systems.NewTargetHighlightSystem(em, systems.NewHighlightStyle(cfg.Highlight))

	f := &Frontend{
		screen:        screen,
		chime:         chime,
		entityManager: em,
		round:         minigame.NewRound(factory),
		pickSystem:    systems.NewItemPickSystem(em),
		roundConfig:   roundConfig,
	}
	f.driver = minigame.NewDriver(f.round)
	f.round.OnTargetChanged(highlight.OnTargetChanged)
	f.round.OnRoundEnded(f.onRoundEnded)

	w, h := screen.Size()
	f.cursorX, f.cursorY = w/2, hudRows+(h-hudRows-footerRows)/2
	return f, nil
}

// Round 返回前端驱动的对局
func (f *Frontend) Round() *minigame.Round { return f.round }

// Start 开始新的一局（进行中时忽略）
func (f *Frontend) Start() error {
	if f.round.Status() == minigame.RoundRunning {
		return nil
	}
	f.endTitle = ""
	f.rows = nil
	f.pending = f.pending[:0]
	if err := f.round.StartRound(f.roundConfig); err != nil {
		f.endTitle = "Could not start round"
		f.rows = []string{err.Error()}
		return fmt.Errorf("start round: %w", err)
	}
	return nil
}

func (f *Frontend) onRoundEnded(status minigame.RoundStatus) {
	f.endTitle = modules.EndTitle(f.round.Snapshot())
	f.rows = modules.FormatSummaryRows(f.round.Summarize())
	f.chime.RoundEnded(status)
}

// HandleEvent 处理一个 tcell 事件，返回 false 表示退出
func (f *Frontend) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return f.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		buttons := ev.Buttons()
		// 只响应按下的边沿
		if buttons&tcell.Button1 != 0 && f.lastButtons&tcell.Button1 == 0 {
			x, y := ev.Position()
			f.HandleClick(x, y)
		}
		f.lastButtons = buttons
	case *tcell.EventResize:
		f.screen.Sync()
		f.clampCursor()
	}
	return true
}

// HandleKey 处理按键，返回 false 表示退出
func (f *Frontend) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		f.HandleClick(f.cursorX, f.cursorY)
	case tcell.KeyUp:
		f.cursorY--
	case tcell.KeyDown:
		f.cursorY++
	case tcell.KeyLeft:
		f.cursorX--
	case tcell.KeyRight:
		f.cursorX++
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return false
		case ' ', 's', 'S':
			if err := f.Start(); err != nil {
				log.Printf("[Terminal] ERROR: %v", err)
			}
		}
	}
	f.clampCursor()
	return true
}

// HandleClick 把单元格 (x, y) 解析为物品并加入本帧的选择
func (f *Frontend) HandleClick(x, y int) {
	if f.round.Status() != minigame.RoundRunning {
		return
	}
	if id := f.itemAtCell(x, y); id != ecs.InvalidEntity {
		f.pending = append(f.pending, id)
	}
}

// Step 推进一帧：先提交选择，再推进计时器
func (f *Frontend) Step(dt float64) minigame.SelectOutcome {
	outcome := minigame.SelectIgnored
	if f.round.Status() == minigame.RoundRunning {
		outcome = f.driver.Frame(dt, f.pending...)
		if outcome == minigame.SelectCollected || outcome == minigame.SelectWon {
			f.chime.Collect()
		}
	}
	f.pending = f.pending[:0]
	f.entityManager.RemoveMarkedEntities()
	return outcome
}

// Run 事件循环，直到退出或 ctx 取消
func (f *Frontend) Run(ctx context.Context) error {
	f.screen.EnableMouse()
	defer f.screen.DisableMouse()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				// 屏幕已 Fini
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !f.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			f.Step(now.Sub(last).Seconds())
			last = now
			f.Draw()
		}
	}
}

// Draw 绘制 HUD、物品和底部帮助
func (f *Frontend) Draw() {
	f.screen.Clear()
	w, h := f.screen.Size()

	snap := f.round.Snapshot()
	hud := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	drawText(f.screen, 0, 0, hud, modules.TitleText)
	if snap.Status != minigame.RoundIdle {
		drawText(f.screen, len(modules.TitleText)+3, 0, hud, modules.CollectedText(snap))
		drawText(f.screen, len(modules.TitleText)+20, 0, hud, modules.TimerText(snap))
	}
	for x := 0; x < w; x++ {
		f.screen.SetContent(x, 1, '─', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}

	f.drawItems()

	if f.endTitle != "" {
		drawText(f.screen, 2, hudRows+1, tcell.StyleDefault.Bold(true), f.endTitle)
		for i, row := range f.rows {
			drawText(f.screen, 4, hudRows+3+i, tcell.StyleDefault, row)
		}
	}

	f.screen.SetContent(f.cursorX, f.cursorY, '+', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true))
	drawText(f.screen, 0, h-1, tcell.StyleDefault.Foreground(tcell.ColorGray), helpText)
	f.screen.Show()
}

func (f *Frontend) drawItems() {
	ids := f.liveItems()
	for _, id := range ids {
		item, _ := ecs.GetComponent[*components.CollectibleComponent](f.entityManager, id)
		x, y, ok := f.CellOf(id)
		if !ok {
			continue
		}

		glyph := categoryGlyphs[item.Category]
		style := categoryStyles[item.Category]
		if item.IsTarget {
			tint, _ := ecs.GetComponent[*components.TintComponent](f.entityManager, id)
			glyph = toUpper(glyph)
			style = tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(tint.Color.R), int32(tint.Color.G), int32(tint.Color.B))).
				Bold(true).Reverse(true)
		}
		f.screen.SetContent(x, y, glyph, nil, style)
	}
}

// liveItems 按排序值升序返回存活物品，目标在最后
func (f *Frontend) liveItems() []ecs.EntityID {
	ids := ecs.GetEntitiesWith3[
		*components.PositionComponent,
		*components.CollectibleComponent,
		*components.TintComponent,
	](f.entityManager)
	sort.SliceStable(ids, func(i, j int) bool {
		ti, _ := ecs.GetComponent[*components.TintComponent](f.entityManager, ids[i])
		tj, _ := ecs.GetComponent[*components.TintComponent](f.entityManager, ids[j])
		return ti.SortingOrder < tj.SortingOrder
	})
	return ids
}

// playfield 物品区域（单元格）
func (f *Frontend) playfield() (x, y, w, h int) {
	sw, sh := f.screen.Size()
	return 1, hudRows, max(sw-2, 1), max(sh-hudRows-footerRows, 1)
}

// CellOf 物品所在单元格
func (f *Frontend) CellOf(id ecs.EntityID) (int, int, bool) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](f.entityManager, id)
	if !ok {
		return 0, 0, false
	}
	x, y := f.worldToCell(pos.X, pos.Y)
	return x, y, true
}

// worldToCell 世界坐标（Y 向上）映射到单元格（Y 向下）
func (f *Frontend) worldToCell(wx, wy float64) (int, int) {
	area := f.roundConfig.SpawnArea
	px, py, pw, ph := f.playfield()
	fx := (wx - area.Min.X) / nonZero(area.Width())
	fy := (area.Max.Y - wy) / nonZero(area.Height())
	return px + int(math.Round(fx*float64(pw-1))), py + int(math.Round(fy*float64(ph-1)))
}

func (f *Frontend) cellToWorld(cx, cy int) (float64, float64) {
	area := f.roundConfig.SpawnArea
	px, py, pw, ph := f.playfield()
	fx := float64(cx-px) / nonZero(float64(pw-1))
	fy := float64(cy-py) / nonZero(float64(ph-1))
	return area.Min.X + fx*area.Width(), area.Max.Y - fy*area.Height()
}

// itemAtCell 先按世界坐标拾取，单元格比物品大时退回到同格查找
func (f *Frontend) itemAtCell(cx, cy int) ecs.EntityID {
	wx, wy := f.cellToWorld(cx, cy)
	if id := f.pickSystem.PickAt(wx, wy); id != ecs.InvalidEntity {
		return id
	}

	hit := ecs.InvalidEntity
	for _, id := range f.liveItems() {
		clickable, ok := ecs.GetComponent[*components.ClickableComponent](f.entityManager, id)
		if !ok || !clickable.IsEnabled {
			continue
		}
		if x, y, ok := f.CellOf(id); ok && x == cx && y == cy {
			hit = id
		}
	}
	return hit
}

func (f *Frontend) clampCursor() {
	px, py, pw, ph := f.playfield()
	f.cursorX = min(max(f.cursorX, px), px+pw-1)
	f.cursorY = min(max(f.cursorY, py), py+ph-1)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
