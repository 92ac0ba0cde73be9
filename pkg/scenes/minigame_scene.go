package scenes

import (
	"image/color"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/decker502/trashcollector/pkg/components"
	"github.com/decker502/trashcollector/pkg/config"
	"github.com/decker502/trashcollector/pkg/ecs"
	"github.com/decker502/trashcollector/pkg/entities"
	"github.com/decker502/trashcollector/pkg/game"
	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/modules"
	"github.com/decker502/trashcollector/pkg/systems"
	"github.com/decker502/trashcollector/pkg/types"
	"github.com/decker502/trashcollector/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 类别底色
var categoryColors = map[types.ItemCategory]color.RGBA{
	types.CategoryCommon:   {R: 110, G: 190, B: 90, A: 255},
	types.CategoryUncommon: {R: 120, G: 140, B: 170, A: 255},
	types.CategoryRare:     {R: 200, G: 120, B: 220, A: 255},
}

var _ game.Scene = (*MiniGameScene)(nil)

// MiniGameScene 收集小游戏场景
//
// 场景是对局的驱动方：每帧先把点击解析成物品ID，再交给 minigame.Driver
// （先处理选择，再推进计时器）。弹窗、高亮、拾取分别由模块和系统负责。
type MiniGameScene struct {
	entityManager *ecs.EntityManager
	round         *minigame.Round
	driver        *minigame.Driver
	factory       *entities.CollectibleFactory

	pickSystem      *systems.ItemPickSystem
	highlightSystem *systems.TargetHighlightSystem
	popup           *modules.MiniGamePopupModule

	roundConfig minigame.RoundConfig
	viewport    utils.Viewport
}

// NewMiniGameScene 创建小游戏场景
//
// 参数:
//   - cfg: 小游戏配置（已校验）
//   - records: 记录管理器
//   - seed: 非 0 时覆盖配置中的种子（用于复现）
//
// 返回:
//   - *MiniGameScene: 场景实例
//   - error: 配置无法转换时返回错误
func NewMiniGameScene(cfg *config.MiniGameConfig, records *game.RecordManager, seed int64) (*MiniGameScene, error) {
	roundConfig, err := cfg.ToRoundConfig()
	if err != nil {
		return nil, err
	}
	if seed != 0 {
		roundConfig.Seed = seed
	}

	prefabSeed := roundConfig.Seed
	if prefabSeed == 0 {
		prefabSeed = time.Now().UnixNano()
	}

	em := ecs.NewEntityManager()
	factory := entities.NewCollectibleFactory(em, cfg.PrefabsByCategory(), rand.New(rand.NewSource(prefabSeed)))
	style := systems.NewHighlightStyle(cfg.Highlight)
	factory.NormalColor = style.NormalColor

	s := &MiniGameScene{
		entityManager:   em,
		factory:         factory,
		round:           minigame.NewRound(factory),
		pickSystem:      systems.NewItemPickSystem(em),
		highlightSystem: systems.NewTargetHighlightSystem(em, style),
		roundConfig:     roundConfig,
	}
	s.driver = minigame.NewDriver(s.round)
	s.round.OnTargetChanged(s.highlightSystem.OnTargetChanged)
	s.round.OnRoundEnded(func(status minigame.RoundStatus) {
		s.popup.OnRoundEnded(s.round)
	})

	s.popup = modules.NewMiniGamePopupModule(records, s.startRound, config.GameWindowWidth, config.GameWindowHeight)

	px, py, pw, ph := s.popup.Bounds()
	fx, fy, fw, fh := config.PlayfieldRect(px, py, pw, ph)
	s.viewport = utils.NewViewport(roundConfig.SpawnArea, fx, fy, fw, fh)

	log.Printf("[MiniGameScene] Created (target=%d timeLimit=%.1fs seed=%d)",
		roundConfig.TargetCount, roundConfig.TimeLimit, roundConfig.Seed)
	return s, nil
}

// Round 返回场景驱动的对局
func (s *MiniGameScene) Round() *minigame.Round { return s.round }

// Popup 返回弹窗模块
func (s *MiniGameScene) Popup() *modules.MiniGamePopupModule { return s.popup }

func (s *MiniGameScene) startRound() error {
	return s.round.StartRound(s.roundConfig)
}

// Update 每帧更新
func (s *MiniGameScene) Update(deltaTime float64) {
	if utils.IsAnyKeyJustPressed(ebiten.KeyM) {
		s.popup.Open()
	}
	if utils.IsAnyKeyJustPressed(ebiten.KeyEnter) && s.popup.CanStart() {
		s.popup.Start()
	}
	if utils.IsAnyKeyJustPressed(ebiten.KeyEscape) && s.popup.CanClose() {
		s.popup.Close()
	}

	var selections []ecs.EntityID
	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked {
		if !s.popup.HandleClick(x, y) && s.round.Status() == minigame.RoundRunning {
			wx, wy := s.viewport.ScreenToWorld(float64(x), float64(y))
			if id := s.pickSystem.PickAt(wx, wy); id != ecs.InvalidEntity {
				selections = append(selections, id)
			}
		}
	}

	if s.round.Status() == minigame.RoundRunning {
		s.driver.Frame(deltaTime, selections...)
	}

	s.entityManager.RemoveMarkedEntities()
}

// Draw 绘制场景
func (s *MiniGameScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 30, G: 60, B: 45, A: 255})

	if !s.popup.IsOpen() {
		ebitenutil.DebugPrintAt(screen, "Press M to open "+modules.TitleText, 16, 16)
		return
	}

	s.popup.Draw(screen)

	if s.popup.View() == modules.PopupPlaying {
		s.drawItems(screen)
		s.drawHUD(screen)
	}
}

func (s *MiniGameScene) drawHUD(screen *ebiten.Image) {
	px, py, _, _ := s.popup.Bounds()
	snap := s.round.Snapshot()
	x := int(px) + 24
	y := int(py) + 16
	ebitenutil.DebugPrintAt(screen, modules.TitleText, x, y)
	ebitenutil.DebugPrintAt(screen, modules.CollectedText(snap), x, y+18)
	ebitenutil.DebugPrintAt(screen, modules.TimerText(snap), x+200, y+18)
}

// drawItems 按排序值绘制物品，当前目标在最上层
func (s *MiniGameScene) drawItems(screen *ebiten.Image) {
	ids := ecs.GetEntitiesWith3[
		*components.PositionComponent,
		*components.CollectibleComponent,
		*components.TintComponent,
	](s.entityManager)

	sort.SliceStable(ids, func(i, j int) bool {
		ti, _ := ecs.GetComponent[*components.TintComponent](s.entityManager, ids[i])
		tj, _ := ecs.GetComponent[*components.TintComponent](s.entityManager, ids[j])
		return ti.SortingOrder < tj.SortingOrder
	})

	for _, id := range ids {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		item, _ := ecs.GetComponent[*components.CollectibleComponent](s.entityManager, id)
		tint, _ := ecs.GetComponent[*components.TintComponent](s.entityManager, id)

		scale := 1.0
		if sc, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id); ok {
			scale = sc.ScaleX
		}
		radius := s.viewport.WorldLength(s.factory.ItemSize/2) * scale
		if radius < config.ItemRadiusPixels {
			radius = config.ItemRadiusPixels
		}

		sx, sy := s.viewport.WorldToScreen(pos.X, pos.Y)
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(radius), categoryColors[item.Category], true)
		vector.StrokeCircle(screen, float32(sx), float32(sy), float32(radius), 2, tint.Color, true)

		if item.IsTarget && item.AssetTag != "" {
			ebitenutil.DebugPrintAt(screen, item.AssetTag, int(sx+radius)+4, int(sy)-8)
		}
	}
}
