package config

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"sort"

	"github.com/decker502/trashcollector/pkg/embedded"
	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultMiniGameConfigPath 默认配置文件路径（嵌入资源中同名）
const DefaultMiniGameConfigPath = "data/minigame.yaml"

// MiniGameConfig 收集小游戏配置
//
// 配置文件位置: data/minigame.yaml
type MiniGameConfig struct {
	// Round 对局参数
	Round RoundSection `yaml:"round"`

	// Prefabs 类别名 -> 素材标签列表
	// 键接受 common/uncommon/rare 以及别名 food/trash/collectible
	Prefabs map[string][]string `yaml:"prefabs"`

	// Highlight 当前目标的高亮样式
	Highlight HighlightConfig `yaml:"highlight"`
}

// RoundSection 对局参数（YAML 形式）
//
// 数值字段使用指针，用来区分"未配置"和显式写出的 0（非法的 0 交给校验报错）
type RoundSection struct {
	TargetCount   *int               `yaml:"targetCount"`
	TimeLimit     *float64           `yaml:"timeLimit"`
	MinSeparation *float64           `yaml:"minSeparation"`
	MaxAttempts   int                `yaml:"maxAttempts"`
	SpawnArea     *minigame.Rect     `yaml:"spawnArea"`
	Weights       map[string]float64 `yaml:"weights"`
	Guaranteed    string             `yaml:"guaranteed"`
	// Fallback 为 "none" 表示不回退
	Fallback string `yaml:"fallback"`
	Seed     int64  `yaml:"seed"`
}

// RGBA YAML 友好的颜色
type RGBA struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// Color 转换为 image/color
func (c RGBA) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// HighlightConfig 目标高亮样式
//
// 排序值使用指针：0 是合法的层级
type HighlightConfig struct {
	TargetColor        *RGBA   `yaml:"targetColor"`
	NormalColor        *RGBA   `yaml:"normalColor"`
	TargetScale        float64 `yaml:"targetScale"`
	TargetSortingOrder *int    `yaml:"targetSortingOrder"`
	NormalSortingOrder *int    `yaml:"normalSortingOrder"`
}

// LoadRoundConfig 从 YAML 文件加载小游戏配置
// 参数：
//
//	path - 配置文件路径
//
// 返回：
//
//	*MiniGameConfig - 已填充默认值并通过校验的配置
//	error - 读取、解析或校验失败
func LoadRoundConfig(path string) (*MiniGameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read minigame config file %s: %w", path, err)
	}

	cfg, err := ParseRoundConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseRoundConfig 从 YAML 数据解析小游戏配置（用于嵌入资源）
func ParseRoundConfig(data []byte) (*MiniGameConfig, error) {
	var cfg MiniGameConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse minigame config YAML: %w", err)
	}

	applyRoundDefaults(&cfg)

	if err := validateRoundConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid minigame config: %w", err)
	}
	return &cfg, nil
}

// ResolveMiniGameConfig 按优先级查找并加载小游戏配置
//
// 查找顺序：
//  1. path 非空时只读取该文件，失败直接返回错误
//  2. 嵌入资源中的 DefaultMiniGameConfigPath（需要先 embedded.Init）
//  3. 工作目录下的 DefaultMiniGameConfigPath
//  4. 内置默认值
func ResolveMiniGameConfig(path string) (*MiniGameConfig, error) {
	if path != "" {
		return LoadRoundConfig(path)
	}

	if embedded.Exists(DefaultMiniGameConfigPath) {
		data, err := embedded.ReadFile(DefaultMiniGameConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded minigame config: %w", err)
		}
		log.Printf("[Config] Loaded embedded %s", DefaultMiniGameConfigPath)
		return ParseRoundConfig(data)
	}

	if _, err := os.Stat(DefaultMiniGameConfigPath); err == nil {
		log.Printf("[Config] Loaded %s", DefaultMiniGameConfigPath)
		return LoadRoundConfig(DefaultMiniGameConfigPath)
	}

	log.Printf("[Config] No minigame config found, using built-in defaults")
	return DefaultMiniGameConfig(), nil
}

// DefaultMiniGameConfig 完全由默认值组成的配置
func DefaultMiniGameConfig() *MiniGameConfig {
	cfg := &MiniGameConfig{}
	applyRoundDefaults(cfg)
	return cfg
}

// applyRoundDefaults 为缺失的可选字段设置默认值
// 默认值与 minigame.DefaultRoundConfig 一致
func applyRoundDefaults(cfg *MiniGameConfig) {
	def := minigame.DefaultRoundConfig()
	r := &cfg.Round

	if r.TargetCount == nil {
		n := def.TargetCount
		r.TargetCount = &n
	}
	if r.TimeLimit == nil {
		limit := def.TimeLimit
		r.TimeLimit = &limit
	}
	if r.MinSeparation == nil {
		sep := def.MinSeparation
		r.MinSeparation = &sep
	}
	if r.MaxAttempts == 0 {
		r.MaxAttempts = def.MaxAttempts
	}
	if r.SpawnArea == nil {
		area := def.SpawnArea
		r.SpawnArea = &area
	}
	if r.Weights == nil {
		r.Weights = make(map[string]float64, len(def.Weights))
		for cat, w := range def.Weights {
			r.Weights[cat.String()] = w
		}
	}
	if r.Guaranteed == "" {
		r.Guaranteed = def.Guaranteed.String()
	}
	if r.Fallback == "" {
		r.Fallback = def.Fallback.String()
	}

	// 高亮样式：黄色、放大 1.15、排序 50
	h := &cfg.Highlight
	if h.TargetColor == nil {
		h.TargetColor = &RGBA{R: 255, G: 230, B: 64, A: 255}
	}
	if h.NormalColor == nil {
		h.NormalColor = &RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if h.TargetScale == 0 {
		h.TargetScale = 1.15
	}
	if h.TargetSortingOrder == nil {
		order := 50
		h.TargetSortingOrder = &order
	}
	if h.NormalSortingOrder == nil {
		order := 0
		h.NormalSortingOrder = &order
	}

	// 未配置 prefabs 时每个类别用类别名作为唯一的素材标签
	// 显式写成空表（prefabs: {}）则保持为空，生成时报 ErrNoPrefabs
	if cfg.Prefabs == nil {
		cfg.Prefabs = make(map[string][]string, len(types.AllItemCategories))
		for _, cat := range types.AllItemCategories {
			cfg.Prefabs[cat.String()] = []string{cat.String()}
		}
	}
}

// validateRoundConfig 验证配置的完整性和合法性
func validateRoundConfig(cfg *MiniGameConfig) error {
	rc, err := cfg.ToRoundConfig()
	if err != nil {
		return err
	}
	if err := rc.Validate(); err != nil {
		return err
	}

	for key, tags := range cfg.Prefabs {
		cat, err := types.ParseItemCategory(key)
		if err != nil {
			return fmt.Errorf("prefabs: %w", err)
		}
		if !cat.IsValid() {
			return fmt.Errorf("prefabs: category key %q is not a real category", key)
		}
		for i, tag := range tags {
			if tag == "" {
				return fmt.Errorf("prefabs.%s[%d]: asset tag cannot be empty", key, i)
			}
		}
	}

	if cfg.Highlight.TargetScale <= 0 {
		return fmt.Errorf("highlight.targetScale must be > 0, got %.2f", cfg.Highlight.TargetScale)
	}
	return nil
}

// ToRoundConfig 转换为对局引擎使用的配置
// 只做类别名解析，数值校验由 minigame.RoundConfig.Validate 负责
func (c *MiniGameConfig) ToRoundConfig() (minigame.RoundConfig, error) {
	r := c.Round
	rc := minigame.RoundConfig{
		MaxAttempts: r.MaxAttempts,
		Seed:        r.Seed,
		Weights:     make(map[types.ItemCategory]float64, len(r.Weights)),
	}
	if r.TargetCount != nil {
		rc.TargetCount = *r.TargetCount
	}
	if r.TimeLimit != nil {
		rc.TimeLimit = *r.TimeLimit
	}
	if r.MinSeparation != nil {
		rc.MinSeparation = *r.MinSeparation
	}
	if r.SpawnArea != nil {
		rc.SpawnArea = *r.SpawnArea
	}

	for key, w := range r.Weights {
		cat, err := types.ParseItemCategory(key)
		if err != nil {
			return rc, fmt.Errorf("round.weights: %w", err)
		}
		if !cat.IsValid() {
			return rc, fmt.Errorf("round.weights: category key %q is not a real category", key)
		}
		rc.Weights[cat] += w
	}

	var err error
	if rc.Guaranteed, err = types.ParseItemCategory(r.Guaranteed); err != nil {
		return rc, fmt.Errorf("round.guaranteed: %w", err)
	}
	if rc.Fallback, err = types.ParseItemCategory(r.Fallback); err != nil {
		return rc, fmt.Errorf("round.fallback: %w", err)
	}
	return rc, nil
}

// PrefabsByCategory 按类别整理素材标签
// 别名合并时按键名排序，保证同一种子下挑选结果一致
func (c *MiniGameConfig) PrefabsByCategory() map[types.ItemCategory][]string {
	keys := make([]string, 0, len(c.Prefabs))
	for key := range c.Prefabs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[types.ItemCategory][]string, len(types.AllItemCategories))
	for _, key := range keys {
		cat, err := types.ParseItemCategory(key)
		if err != nil || !cat.IsValid() {
			continue
		}
		out[cat] = append(out[cat], c.Prefabs[key]...)
	}
	return out
}
