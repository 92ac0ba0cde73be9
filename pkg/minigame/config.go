package minigame

import (
	"fmt"
	"math"

	"github.com/decker502/trashcollector/pkg/types"
)

// Vec2 世界坐标中的二维点
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// DistSq 返回到另一点的距离平方
func (v Vec2) DistSq(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Rect 轴对齐矩形（Min 为左下角，Max 为右上角）
type Rect struct {
	Min Vec2 `yaml:"min"`
	Max Vec2 `yaml:"max"`
}

// Width 矩形宽度
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height 矩形高度
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// IsUsable 宽高都是有限正数（角点为 NaN/Inf 或范围溢出时不可用）
func (r Rect) IsUsable() bool {
	w, h := r.Width(), r.Height()
	return w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0)
}

// Contains 点是否落在矩形内（含边界）
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// RoundConfig 单局配置，在 StartRound 时传入，整局不可变
type RoundConfig struct {
	// TargetCount 需要收集的物品数量（也是生成数量）
	TargetCount int
	// Weights 各类别权重（非负），缺省的类别视为 0
	Weights map[types.ItemCategory]float64
	// SpawnArea 生成区域
	SpawnArea Rect
	// MinSeparation 物品间的最小间距
	MinSeparation float64
	// MaxAttempts 每个物品最多采样次数
	MaxAttempts int
	// TimeLimit 时间限制（秒）
	TimeLimit float64

	// Guaranteed 每局恰好出现一次的保底类别
	Guaranteed types.ItemCategory
	// Fallback 权重总和为 0 时使用的类别；CategoryNone 表示没有回退
	Fallback types.ItemCategory
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
}

// DefaultRoundConfig 返回默认对局参数
func DefaultRoundConfig() RoundConfig {
	return RoundConfig{
		TargetCount: 25,
		Weights: map[types.ItemCategory]float64{
			types.CategoryCommon:   6,
			types.CategoryUncommon: 3,
			types.CategoryRare:     0.6,
		},
		SpawnArea:     Rect{Min: Vec2{X: -8, Y: -4}, Max: Vec2{X: 8, Y: 4}},
		MinSeparation: 0.6,
		MaxAttempts:   40,
		TimeLimit:     15,
		Guaranteed:    types.CategoryRare,
		Fallback:      types.CategoryCommon,
	}
}

// drawWeightTotal 参与加权抽样的权重总和（不含保底类别）
func (c RoundConfig) drawWeightTotal() float64 {
	total := 0.0
	for _, cat := range types.AllItemCategories {
		if cat == c.Guaranteed {
			continue
		}
		if w := c.Weights[cat]; w > 0 {
			total += w
		}
	}
	return total
}

// Validate 校验配置，返回 *ConfigError
func (c RoundConfig) Validate() error {
	if c.TargetCount < 0 {
		return newConfigError("targetCount", fmt.Sprintf("must be >= 0, got %d", c.TargetCount))
	}
	if !(c.TimeLimit > 0) || math.IsInf(c.TimeLimit, 0) {
		return newConfigError("timeLimit", fmt.Sprintf("must be > 0, got %v", c.TimeLimit))
	}
	if c.MaxAttempts < 1 {
		return newConfigError("maxAttempts", fmt.Sprintf("must be >= 1, got %d", c.MaxAttempts))
	}
	if !c.SpawnArea.IsUsable() {
		return newConfigError("spawnArea", fmt.Sprintf("degenerate rectangle %v..%v", c.SpawnArea.Min, c.SpawnArea.Max))
	}
	if c.MinSeparation < 0 || math.IsNaN(c.MinSeparation) {
		return newConfigError("minSeparation", fmt.Sprintf("must be >= 0, got %v", c.MinSeparation))
	}
	if !c.Guaranteed.IsValid() {
		return newConfigError("guaranteed", fmt.Sprintf("unknown category %v", c.Guaranteed))
	}
	for cat, w := range c.Weights {
		if !cat.IsValid() {
			return newConfigError("weights", fmt.Sprintf("unknown category %d", int(cat)))
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return newConfigError("weights", fmt.Sprintf("weight for %s must be a finite value >= 0, got %v", cat, w))
		}
	}
	if c.Fallback != types.CategoryNone {
		if !c.Fallback.IsValid() {
			return newConfigError("fallback", fmt.Sprintf("unknown category %d", int(c.Fallback)))
		}
		if c.Fallback == c.Guaranteed {
			return newConfigError("fallback", "must differ from the guaranteed category")
		}
	}
	if c.drawWeightTotal() <= 0 && c.Fallback == types.CategoryNone && c.TargetCount > 1 {
		return newConfigError("weights", "all weights are zero and no fallback category is defined")
	}
	return nil
}
