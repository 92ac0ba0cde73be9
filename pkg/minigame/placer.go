package minigame

import (
	"fmt"
	"math/rand"

	"github.com/decker502/trashcollector/pkg/types"
)

// PlacementStats 一次放置的统计
type PlacementStats struct {
	// Samples 总采样次数
	Samples int
	// Relaxed 采样次数耗尽、接受了过近位置的物品数
	Relaxed int
}

// PlacePositions 为规划好的物品在矩形内分配位置
//
// 每个物品最多做 maxAttempts 次均匀采样，第一个与所有已接受位置
// 距离 >= minSeparation 的采样被接受；全部失败时接受最后一次采样。
// 放置永远不会因为拥挤而失败或阻塞。
//
// 矩形面积 <= 0、范围不是有限值或 maxAttempts < 1 时返回 *ConfigError，且不放置任何物品。
func PlacePositions(rng *rand.Rand, kinds []types.ItemCategory, area Rect, minSeparation float64, maxAttempts int) ([]Vec2, PlacementStats, error) {
	var stats PlacementStats

	if !area.IsUsable() {
		return nil, stats, newConfigError("spawnArea", fmt.Sprintf("degenerate rectangle %v..%v", area.Min, area.Max))
	}
	if maxAttempts < 1 {
		return nil, stats, newConfigError("maxAttempts", fmt.Sprintf("must be >= 1, got %d", maxAttempts))
	}

	minSq := minSeparation * minSeparation
	placed := make([]Vec2, 0, len(kinds))

	for range kinds {
		var pos Vec2
		tries := 0
		for {
			pos = Vec2{
				X: area.Min.X + rng.Float64()*area.Width(),
				Y: area.Min.Y + rng.Float64()*area.Height(),
			}
			tries++
			if !tooClose(pos, placed, minSq) {
				break
			}
			if tries >= maxAttempts {
				stats.Relaxed++
				break
			}
		}
		stats.Samples += tries
		placed = append(placed, pos)
	}

	return placed, stats, nil
}

// tooClose 检查 p 是否与任一已放置位置的距离平方小于 minSq
func tooClose(p Vec2, placed []Vec2, minSq float64) bool {
	for _, q := range placed {
		if p.DistSq(q) < minSq {
			return true
		}
	}
	return false
}
