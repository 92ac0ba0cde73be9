package minigame

import (
	"math/rand"

	"github.com/decker502/trashcollector/pkg/types"
)

// PlanKinds 为 n 个物品规划类别
//
// 规则：
//  1. 在 [0, n) 中均匀随机选一个位置，强制为保底类别
//  2. 其余位置按权重累积抽样，保底类别不参与抽样，因此结果中保底类别恰好出现一次
//  3. 参与抽样的权重总和 <= 0 时，其余位置全部使用 fallback
//
// 参数：
//   - rng: 随机源（同一种子得到同一规划）
//   - n: 物品数量，<= 0 时返回空序列
//   - weights: 各类别权重
//   - guaranteed: 保底类别
//   - fallback: 退化时的默认类别
func PlanKinds(rng *rand.Rand, n int, weights map[types.ItemCategory]float64, guaranteed, fallback types.ItemCategory) []types.ItemCategory {
	if n <= 0 {
		return []types.ItemCategory{}
	}

	kinds := make([]types.ItemCategory, n)
	guaranteeIndex := rng.Intn(n)
	for i := 0; i < n; i++ {
		if i == guaranteeIndex {
			kinds[i] = guaranteed
			continue
		}
		kinds[i] = WeightedKind(rng, weights, guaranteed, fallback)
	}
	return kinds
}

// WeightedKind 按权重抽取一个类别（跳过 exclude）
//
// 在 [0, total) 上取 r，按 AllItemCategories 的固定顺序依次扣减权重，
// r 落入哪个区间就返回哪个类别。
func WeightedKind(rng *rand.Rand, weights map[types.ItemCategory]float64, exclude, fallback types.ItemCategory) types.ItemCategory {
	total := 0.0
	for _, cat := range types.AllItemCategories {
		if cat == exclude {
			continue
		}
		if w := weights[cat]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return fallback
	}

	r := rng.Float64() * total
	last := fallback
	for _, cat := range types.AllItemCategories {
		if cat == exclude {
			continue
		}
		w := weights[cat]
		if w <= 0 {
			continue
		}
		if r < w {
			return cat
		}
		r -= w
		last = cat
	}

	// 浮点误差导致 r 没有落入任何区间时，取最后一个有效类别
	return last
}
