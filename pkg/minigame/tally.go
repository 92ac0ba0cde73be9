package minigame

import "sort"

// TallyEntry 汇总中的一行：素材标签 -> 收集数量
type TallyEntry struct {
	AssetTag string `yaml:"assetTag"`
	Count    int    `yaml:"count"`
}

// Tally 按素材标签计数，保留首次出现顺序
type Tally struct {
	entries []TallyEntry
	index   map[string]int
	sealed  bool
}

// NewTally 创建空计分表
func NewTally() *Tally {
	return &Tally{index: make(map[string]int)}
}

// Record 记录一次收集
// 计分表封存后返回 ErrTallySealed
func (t *Tally) Record(assetTag string) error {
	if t.sealed {
		return ErrTallySealed
	}
	if i, ok := t.index[assetTag]; ok {
		t.entries[i].Count++
		return nil
	}
	t.index[assetTag] = len(t.entries)
	t.entries = append(t.entries, TallyEntry{AssetTag: assetTag, Count: 1})
	return nil
}

// Summarize 返回按数量降序的汇总，数量相同时先收集的在前
// 返回的是副本，调用方可以随意修改
func (t *Tally) Summarize() []TallyEntry {
	out := make([]TallyEntry, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Total 已记录的收集总数
func (t *Tally) Total() int {
	total := 0
	for _, e := range t.entries {
		total += e.Count
	}
	return total
}

// Seal 封存计分表（对局进入终态时调用）
func (t *Tally) Seal() { t.sealed = true }

// Sealed 是否已封存
func (t *Tally) Sealed() bool { return t.sealed }

// Reset 清空并解除封存（新一局开始）
func (t *Tally) Reset() {
	t.entries = t.entries[:0]
	t.index = make(map[string]int)
	t.sealed = false
}
