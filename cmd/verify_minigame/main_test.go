package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/types"
)

func newReport() *report {
	return &report{
		guaranteedSlots: make(map[int]int),
		categories:      make(map[types.ItemCategory]int),
	}
}

func items(cats ...types.ItemCategory) []minigame.PlannedItem {
	out := make([]minigame.PlannedItem, len(cats))
	for i, c := range cats {
		out[i] = minigame.PlannedItem{Category: c, Alive: true}
	}
	return out
}

// TestReport_TallyItems 按配置的保底类别统计，而不是固定按稀有类别
func TestReport_TallyItems(t *testing.T) {
	tests := []struct {
		name           string
		items          []minigame.PlannedItem
		guaranteed     types.ItemCategory
		wantSlots      map[int]int
		wantViolations int
	}{
		{
			name:       "保底为普通且恰好一个",
			items:      items(types.CategoryRare, types.CategoryCommon, types.CategoryRare),
			guaranteed: types.CategoryCommon,
			wantSlots:  map[int]int{1: 1},
		},
		{
			name:           "保底为普通但出现两个",
			items:          items(types.CategoryCommon, types.CategoryRare, types.CategoryCommon),
			guaranteed:     types.CategoryCommon,
			wantSlots:      map[int]int{0: 1, 2: 1},
			wantViolations: 1,
		},
		{
			name:           "缺少保底类别",
			items:          items(types.CategoryUncommon, types.CategoryUncommon),
			guaranteed:     types.CategoryRare,
			wantSlots:      map[int]int{},
			wantViolations: 1,
		},
		{
			name:       "空局不计违规",
			items:      nil,
			guaranteed: types.CategoryRare,
			wantSlots:  map[int]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := newReport()
			rep.tallyItems(tt.items, tt.guaranteed)

			if rep.guaranteedViolations != tt.wantViolations {
				t.Errorf("Expected %d violations, got %d", tt.wantViolations, rep.guaranteedViolations)
			}
			if len(rep.guaranteedSlots) != len(tt.wantSlots) {
				t.Fatalf("Expected slots %v, got %v", tt.wantSlots, rep.guaranteedSlots)
			}
			for slot, n := range tt.wantSlots {
				if rep.guaranteedSlots[slot] != n {
					t.Errorf("Slot %d: expected %d, got %d", slot, n, rep.guaranteedSlots[slot])
				}
			}
		})
	}
}

func TestReport_PrintNamesGuaranteedCategory(t *testing.T) {
	rep := newReport()
	rep.tallyItems(items(types.CategoryRare, types.CategoryUncommon), types.CategoryUncommon)
	rep.rounds = 1

	var buf bytes.Buffer
	rep.print(&buf, minigame.RoundConfig{TargetCount: 2, Guaranteed: types.CategoryUncommon})
	out := buf.String()

	for _, want := range []string{
		"Guaranteed (uncommon) slot distribution:",
		"slot  1: 1",
		"OK: every round has exactly one uncommon item",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Rare slot") {
		t.Errorf("Output still labels slots as rare:\n%s", out)
	}
}
