// Package main 收集小游戏的无界面验证工具
//
// 用固定种子批量运行对局，脚本玩家按随机反应时间依次点击当前目标，
// 输出胜负统计、保底类别所在槽位分布和放宽间距的次数。
// 任何一局的保底类别物品数量不是 1 时以非 0 状态退出。
//
// Usage:
//
//	go run ./cmd/verify_minigame --rounds 500 --seed 1
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"

	"github.com/decker502/trashcollector/pkg/config"
	"github.com/decker502/trashcollector/pkg/ecs"
	"github.com/decker502/trashcollector/pkg/entities"
	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/types"
)

var (
	configPath = flag.String("config", "", "小游戏配置文件路径（默认 data/minigame.yaml 或内置默认值）")
	rounds     = flag.Int("rounds", 200, "运行的对局数")
	seed       = flag.Int64("seed", 1, "第一局的种子，之后每局加 1")
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
)

const frameDelta = 1.0 / 60.0

// 脚本玩家每个目标的反应时间（帧）
const (
	minReactionFrames = 20
	maxReactionFrames = 50
)

// report 批量运行的统计
type report struct {
	rounds               int
	won                  int
	lost                 int
	wonElapsed           float64
	guaranteedSlots      map[int]int
	guaranteedViolations int
	categories           map[types.ItemCategory]int
	relaxed              int
	relaxedRounds        int
}

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.ResolveMiniGameConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	roundConfig, err := cfg.ToRoundConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	rep := &report{
		guaranteedSlots: make(map[int]int),
		categories:      make(map[types.ItemCategory]int),
	}
	for i := 0; i < *rounds; i++ {
		roundConfig.Seed = *seed + int64(i)
		if err := playRound(cfg, roundConfig, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Round %d (seed %d) failed: %v\n", i, roundConfig.Seed, err)
			os.Exit(1)
		}
	}

	rep.print(os.Stdout, roundConfig)
	if rep.guaranteedViolations > 0 {
		os.Exit(1)
	}
}

// playRound 运行一局并累计统计
func playRound(cfg *config.MiniGameConfig, rc minigame.RoundConfig, rep *report) error {
	em := ecs.NewEntityManager()
	factory := entities.NewCollectibleFactory(em, cfg.PrefabsByCategory(), rand.New(rand.NewSource(rc.Seed)))
	round := minigame.NewRound(factory)
	round.SetStrict(true)
	driver := minigame.NewDriver(round)

	if err := round.StartRound(rc); err != nil {
		return err
	}

	rep.tallyItems(round.LiveItems(), rc.Guaranteed)
	if stats := round.Placement(); stats.Relaxed > 0 {
		rep.relaxed += stats.Relaxed
		rep.relaxedRounds++
	}

	player := rand.New(rand.NewSource(rc.Seed ^ 0x5eed))
	wait := reactionFrames(player)
	for round.Status() == minigame.RoundRunning {
		var selections []ecs.EntityID
		if wait--; wait <= 0 {
			if id, ok := round.CurrentTarget(); ok {
				selections = append(selections, id)
			}
			wait = reactionFrames(player)
		}
		driver.Frame(frameDelta, selections...)
		em.RemoveMarkedEntities()
	}

	rep.rounds++
	switch round.Status() {
	case minigame.RoundWon:
		rep.won++
		rep.wonElapsed += round.Elapsed()
	case minigame.RoundLost:
		rep.lost++
	}

	if em.Count() != 0 {
		return fmt.Errorf("%d entities left after %s", em.Count(), round.Status())
	}
	return nil
}

// tallyItems 累计一局开局时的类别与保底槽位，保底类别数量不是 1 时记一次违规
func (r *report) tallyItems(items []minigame.PlannedItem, guaranteed types.ItemCategory) {
	found := 0
	for slot, item := range items {
		r.categories[item.Category]++
		if item.Category == guaranteed {
			found++
			r.guaranteedSlots[slot]++
		}
	}
	if len(items) > 0 && found != 1 {
		r.guaranteedViolations++
	}
}

func reactionFrames(rng *rand.Rand) int {
	return minReactionFrames + rng.Intn(maxReactionFrames-minReactionFrames+1)
}

func (r *report) print(w io.Writer, rc minigame.RoundConfig) {
	fmt.Fprintf(w, "=== Trash Collector verification ===\n")
	fmt.Fprintf(w, "Config: target=%d timeLimit=%.1fs separation=%.2f attempts=%d\n",
		rc.TargetCount, rc.TimeLimit, rc.MinSeparation, rc.MaxAttempts)
	fmt.Fprintf(w, "Rounds: %d  Won: %d  Lost: %d\n", r.rounds, r.won, r.lost)
	if r.won > 0 {
		fmt.Fprintf(w, "Average win time: %.2fs\n", r.wonElapsed/float64(r.won))
	}

	fmt.Fprintf(w, "Categories:")
	for _, cat := range []types.ItemCategory{types.CategoryCommon, types.CategoryUncommon, types.CategoryRare} {
		fmt.Fprintf(w, " %s=%d", cat, r.categories[cat])
	}
	fmt.Fprintln(w)

	slots := make([]int, 0, len(r.guaranteedSlots))
	for slot := range r.guaranteedSlots {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	fmt.Fprintf(w, "Guaranteed (%s) slot distribution:\n", rc.Guaranteed)
	for _, slot := range slots {
		fmt.Fprintf(w, "  slot %2d: %d\n", slot, r.guaranteedSlots[slot])
	}

	fmt.Fprintf(w, "Relaxed placements: %d (in %d rounds)\n", r.relaxed, r.relaxedRounds)
	if r.guaranteedViolations > 0 {
		fmt.Fprintf(w, "FAIL: %d rounds without exactly one %s item\n", r.guaranteedViolations, rc.Guaranteed)
	} else {
		fmt.Fprintf(w, "OK: every round has exactly one %s item\n", rc.Guaranteed)
	}
}
