// Package main 收集小游戏的终端版本
//
// Usage:
//
//	go run ./cmd/trashcollector-tui [flags]
//
// Flags:
//
//	--config <path>   小游戏配置文件
//	--seed <n>        随机种子（复现对局）
//	--mute            关闭提示音
//	--verbose         详细日志输出到 stderr
//
// Controls:
//
//	Space/S          - 开始一局
//	Click            - 收集点击的物品（只有高亮的目标有效）
//	Arrows + Enter   - 用光标收集
//	Q/Esc            - 退出
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/decker502/trashcollector/pkg/config"
	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/decker502/trashcollector/pkg/terminal"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

var (
	configPath = flag.String("config", "", "小游戏配置文件路径（默认 data/minigame.yaml 或内置默认值）")
	seed       = flag.Int64("seed", 0, "随机种子，非 0 时覆盖配置")
	mute       = flag.Bool("mute", false, "关闭提示音")
	verbose    = flag.Bool("verbose", false, "输出详细日志到 stderr（建议重定向：2>tui.log）")
)

const sampleRate = beep.SampleRate(44100)

// beepChime 用正弦波播放提示音
type beepChime struct{}

func (beepChime) Collect() {
	tone(880, 50*time.Millisecond)
}

func (beepChime) RoundEnded(status minigame.RoundStatus) {
	if status == minigame.RoundWon {
		tone(1320, 150*time.Millisecond)
		return
	}
	tone(220, 250*time.Millisecond)
}

func tone(freq float64, d time.Duration) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Printf("[Chime] Warning: %v", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// initChime 初始化扬声器，失败时静音继续
func initChime() (terminal.Chime, func()) {
	if *mute {
		return terminal.NopChime{}, func() {}
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("[Chime] Audio initialization failed: %v (continuing muted)", err)
		return terminal.NopChime{}, func() {}
	}
	return beepChime{}, speaker.Close
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

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	chime, closeChime := initChime()
	defer closeChime()

	frontend, err := terminal.NewFrontend(screen, cfg, *seed, chime)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to create front-end: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := frontend.Run(ctx)
	screen.Fini()

	if snap := frontend.Round().Snapshot(); snap.Status.IsTerminal() {
		fmt.Printf("%s (seed %d)\n", statusLine(snap), snap.Seed)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func statusLine(snap minigame.RoundSnapshot) string {
	return fmt.Sprintf("%s: collected %d/%d in %.1fs", snap.Status, snap.Collected, snap.TargetCount, snap.Elapsed)
}
