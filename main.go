package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/trashcollector/pkg/app"
	"github.com/decker502/trashcollector/pkg/config"
	"github.com/decker502/trashcollector/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configPath = flag.String("config", "", "小游戏配置文件路径（默认使用嵌入的 data/minigame.yaml）")
	seed       = flag.Int64("seed", 0, "随机种子，非 0 时覆盖配置（用于复现对局）")
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	reset      = flag.Bool("reset", false, "清除存档，解除弹窗锁定")
)

func main() {
	flag.Parse()

	// 初始化嵌入配置
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:      *verbose,
		ConfigPath:   *configPath,
		Seed:         *seed,
		ResetRecords: *reset,
	})
	if err != nil {
		// 非 verbose 模式下 log 输出已被丢弃
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Trash Collector")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
