package minigame

import "github.com/decker502/trashcollector/pkg/ecs"

// Driver 固定一帧内的调用顺序：先处理选择，再推进计时器
// 这样最后一帧的点击仍然有效
type Driver struct {
	round *Round
}

// NewDriver 包装一个对局
func NewDriver(round *Round) *Driver {
	return &Driver{round: round}
}

// Round 返回被驱动的对局
func (d *Driver) Round() *Round { return d.round }

// Frame 执行一帧
//
// 对局不在进行中时什么都不做并返回 SelectIgnored（不会触发契约违规）。
// 返回值为本帧最重要的结果：Won/Lost 优先于 Collected，Collected 优先于 Ignored。
func (d *Driver) Frame(dt float64, selections ...ecs.EntityID) SelectOutcome {
	if d.round.Status() != RoundRunning {
		return SelectIgnored
	}

	outcome := SelectIgnored
	for _, id := range selections {
		switch d.round.Select(id) {
		case SelectWon:
			return SelectWon
		case SelectCollected:
			outcome = SelectCollected
		}
	}

	d.round.Tick(dt)
	if d.round.Status() == RoundLost {
		return SelectLost
	}
	return outcome
}
