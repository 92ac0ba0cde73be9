package game

import (
	"fmt"
	"log"
	"time"

	"github.com/decker502/trashcollector/pkg/minigame"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// RoundRecord 一局结束后的记录
// 只保存结果，不保存进行中的对局状态
type RoundRecord struct {
	Status      string                `yaml:"status"`
	Collected   int                   `yaml:"collected"`
	TargetCount int                   `yaml:"targetCount"`
	Elapsed     float64               `yaml:"elapsed"`
	Seed        int64                 `yaml:"seed"`
	Summary     []minigame.TallyEntry `yaml:"summary"`
	FinishedAt  time.Time             `yaml:"finishedAt"`
}

// NewRoundRecord 从已结束的对局生成记录
func NewRoundRecord(r *minigame.Round, finishedAt time.Time) RoundRecord {
	snap := r.Snapshot()
	return RoundRecord{
		Status:      snap.Status.String(),
		Collected:   snap.Collected,
		TargetCount: snap.TargetCount,
		Elapsed:     snap.Elapsed,
		Seed:        snap.Seed,
		Summary:     r.Summarize(),
		FinishedAt:  finishedAt,
	}
}

// recordData gdata 中保存的数据
type recordData struct {
	// PopupLocked 玩过一次之后弹窗永久锁定
	PopupLocked bool         `yaml:"popupLocked"`
	LastRound   *RoundRecord `yaml:"lastRound,omitempty"`
}

// 存储路径常量
const (
	recordObject   = "minigame"
	recordProperty = "record"
)

// RecordManager 小游戏记录管理器
// 负责弹窗锁定状态和最近一局记录的持久化
type RecordManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	data         recordData
}

// NewRecordManager 创建记录管理器并加载已有记录
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewRecordManager(gdataManager *gdata.Manager) *RecordManager {
	rm := &RecordManager{gdataManager: gdataManager}
	if err := rm.Load(); err != nil {
		log.Printf("[RecordManager] Warning: Failed to load record: %v (starting fresh)", err)
	}
	return rm
}

// OpenRecordManager 打开应用的 gdata 存储并创建记录管理器
// gdata 打开失败时进入降级模式，不返回错误
func OpenRecordManager(appName string) *RecordManager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[RecordManager] Warning: gdata unavailable: %v (records will not persist)", err)
		manager = nil
	}
	return NewRecordManager(manager)
}

// Load 从 gdata 加载记录
// 降级模式或记录不存在时使用空记录
func (rm *RecordManager) Load() error {
	rm.data = recordData{}
	if rm.gdataManager == nil {
		return nil
	}
	if !rm.gdataManager.ObjectPropExists(recordObject, recordProperty) {
		return nil
	}

	raw, err := rm.gdataManager.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	var loaded recordData
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	rm.data = loaded
	log.Printf("[RecordManager] Record loaded (popupLocked=%v)", rm.data.PopupLocked)
	return nil
}

// Save 保存记录到 gdata
// 降级模式下返回 nil
func (rm *RecordManager) Save() error {
	if rm.gdataManager == nil {
		return nil
	}

	raw, err := yaml.Marshal(&rm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := rm.gdataManager.SaveObjectProp(recordObject, recordProperty, raw); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// IsPopupLocked 弹窗是否已锁定
func (rm *RecordManager) IsPopupLocked() bool {
	return rm.data.PopupLocked
}

// LastRound 最近一局的记录
func (rm *RecordManager) LastRound() (RoundRecord, bool) {
	if rm.data.LastRound == nil {
		return RoundRecord{}, false
	}
	return *rm.data.LastRound, true
}

// RecordRound 记录一局结果并锁定弹窗
// 内存状态总是更新，返回的错误只表示持久化失败
func (rm *RecordManager) RecordRound(record RoundRecord) error {
	rm.data.PopupLocked = true
	rm.data.LastRound = &record
	log.Printf("[RecordManager] Round recorded: %s %d/%d", record.Status, record.Collected, record.TargetCount)
	return rm.Save()
}

// Reset 清除记录并解锁弹窗
func (rm *RecordManager) Reset() error {
	rm.data = recordData{}
	return rm.Save()
}
