package minigame

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig 所有 *ConfigError 都可以用 errors.Is 匹配到它
	ErrInvalidConfig = errors.New("invalid round config")

	// ErrTallySealed 对局结束后继续计分
	ErrTallySealed = errors.New("tally is sealed")
)

// ConfigError 配置错误，对本局致命，对进程无影响
// StartRound 返回此错误时对局保持 Idle
type ConfigError struct {
	Field  string
	Reason string
}

func newConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid round config: %s: %s", e.Field, e.Reason)
}

// Is 让 errors.Is(err, ErrInvalidConfig) 成立
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// UsageError 调用方违反契约（如 Idle 状态下调用 Tick）
// 严格模式下以 panic 抛出，否则仅记录日志
type UsageError struct {
	Op     string
	Status RoundStatus
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("minigame: %s called while round is %s", e.Op, e.Status)
}
