package personalize

import (
	"errors"
	"strings"
)

const (
	LevelAuto     = "auto"
	LevelBasic    = "basic"
	LevelStandard = "standard"
	LevelAdvanced = "advanced"
)

const (
	SourceManual  = "manual"
	SourceDefault = "default"
	SourceScore   = "score"
)

const (
	// PhaseGuided 基础层级首轮只做引导，不给答案
	PhaseGuided = 1
	PhaseFull   = 2
)

var levelValues = map[string]bool{
	LevelAuto:     true,
	LevelBasic:    true,
	LevelStandard: true,
	LevelAdvanced: true,
}

// ErrNotPromotable 仅 basic/引导阶段的会话允许提升到完整阶段
var ErrNotPromotable = errors.New("session is not promotable: reveal requires level=basic and phase=1")

// Resolution 生效层级的推导结果
type Resolution struct {
	Level  string
	Source string
	Phase  int
}

// NormalizeLevel 非法或空值一律归一为 auto
func NormalizeLevel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if levelValues[value] {
		return value
	}
	return LevelAuto
}

// ScoreToLevel 自评分数映射层级；分数未知时取 standard，避免对陌生学生过度简化
func ScoreToLevel(score *int) string {
	if score == nil {
		return LevelStandard
	}
	switch {
	case *score <= 70:
		return LevelBasic
	case *score <= 90:
		return LevelStandard
	default:
		return LevelAdvanced
	}
}

// Resolve 推导生效层级：手动选择 > 用户默认 > 分数推导。总函数，任何输入都有结果
func Resolve(manualOverride, storedDefault string, score *int) Resolution {
	if override := NormalizeLevel(manualOverride); override != LevelAuto {
		return Resolution{Level: override, Source: SourceManual, Phase: DefaultPhase(override)}
	}
	if stored := NormalizeLevel(storedDefault); stored != LevelAuto {
		return Resolution{Level: stored, Source: SourceDefault, Phase: DefaultPhase(stored)}
	}
	level := ScoreToLevel(score)
	return Resolution{Level: level, Source: SourceScore, Phase: DefaultPhase(level)}
}

// DefaultPhase 首轮提问的阶段：basic 走引导，其余直接给完整解答
func DefaultPhase(level string) int {
	if level == LevelBasic {
		return PhaseGuided
	}
	return PhaseFull
}

// CanPromote 校验会话能否从引导阶段提升到完整阶段
func CanPromote(level string, phase int) error {
	if level != LevelBasic || phase != PhaseGuided {
		return ErrNotPromotable
	}
	return nil
}
