// Package energy 根据档案偏好和墙钟时间估算当前精力档位。
// Package energy estimates the current energy level from the profile
// preference and wall-clock time. The estimator is a pure function; it is
// recomputed per render and keeps no state of its own.
package energy

import (
	"fmt"
	"time"

	"nexus/internal/profile"
)

// Level 离散精力档位 / Discrete energy level
type Level string

const (
	LevelPeak   Level = "peak"
	LevelNormal Level = "normal"
	LevelLow    Level = "low"
)

// Snapshot 供 UI 展示的估算结果。Percent 是每档固定的显示值，不是连续函数。
// Snapshot is the estimate the UI displays. Percent is a fixed display value
// per level, not a continuous function.
type Snapshot struct {
	Level    Level
	Label    string
	Emoji    string
	Percent  int
	NextPeak string // "H:MM"；处于峰值或今天没有后续窗口时为空
}

// window 半开区间 [Start, End)，单位为小时 / half-open interval in hours
type window struct {
	Start float64
	End   float64
}

// 每种偏好对应的峰值窗口静态表。variable 映射到两个较短的窗口。
// Static peak-window table per preference; variable maps to two shorter windows.
var peakWindows = map[profile.PeakEnergy][]window{
	profile.PeakMorning:   {{7.5, 10.5}},
	profile.PeakAfternoon: {{13.0, 16.0}},
	profile.PeakEvening:   {{17.5, 21.0}},
	profile.PeakVariable:  {{8.0, 10.0}, {14.0, 16.0}},
}

// 固定低谷：午后低潮和深夜 / Fixed dips: post-lunch and late night
var lowWindows = []window{
	{12.5, 13.5},
	{22.0, 24.0},
}

// Estimate 纯函数：同样的 (偏好, 时刻) 总是产生同样的结果。
// Estimate is pure: the same (preference, instant) always yields the same result.
func Estimate(pref profile.PeakEnergy, now time.Time) Snapshot {
	hour := float64(now.Hour()) + float64(now.Minute())/60

	windows, ok := peakWindows[pref]
	if !ok {
		windows = peakWindows[profile.PeakVariable]
	}

	for _, w := range windows {
		if hour >= w.Start && hour < w.End {
			return Snapshot{Level: LevelPeak, Label: "energy.peak", Emoji: "⚡", Percent: 90}
		}
	}

	next := nextPeakAfter(windows, hour)
	for _, w := range lowWindows {
		if hour >= w.Start && hour < w.End {
			return Snapshot{Level: LevelLow, Label: "energy.low", Emoji: "🌙", Percent: 25, NextPeak: next}
		}
	}
	return Snapshot{Level: LevelNormal, Label: "energy.normal", Emoji: "🌿", Percent: 55, NextPeak: next}
}

// nextPeakAfter 返回严格晚于当前时刻的最早窗口起点，不跨天。
// nextPeakAfter returns the earliest window start strictly after the current
// hour; it does not roll over to the next day.
func nextPeakAfter(windows []window, hour float64) string {
	best := -1.0
	for _, w := range windows {
		if w.Start > hour && (best < 0 || w.Start < best) {
			best = w.Start
		}
	}
	if best < 0 {
		return ""
	}
	h := int(best)
	m := int((best - float64(h)) * 60)
	return fmt.Sprintf("%d:%02d", h, m)
}
