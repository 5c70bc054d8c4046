package energy

import (
	"testing"
	"time"

	"nexus/internal/profile"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.Local)
}

func TestEstimateLevels(t *testing.T) {
	cases := []struct {
		name string
		pref profile.PeakEnergy
		now  time.Time
		want Level
	}{
		{"morning peak start", profile.PeakMorning, at(7, 30), LevelPeak},
		{"morning peak inside", profile.PeakMorning, at(10, 29), LevelPeak},
		{"morning just past window", profile.PeakMorning, at(10, 31), LevelNormal},
		{"afternoon peak", profile.PeakAfternoon, at(14, 0), LevelPeak},
		{"evening peak", profile.PeakEvening, at(19, 0), LevelPeak},
		{"variable first window", profile.PeakVariable, at(9, 0), LevelPeak},
		{"variable second window", profile.PeakVariable, at(15, 0), LevelPeak},
		{"post-lunch dip", profile.PeakMorning, at(13, 0), LevelLow},
		{"late night", profile.PeakMorning, at(23, 0), LevelLow},
		{"dip end is exclusive", profile.PeakMorning, at(13, 30), LevelNormal},
		{"plain normal", profile.PeakMorning, at(11, 0), LevelNormal},
		{"unset preference falls back to variable", "", at(9, 0), LevelPeak},
		// 下午偏好者的峰值窗口覆盖午后低谷
		{"peak wins over dip", profile.PeakAfternoon, at(13, 0), LevelPeak},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Estimate(tc.pref, tc.now)
			if got.Level != tc.want {
				t.Fatalf("level = %q, want %q", got.Level, tc.want)
			}
		})
	}
}

func TestEstimateIsPure(t *testing.T) {
	a := Estimate(profile.PeakMorning, at(9, 15))
	b := Estimate(profile.PeakMorning, at(9, 15))
	if a != b {
		t.Fatalf("same inputs produced %+v and %+v", a, b)
	}
}

func TestPercentPerLevel(t *testing.T) {
	if got := Estimate(profile.PeakMorning, at(8, 0)).Percent; got != 90 {
		t.Fatalf("peak percent = %d, want 90", got)
	}
	if got := Estimate(profile.PeakMorning, at(11, 0)).Percent; got != 55 {
		t.Fatalf("normal percent = %d, want 55", got)
	}
	if got := Estimate(profile.PeakMorning, at(23, 0)).Percent; got != 25 {
		t.Fatalf("low percent = %d, want 25", got)
	}
}

func TestNextPeak(t *testing.T) {
	// 峰值期间不提示下一个峰值
	if got := Estimate(profile.PeakMorning, at(8, 0)).NextPeak; got != "" {
		t.Fatalf("next peak during peak = %q, want empty", got)
	}
	// 早晨之前指向 7:30
	if got := Estimate(profile.PeakMorning, at(6, 0)).NextPeak; got != "7:30" {
		t.Fatalf("next peak = %q, want 7:30", got)
	}
	// variable 的上午窗口过后指向下午窗口
	if got := Estimate(profile.PeakVariable, at(11, 0)).NextPeak; got != "14:00" {
		t.Fatalf("next peak = %q, want 14:00", got)
	}
	// 今天没有后续窗口则为空，不跨天
	if got := Estimate(profile.PeakMorning, at(23, 0)).NextPeak; got != "" {
		t.Fatalf("next peak late night = %q, want empty (no rollover)", got)
	}
}
