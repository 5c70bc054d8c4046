package profile

// PeakEnergy 用户自报的精力高峰时段
// PeakEnergy is the user's self-declared peak-energy period
type PeakEnergy string

const (
	PeakMorning   PeakEnergy = "morning"
	PeakAfternoon PeakEnergy = "afternoon"
	PeakEvening   PeakEnergy = "evening"
	PeakVariable  PeakEnergy = "variable"
)

func (p PeakEnergy) IsValid() bool {
	switch p {
	case PeakMorning, PeakAfternoon, PeakEvening, PeakVariable:
		return true
	default:
		return false
	}
}

// Tone 助手交流语气 / Tone the assistant should use
type Tone string

const (
	ToneDirect   Tone = "direct"
	ToneFriendly Tone = "friendly"
	ToneFormal   Tone = "formal"
	ToneGentle   Tone = "gentle"
)

func (t Tone) IsValid() bool {
	switch t {
	case ToneDirect, ToneFriendly, ToneFormal, ToneGentle:
		return true
	default:
		return false
	}
}

// Notifications 主动触发偏好 / Proactive trigger preference
type Notifications string

const (
	NotifyThreeDaily Notifications = "three_daily"
	NotifyOnePeak    Notifications = "one_peak"
	NotifyManual     Notifications = "manual"
)

func (n Notifications) IsValid() bool {
	switch n {
	case NotifyThreeDaily, NotifyOnePeak, NotifyManual:
		return true
	default:
		return false
	}
}

// Profile 活档案：onboarding 声明的偏好加上从行为观察到的统计。
// Profile is the living profile: preferences declared during onboarding plus
// statistics observed from real behavior.
type Profile struct {
	PeakEnergy    PeakEnergy    `json:"peak_energy,omitempty"`
	Tone          Tone          `json:"tone,omitempty"`
	BlocksOn      string        `json:"blocks_on,omitempty"`
	Notifications Notifications `json:"notifications,omitempty"`

	DeclaredPeaks      []string `json:"declared_peaks,omitempty"`
	ObservedPeaks      []string `json:"observed_peaks,omitempty"`
	AvgResponseMinutes float64  `json:"avg_response_minutes"`
	DifficultDays      []string `json:"difficult_days,omitempty"`
	CurrentStreak      int      `json:"current_streak"`
	MaxStreak          int      `json:"max_streak"`
	LastAchievement    string   `json:"last_achievement,omitempty"`
	TotalMicroTasks    int      `json:"total_micro_tasks"`
	CompletionRate     float64  `json:"completion_rate"`
}

// Update 部分更新；nil 字段保持不变。
// Update is a partial update; nil fields are left untouched.
type Update struct {
	PeakEnergy    *PeakEnergy
	Tone          *Tone
	BlocksOn      *string
	Notifications *Notifications
	DeclaredPeaks *[]string
	DifficultDays *[]string
}
