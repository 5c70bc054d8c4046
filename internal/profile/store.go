package profile

import "sync"

// maxObservedPeaks 限制观察窗口列表的长度，只保留最近的观察值。
const maxObservedPeaks = 24

// Store 档案的唯一持有方。能量估算器只读取它，任务存储从不触碰它。
// Store is the profile's exclusive owner. The energy estimator only reads it;
// the task store never touches it.
type Store struct {
	mu             sync.RWMutex
	profile        Profile
	onboardingDone bool

	// 完成率的内部计数器 / internal counters behind CompletionRate
	tasksSeen int
	tasksDone int
}

func NewStore() *Store {
	return &Store{
		profile: Profile{AvgResponseMinutes: 5},
	}
}

// Profile 返回档案副本 / Profile returns a copy of the profile
func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProfile(s.profile)
}

// Apply 应用部分更新，非法枚举值被忽略。
// Apply merges a partial update; invalid enum values are ignored.
func (s *Store) Apply(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.PeakEnergy != nil && u.PeakEnergy.IsValid() {
		s.profile.PeakEnergy = *u.PeakEnergy
	}
	if u.Tone != nil && u.Tone.IsValid() {
		s.profile.Tone = *u.Tone
	}
	if u.BlocksOn != nil {
		s.profile.BlocksOn = *u.BlocksOn
	}
	if u.Notifications != nil && u.Notifications.IsValid() {
		s.profile.Notifications = *u.Notifications
	}
	if u.DeclaredPeaks != nil {
		s.profile.DeclaredPeaks = append([]string(nil), (*u.DeclaredPeaks)...)
	}
	if u.DifficultDays != nil {
		s.profile.DifficultDays = append([]string(nil), (*u.DifficultDays)...)
	}
}

// IncrementStreak 连击加一；最大连击随当前值增长。
// IncrementStreak bumps the streak; the max streak tracks the current one.
func (s *Store) IncrementStreak() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.CurrentStreak++
	if s.profile.CurrentStreak > s.profile.MaxStreak {
		s.profile.MaxStreak = s.profile.CurrentStreak
	}
}

// ResetStreak 清零当前连击，最大连击保留。
// ResetStreak zeroes the current streak; the max streak is kept.
func (s *Store) ResetStreak() {
	s.mu.Lock()
	s.profile.CurrentStreak = 0
	s.mu.Unlock()
}

// RecordAchievement 记录最近一次成就并累计微任务总数。
// RecordAchievement stores the latest achievement and bumps the micro-task total.
func (s *Store) RecordAchievement(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile.LastAchievement = description
	s.profile.TotalMicroTasks++
}

// ObservePeak 记录一次实际完成发生的时刻（HH:MM），去重且有界。
// ObservePeak records a clock time (HH:MM) at which real completion happened,
// deduplicated and bounded.
func (s *Store) ObservePeak(clock string) {
	if clock == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.profile.ObservedPeaks {
		if existing == clock {
			return
		}
	}
	s.profile.ObservedPeaks = append(s.profile.ObservedPeaks, clock)
	if len(s.profile.ObservedPeaks) > maxObservedPeaks {
		s.profile.ObservedPeaks = s.profile.ObservedPeaks[len(s.profile.ObservedPeaks)-maxObservedPeaks:]
	}
}

// RecordResponseMinutes 用滑动平均更新平均响应时间。
// RecordResponseMinutes updates the average response time with a running mean.
func (s *Store) RecordResponseMinutes(minutes float64) {
	if minutes < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.AvgResponseMinutes == 0 {
		s.profile.AvgResponseMinutes = minutes
		return
	}
	s.profile.AvgResponseMinutes = (s.profile.AvgResponseMinutes*3 + minutes) / 4
}

// RecordTaskOutcome 记录任务结局并重算完成率。
// RecordTaskOutcome records a task outcome and recomputes the completion rate.
func (s *Store) RecordTaskOutcome(completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasksSeen++
	if completed {
		s.tasksDone++
	}
	s.profile.CompletionRate = float64(s.tasksDone) / float64(s.tasksSeen)
}

// Load 用持久化镜像中的档案覆盖当前状态（启动时调用一次）。
// Load replaces state with the profile from the persistence mirror.
func (s *Store) Load(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.MaxStreak < p.CurrentStreak {
		p.MaxStreak = p.CurrentStreak
	}
	s.profile = cloneProfile(p)
}

func (s *Store) OnboardingDone() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onboardingDone
}

func (s *Store) CompleteOnboarding() {
	s.mu.Lock()
	s.onboardingDone = true
	s.mu.Unlock()
}

func cloneProfile(p Profile) Profile {
	out := p
	out.DeclaredPeaks = append([]string(nil), p.DeclaredPeaks...)
	out.ObservedPeaks = append([]string(nil), p.ObservedPeaks...)
	out.DifficultDays = append([]string(nil), p.DifficultDays...)
	return out
}
