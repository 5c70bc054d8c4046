package prompt

import "nexus/internal/profile"

// Question 一道 onboarding 选择题。LabelKey 指向 i18n 目录中的文案。
// Question is one onboarding multiple-choice question. LabelKey points into
// the i18n catalog.
type Question struct {
	ID       string
	LabelKey string
	Options  []Option
}

// Option 一个可选答案及其对档案的作用。
// Option is one selectable answer and its effect on the profile.
type Option struct {
	LabelKey string
	Apply    func(*profile.Update)
}

// OnboardingQuestions 四道题：精力高峰、拦路任务、语气、通知偏好。
// OnboardingQuestions: energy peak, blocking activity, tone, notification preference.
func OnboardingQuestions() []Question {
	return []Question{
		{
			ID:       "energy",
			LabelKey: "onboard.q_energy",
			Options: []Option{
				{LabelKey: "onboard.q_energy.1", Apply: setPeak(profile.PeakMorning)},
				{LabelKey: "onboard.q_energy.2", Apply: setPeak(profile.PeakAfternoon)},
				{LabelKey: "onboard.q_energy.3", Apply: setPeak(profile.PeakEvening)},
				{LabelKey: "onboard.q_energy.4", Apply: setPeak(profile.PeakVariable)},
			},
		},
		{
			ID:       "blocking",
			LabelKey: "onboard.q_block",
			Options: []Option{
				{LabelKey: "onboard.q_block.1", Apply: setBlocksOn("emails")},
				{LabelKey: "onboard.q_block.2", Apply: setBlocksOn("finances")},
				{LabelKey: "onboard.q_block.3", Apply: setBlocksOn("creative")},
				{LabelKey: "onboard.q_block.4", Apply: setBlocksOn("decisions")},
			},
		},
		{
			ID:       "tone",
			LabelKey: "onboard.q_tone",
			Options: []Option{
				{LabelKey: "onboard.q_tone.1", Apply: setTone(profile.ToneDirect)},
				{LabelKey: "onboard.q_tone.2", Apply: setTone(profile.ToneFriendly)},
				{LabelKey: "onboard.q_tone.3", Apply: setTone(profile.ToneFormal)},
				{LabelKey: "onboard.q_tone.4", Apply: setTone(profile.ToneGentle)},
			},
		},
		{
			ID:       "notifications",
			LabelKey: "onboard.q_notify",
			Options: []Option{
				{LabelKey: "onboard.q_notify.1", Apply: setNotify(profile.NotifyThreeDaily)},
				{LabelKey: "onboard.q_notify.2", Apply: setNotify(profile.NotifyOnePeak)},
				{LabelKey: "onboard.q_notify.3", Apply: setNotify(profile.NotifyManual)},
			},
		},
	}
}

func setPeak(v profile.PeakEnergy) func(*profile.Update) {
	return func(u *profile.Update) { u.PeakEnergy = &v }
}

func setTone(v profile.Tone) func(*profile.Update) {
	return func(u *profile.Update) { u.Tone = &v }
}

func setNotify(v profile.Notifications) func(*profile.Update) {
	return func(u *profile.Update) { u.Notifications = &v }
}

func setBlocksOn(v string) func(*profile.Update) {
	return func(u *profile.Update) { u.BlocksOn = &v }
}
