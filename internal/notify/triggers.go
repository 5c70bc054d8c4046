// Package notify 每日主动触发。按档案的能量峰值挑选固定的触发时刻表，
// 按通知偏好决定布防数量。
// Package notify handles daily proactive triggers. The profile's energy peak
// selects a fixed trigger timetable, the notification preference decides how
// many get armed.
package notify

import "nexus/internal/profile"

// Trigger 一条每日触发：本地时刻加标题和正文。
// Trigger is one daily trigger: a local time of day plus title and body.
type Trigger struct {
	Hour   int
	Minute int
	Title  string
	Body   string
}

// 触发文案是产品侧约定的葡语字符串，不走 i18n。
// Trigger copy is Portuguese by product convention and bypasses i18n.
var triggerTables = map[profile.PeakEnergy][]Trigger{
	profile.PeakMorning: {
		{Hour: 8, Minute: 0, Title: "⚡ NEXUS — Pico de manhã", Body: "Seu melhor horário do dia. Tenho uma tarefa de 10 min pra você."},
		{Hour: 9, Minute: 30, Title: "⚡ NEXUS", Body: "Ainda no pico! Mais uma micro-etapa?"},
	},
	profile.PeakAfternoon: {
		{Hour: 13, Minute: 30, Title: "⚡ NEXUS — Pico da tarde", Body: "Energia chegando. Topa 10 minutos de foco?"},
		{Hour: 15, Minute: 0, Title: "⚡ NEXUS", Body: "Melhor momento da tarde. Uma tarefa rápida?"},
	},
	profile.PeakEvening: {
		{Hour: 18, Minute: 0, Title: "⚡ NEXUS — Pico da noite", Body: "Sua hora chegou. Foco por 15 minutos?"},
		{Hour: 20, Minute: 0, Title: "⚡ NEXUS", Body: "Uma micro-etapa antes de encerrar o dia?"},
	},
	profile.PeakVariable: {
		{Hour: 9, Minute: 0, Title: "⚡ NEXUS — Bom dia", Body: "Como está sua energia agora? Tenho algo pra você."},
		{Hour: 14, Minute: 0, Title: "⚡ NEXUS", Body: "Check-in de tarde. Pronto para uma micro-tarefa?"},
	},
}

// TriggersFor 返回峰值对应的时刻表，未知峰值落到 variable。
// TriggersFor returns the timetable for a peak, falling back to variable.
func TriggersFor(peak profile.PeakEnergy) []Trigger {
	if table, ok := triggerTables[peak]; ok {
		return table
	}
	return triggerTables[profile.PeakVariable]
}

// TriggersForProfile 按通知偏好裁剪时刻表：manual 不布防，one_peak 只布防
// 首条，其余全表。
// TriggersForProfile trims the timetable by notification preference: manual
// arms nothing, one_peak arms only the first entry, everything else the full
// table.
func TriggersForProfile(p profile.Profile) []Trigger {
	if p.Notifications == profile.NotifyManual {
		return nil
	}
	table := TriggersFor(p.PeakEnergy)
	if p.Notifications == profile.NotifyOnePeak && len(table) > 1 {
		return table[:1]
	}
	return table
}
