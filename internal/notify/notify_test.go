package notify

import (
	"testing"
	"time"

	"nexus/internal/profile"
)

func TestTriggersForFallsBackToVariable(t *testing.T) {
	table := TriggersFor(profile.PeakEnergy("unknown"))
	want := TriggersFor(profile.PeakVariable)
	if len(table) != len(want) || table[0].Hour != want[0].Hour {
		t.Fatalf("unknown peak should use the variable table, got %+v", table)
	}
}

func TestTriggersForProfilePreference(t *testing.T) {
	p := profile.Profile{PeakEnergy: profile.PeakMorning}

	p.Notifications = profile.NotifyThreeDaily
	if got := TriggersForProfile(p); len(got) != 2 {
		t.Errorf("three_daily armed %d, want full table of 2", len(got))
	}

	p.Notifications = profile.NotifyOnePeak
	got := TriggersForProfile(p)
	if len(got) != 1 {
		t.Fatalf("one_peak armed %d, want 1", len(got))
	}
	if got[0].Hour != 8 || got[0].Minute != 0 {
		t.Errorf("one_peak kept %d:%02d, want the first entry 8:00", got[0].Hour, got[0].Minute)
	}

	p.Notifications = profile.NotifyManual
	if got := TriggersForProfile(p); len(got) != 0 {
		t.Errorf("manual armed %d, want 0", len(got))
	}
}

func TestNextOccurrenceRollsToTomorrow(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	at := nextOccurrence(Trigger{Hour: 8, Minute: 0}, now)
	if at.Day() != 11 || at.Hour() != 8 {
		t.Errorf("past slot = %v, want tomorrow 8:00", at)
	}

	at = nextOccurrence(Trigger{Hour: 13, Minute: 30}, now)
	if at.Day() != 10 || at.Hour() != 13 || at.Minute() != 30 {
		t.Errorf("future slot = %v, want today 13:30", at)
	}

	// 恰好等于 now 的时刻算已过 / a slot equal to now counts as past
	at = nextOccurrence(Trigger{Hour: 9, Minute: 0}, now)
	if at.Day() != 11 {
		t.Errorf("slot at now = %v, want tomorrow", at)
	}
}

func TestArmAndCancelAll(t *testing.T) {
	engine := NewEngine(4)
	defer engine.Stop()

	if n := engine.Arm(TriggersFor(profile.PeakEvening)); n != 2 {
		t.Fatalf("armed %d, want 2", n)
	}
	if engine.Armed() != 2 {
		t.Fatalf("Armed() = %d", engine.Armed())
	}

	engine.CancelAll()
	if engine.Armed() != 0 {
		t.Fatalf("Armed() after cancel = %d", engine.Armed())
	}
}

func TestArmReplacesPreviousTriggers(t *testing.T) {
	engine := NewEngine(4)
	defer engine.Stop()

	engine.Arm(TriggersFor(profile.PeakMorning))
	engine.Arm(TriggersFor(profile.PeakEvening))
	if engine.Armed() != 2 {
		t.Fatalf("Armed() = %d, want re-arm to replace not append", engine.Armed())
	}
}

func TestEngineFiresAndReschedulesDaily(t *testing.T) {
	engine := NewEngine(4)
	start := time.Now()
	base := time.Date(2025, 3, 10, 7, 59, 59, int(950*time.Millisecond), time.UTC)
	engine.now = func() time.Time { return base.Add(time.Since(start)) }

	engine.Start()
	defer engine.Stop()

	engine.Arm([]Trigger{{Hour: 8, Minute: 0, Title: "⚡ NEXUS", Body: "Bom dia"}})

	select {
	case ev := <-engine.C():
		if ev.Trigger.Title != "⚡ NEXUS" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("trigger never fired")
	}

	// 触发后必须重排到次日，而不是消失 / after firing it must be rescheduled, not gone
	if engine.Armed() != 1 {
		t.Fatalf("Armed() after fire = %d, want 1", engine.Armed())
	}
}

func TestPopDueReschedulesNextDay(t *testing.T) {
	engine := NewEngine(1)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	engine.queue = triggerQueue{{trigger: Trigger{Hour: 8}, at: now}}

	due := engine.popDue(now)
	if len(due) != 1 {
		t.Fatalf("due = %d, want 1", len(due))
	}
	if len(engine.queue) != 1 || engine.queue[0].at.Day() != 11 {
		t.Fatalf("queue after pop = %+v, want next-day slot", engine.queue)
	}
}
