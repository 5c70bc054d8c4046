package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// UI - Status bar / energy pill
	"energy.peak":      "Peak energy",
	"energy.normal":    "Normal energy",
	"energy.low":       "Low energy",
	"energy.next_peak": "next peak %s",

	// UI (TUI sidebar)
	"sidebar.streak":       "Streak",
	"sidebar.streak_value": "%d now · %d best",
	"sidebar.tasks":        "Active tasks",
	"sidebar.next":         "Next step",
	"sidebar.none":         "nothing queued",

	// UI - Status
	"status.ready":    "Listening",
	"status.thinking": "Thinking...",
	"status.speaking": "Speaking...",

	// UI - Input
	"input.placeholder": "Tell me what you want to get done...",

	// Task card
	"card.minutes":   "%d min",
	"card.step_done": "done",
	"card.deferred":  "deferred",
	"card.completed": "completed",

	// REPL
	"repl.welcome":       "nexus started. %s to list commands.",
	"repl.commands":      "commands:",
	"repl.no_tasks":      "No tasks yet. Tell me a goal and I'll break it down.",
	"repl.no_next":       "Nothing queued — everything is done.",
	"repl.next_step":     "Next: %s (%d min) — from %q",
	"repl.step_done":     "Step checked off. Streak: %d 🔥",
	"repl.task_done":     "Task %q completed! Streak: %d 🔥",
	"repl.task_deferred": "Okay, task deferred. Whenever you're ready.",
	"repl.cleared":       "Conversation cleared.",
	"repl.triggers_on":   "Daily triggers armed: %d",
	"repl.triggers_off":  "All triggers cancelled.",
	"repl.unknown_task":  "I couldn't find that task.",

	// Voice
	"voice.recording":     "Recording... press Enter to stop.",
	"voice.processing":    "Transcribing...",
	"voice.silence":       "I couldn't hear anything. Try again?",
	"voice.mic_denied":    "Microphone permission denied.",
	"voice.stt_failed":    "Couldn't transcribe the audio. Try again.",
	"voice.tts_failed":    "Couldn't speak the reply.",
	"voice.not_supported": "Voice capture is not configured.",

	// Onboarding
	"onboard.q_energy":       "Hi! I'm NEXUS, your focus partner. First — when do you usually have the most energy?",
	"onboard.q_energy.1":     "Mornings, before 10am",
	"onboard.q_energy.2":     "Early afternoon",
	"onboard.q_energy.3":     "Late afternoon or evening",
	"onboard.q_energy.4":     "It varies, no pattern",
	"onboard.q_block":        "Got it! And what kind of task tends to block you most?",
	"onboard.q_block.1":      "Emails and messages",
	"onboard.q_block.2":      "Bills and finances",
	"onboard.q_block.3":      "Creating from scratch",
	"onboard.q_block.4":      "Hard decisions",
	"onboard.q_tone":         "What tone would you like me to use with you?",
	"onboard.q_tone.1":       "Direct and objective",
	"onboard.q_tone.2":       "Friendly, with humor",
	"onboard.q_tone.3":       "Professional and formal",
	"onboard.q_tone.4":       "Calm and encouraging",
	"onboard.q_notify":       "Can I ping you at your energy peaks? I promise not to flood you.",
	"onboard.q_notify.1":     "Yes, up to 3x a day",
	"onboard.q_notify.2":     "Just once, at my peak",
	"onboard.q_notify.3":     "Only when I open the app",
	"onboard.pick":           "Pick an option [1-%d]: ",
	"onboard.done":           "All set. Tell me a goal and I'll slice it into micro-steps.",
	"onboard.invalid_choice": "Please answer with a number between 1 and %d.",

	// Chat
	"chat.fallback": "Sorry, I hit a connection problem. Can you say that again?",

	// Errors
	"error.config":  "load config failed: %v",
	"error.storage": "open storage failed: %v",
	"error.mirror":  "persistence mirror unavailable, continuing in memory: %v",
}
