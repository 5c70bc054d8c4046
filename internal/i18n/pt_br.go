package i18n

// PtBRMessages 巴西葡语消息目录（原始用户群的语言）
// PtBRMessages is the Brazilian Portuguese catalog (the primary audience's language)
var PtBRMessages = map[string]string{
	"energy.peak":      "Pico de energia",
	"energy.normal":    "Energia normal",
	"energy.low":       "Energia baixa",
	"energy.next_peak": "próximo pico %s",

	"sidebar.streak":       "Sequência",
	"sidebar.streak_value": "%d agora · %d recorde",
	"sidebar.tasks":        "Tarefas ativas",
	"sidebar.next":         "Próxima etapa",
	"sidebar.none":         "nada na fila",

	"status.ready":    "Escutando",
	"status.thinking": "Processando...",
	"status.speaking": "Falando...",

	"input.placeholder": "Me conta o que você quer fazer...",

	"card.minutes":   "%d min",
	"card.step_done": "feita",
	"card.deferred":  "adiada",
	"card.completed": "concluída",

	"repl.welcome":       "nexus iniciado. %s para listar comandos.",
	"repl.commands":      "comandos:",
	"repl.no_tasks":      "Nenhuma tarefa ainda. Me conta um objetivo e eu quebro em etapas.",
	"repl.no_next":       "Nada na fila — tudo concluído.",
	"repl.next_step":     "Próxima: %s (%d min) — da tarefa %q",
	"repl.step_done":     "Etapa concluída. Sequência: %d 🔥",
	"repl.task_done":     "Tarefa %q concluída! Sequência: %d 🔥",
	"repl.task_deferred": "Tudo bem, tarefa adiada. Quando você quiser.",
	"repl.cleared":       "Conversa limpa.",
	"repl.triggers_on":   "Gatilhos diários ativos: %d",
	"repl.triggers_off":  "Todos os gatilhos cancelados.",
	"repl.unknown_task":  "Não encontrei essa tarefa.",

	"voice.recording":     "Gravando... Enter para parar.",
	"voice.processing":    "Transcrevendo...",
	"voice.silence":       "Não consegui te ouvir. Tenta de novo?",
	"voice.mic_denied":    "Permissão de microfone negada.",
	"voice.stt_failed":    "Erro ao transcrever o áudio. Tente novamente.",
	"voice.tts_failed":    "Não consegui falar a resposta.",
	"voice.not_supported": "Captura de voz não configurada.",

	"onboard.q_energy":       "Oi! Sou o NEXUS, seu parceiro de foco. Antes de tudo — quando você costuma ter mais energia durante o dia?",
	"onboard.q_energy.1":     "De manhã, antes das 10h",
	"onboard.q_energy.2":     "No começo da tarde",
	"onboard.q_energy.3":     "Final de tarde ou noite",
	"onboard.q_energy.4":     "Muda muito, sem padrão",
	"onboard.q_block":        "Entendido! E qual tipo de tarefa costuma te travar mais?",
	"onboard.q_block.1":      "Emails e mensagens",
	"onboard.q_block.2":      "Contas e financeiro",
	"onboard.q_block.3":      "Criar coisas do zero",
	"onboard.q_block.4":      "Tomar decisões difíceis",
	"onboard.q_tone":         "Qual tom você prefere que eu use com você?",
	"onboard.q_tone.1":       "Direto e objetivo",
	"onboard.q_tone.2":       "Amigável e com humor",
	"onboard.q_tone.3":       "Profissional e formal",
	"onboard.q_tone.4":       "Calmo e encorajador",
	"onboard.q_notify":       "Posso te chamar nos seus horários de pico de energia? Prometo não encher de notificações.",
	"onboard.q_notify.1":     "Sim, até 3x por dia",
	"onboard.q_notify.2":     "Só 1x no meu pico",
	"onboard.q_notify.3":     "Só quando eu abrir",
	"onboard.pick":           "Escolha uma opção [1-%d]: ",
	"onboard.done":           "Pronto. Me conta um objetivo e eu fatio em micro-etapas.",
	"onboard.invalid_choice": "Responda com um número entre 1 e %d.",

	"chat.fallback": "Desculpe, tive um problema de conexão. Pode repetir?",

	"error.config":  "falha ao carregar config: %v",
	"error.storage": "falha ao abrir storage: %v",
	"error.mirror":  "espelho de persistência indisponível, continuando em memória: %v",
}
