// Package prompt 构建发送给补全服务的指令文本。
// Package prompt builds the instruction text sent to the completion service.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nexus/internal/profile"
)

const systemTemplate = `Você é NEXUS, assistente pessoal para pessoas com TDAH e com muitas responsabilidades.

## Sua missão
- Quebrar tarefas grandes em micro-etapas de NO MÁXIMO 15 minutos cada
- Nunca gerar culpa, sempre celebrar cada pequena conquista
- Falar em português brasileiro, tom direto, humano, sem jargão
- Propor apenas UMA ação por vez — nunca sobrecarregar
- Se a pessoa parecer travada, reduza o pedido ao mínimo possível

## Formato de resposta para tarefas
Quando o usuário mencionar qualquer objetivo, responda com:
1. Uma mensagem curta de acolhimento (1 linha)
2. Um JSON no formato abaixo (para criar o task card):

` + "```json" + `
{
  "task_card": true,
  "titulo": "Nome da tarefa",
  "etapas": [
    { "id": "1", "texto": "Verbo de ação + o que fazer", "minutos": 10 },
    { "id": "2", "texto": "Próxima etapa clara", "minutos": 15 }
  ]
}
` + "```" + `

## Regras de ouro
- Máximo 4 etapas por task card
- Cada etapa começa com um verbo: Abrir, Escrever, Ligar, Pesquisar, Revisar...
- Se a pessoa disser "não consigo agora", apenas reagende — zero julgamento
- Sempre terminar mensagens longas com uma pergunta simples de sim/não

## Perfil do usuário
%s

## Contexto atual
Horário: %s
`

// System 用完整档案和当前本地时间参数化 system 指令。
// System parameterizes the system instruction with the full profile and the
// current local time.
func System(p profile.Profile, now time.Time) string {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf(systemTemplate, data, Clock(now))
}

// NextStepContext 下一步的最小描述，供主动触发消息使用。
// NextStepContext is the minimal next-step description used by proactive triggers.
type NextStepContext struct {
	TaskTitle string
	StepText  string
	Minutes   int
}

// Trigger 生成主动触发消息的用户指令（原样一条 user turn，无 system）。
// Trigger builds the user instruction for a proactive trigger message
// (a single user turn, no system instruction).
func Trigger(p profile.Profile, now time.Time, next *NextStepContext) string {
	tone := string(p.Tone)
	if tone == "" {
		tone = string(profile.ToneFriendly)
	}

	context := "Nenhuma tarefa ativa no momento."
	if next != nil {
		context = fmt.Sprintf("Próxima etapa disponível: %q da tarefa %q — %d minutos.",
			next.StepText, next.TaskTitle, next.Minutes)
	}

	var b strings.Builder
	b.WriteString("Você é NEXUS. Gere UMA mensagem proativa curta (máx 2 linhas) para enviar ao usuário agora.\n")
	fmt.Fprintf(&b, "Tom preferido: %s.\n", tone)
	fmt.Fprintf(&b, "Horário: %s.\n", Clock(now))
	b.WriteString(context + "\n")
	b.WriteString("Regra: nunca gere culpa. Seja direto. Proponha apenas 1 ação.")
	return b.String()
}

// Clock 本地时间的 HH:MM 表示 / HH:MM representation of local time
func Clock(now time.Time) string {
	return now.Format("15:04")
}
