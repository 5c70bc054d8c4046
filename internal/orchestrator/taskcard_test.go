package orchestrator

import (
	"testing"
)

func TestExtractTaskCard(t *testing.T) {
	reply := "Ok!\n```json\n{\"task_card\":true,\"titulo\":\"Clean inbox\",\"etapas\":[{\"texto\":\"Open mail\",\"minutos\":5}]}\n```"

	cleaned, proposal := ExtractTaskCard(reply)
	if cleaned != "Ok!" {
		t.Fatalf("cleaned text = %q, want %q", cleaned, "Ok!")
	}
	if proposal == nil {
		t.Fatal("expected a proposal")
	}
	if proposal.Title != "Clean inbox" {
		t.Errorf("title = %q", proposal.Title)
	}
	if len(proposal.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(proposal.Steps))
	}
	step := proposal.Steps[0]
	if step.ID != "1" {
		t.Errorf("step id = %q, want %q", step.ID, "1")
	}
	if step.Text != "Open mail" {
		t.Errorf("step text = %q", step.Text)
	}
	if step.Minutes != 5 {
		t.Errorf("step minutes = %d, want 5", step.Minutes)
	}
	if step.Completed {
		t.Error("new step should not be completed")
	}
}

func TestExtractTaskCardDefaultMinutes(t *testing.T) {
	reply := "```json\n{\"task_card\":true,\"titulo\":\"T\",\"etapas\":[{\"texto\":\"a\"},{\"texto\":\"b\",\"minutos\":\"15\"}]}\n```"

	_, proposal := ExtractTaskCard(reply)
	if proposal == nil {
		t.Fatal("expected a proposal")
	}
	if proposal.Steps[0].Minutes != 10 {
		t.Errorf("missing minutos = %d, want default 10", proposal.Steps[0].Minutes)
	}
	if proposal.Steps[1].Minutes != 15 {
		t.Errorf("string minutos = %d, want 15", proposal.Steps[1].Minutes)
	}
}

func TestExtractTaskCardRegeneratesIDs(t *testing.T) {
	reply := "```json\n{\"task_card\":true,\"titulo\":\"T\",\"etapas\":[{\"texto\":\"a\"},{\"texto\":\"b\"},{\"texto\":\"c\"}]}\n```"

	_, proposal := ExtractTaskCard(reply)
	if proposal == nil {
		t.Fatal("expected a proposal")
	}
	for i, step := range proposal.Steps {
		want := string(rune('1' + i))
		if step.ID != want {
			t.Errorf("step %d id = %q, want %q", i, step.ID, want)
		}
	}
}

func TestExtractTaskCardRejectsMalformed(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"no fence", "just a plain answer"},
		{"bad json", "```json\n{not json}\n```"},
		{"marker false", "```json\n{\"task_card\":false,\"titulo\":\"T\",\"etapas\":[{\"texto\":\"a\"}]}\n```"},
		{"missing marker", "```json\n{\"titulo\":\"T\",\"etapas\":[{\"texto\":\"a\"}]}\n```"},
		{"empty title", "```json\n{\"task_card\":true,\"titulo\":\"  \",\"etapas\":[{\"texto\":\"a\"}]}\n```"},
		{"no steps", "```json\n{\"task_card\":true,\"titulo\":\"T\",\"etapas\":[]}\n```"},
		{"blank step text", "```json\n{\"task_card\":true,\"titulo\":\"T\",\"etapas\":[{\"texto\":\" \"}]}\n```"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cleaned, proposal := ExtractTaskCard(tc.reply)
			if proposal != nil {
				t.Fatal("expected no proposal")
			}
			if cleaned != tc.reply {
				t.Errorf("text must stay untouched, got %q", cleaned)
			}
		})
	}
}

func TestExtractTaskCardStripsOnlyMatchedBlock(t *testing.T) {
	reply := "```json\n{\"task_card\":true,\"titulo\":\"T\",\"etapas\":[{\"texto\":\"a\"}]}\n```\nAlso:\n```json\n{\"other\":1}\n```"

	cleaned, proposal := ExtractTaskCard(reply)
	if proposal == nil {
		t.Fatal("expected a proposal")
	}
	if cleaned != "Also:\n```json\n{\"other\":1}\n```" {
		t.Errorf("cleaned = %q", cleaned)
	}
}
