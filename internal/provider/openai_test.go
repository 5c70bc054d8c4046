package provider

import "testing"

func TestIsSilence(t *testing.T) {
	cases := map[string]bool{
		"":            true,
		"[silêncio]":  true,
		"[silencio]":  true,
		"[SILENCE]":   true,
		"pagar conta": false,
	}
	for text, want := range cases {
		if got := isSilence(text); got != want {
			t.Fatalf("isSilence(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestSetModel(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o-mini"})
	if p.CurrentModel() != "gpt-4o-mini" {
		t.Fatalf("model = %q", p.CurrentModel())
	}
	if err := p.SetModel("  "); err == nil {
		t.Fatal("blank model must be rejected")
	}
	if err := p.SetModel("gpt-4o"); err != nil {
		t.Fatal(err)
	}
	if p.CurrentModel() != "gpt-4o" {
		t.Fatalf("model = %q after switch", p.CurrentModel())
	}
}
