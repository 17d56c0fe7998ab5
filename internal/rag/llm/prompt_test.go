package llm

import (
	"strings"
	"testing"

	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
)

func TestBuildUserPrompt(t *testing.T) {
	matches := []commonModels.RetrievedChunk{
		{Citation: commonModels.Citation{DocumentName: "report.pdf", Page: 4, ChunkOrder: 2}, Content: "Revenue grew 12%."},
		{Citation: commonModels.Citation{DocumentName: "notes.txt", Page: 1, ChunkOrder: 0}, Content: "Board approved the plan."},
	}

	prompt := BuildUserPrompt("What happened to revenue?", matches, []string{`{"question":"hi","answer":"hello"}`})

	for _, want := range []string{"[1]", "[2]", "report.pdf", "Revenue grew 12%.", "What happened to revenue?", themesMarker} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}

	if !strings.Contains(prompt, "Recent conversation turns") {
		t.Error("Prompt should include the history section when history is present")
	}
}

func TestBuildUserPrompt_NoHistory(t *testing.T) {
	prompt := BuildUserPrompt("a question", nil, nil)
	if strings.Contains(prompt, "Recent conversation turns") {
		t.Error("Prompt should omit the history section when history is empty")
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantText   string
		wantThemes []string
	}{
		{
			name:       "Answer_With_Themes",
			raw:        "Revenue grew [1].\nTHEMES:\n- growth\n- finance",
			wantText:   "Revenue grew [1].",
			wantThemes: []string{"growth", "finance"},
		},
		{
			name:     "Answer_Without_Themes",
			raw:      "  Just an answer.  ",
			wantText: "Just an answer.",
		},
		{
			name:     "Empty_Themes_Block",
			raw:      "Answer.\nTHEMES:\n",
			wantText: "Answer.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAnswer(tt.raw)
			if got.Text != tt.wantText {
				t.Errorf("Text got %q, want %q", got.Text, tt.wantText)
			}
			if len(got.Themes) != len(tt.wantThemes) {
				t.Fatalf("Themes got %v, want %v", got.Themes, tt.wantThemes)
			}
			for i := range tt.wantThemes {
				if got.Themes[i] != tt.wantThemes[i] {
					t.Errorf("Theme %d got %q, want %q", i, got.Themes[i], tt.wantThemes[i])
				}
			}
		})
	}
}
