package middleware

import (
	"strings"
	"testing"

	"github.com/voxarena/arena-go/internal/model"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid sentence", "The birch canoe slid on the smooth planks.", "The birch canoe slid on the smooth planks.", false},
		{"trims whitespace", "  Glue the sheet to the dark blue background.  ", "Glue the sheet to the dark blue background.", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", strings.Repeat("a", MaxTextLen+1), "", true},
		{"non-English rejected", "Это предложение написано на русском языке и достаточно длинное для надёжного определения.", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateText(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateScript(t *testing.T) {
	line := func(text string, speaker int) model.ScriptLine {
		return model.ScriptLine{Text: text, SpeakerID: speaker}
	}

	tooMany := make([]model.ScriptLine, MaxScriptLines+1)
	for i := range tooMany {
		tooMany[i] = line("Some dialogue.", 1)
	}

	tests := []struct {
		name    string
		input   []model.ScriptLine
		wantErr bool
	}{
		{"valid dialogue", []model.ScriptLine{
			line("Hello there, how are you doing today?", 1),
			line("I am doing quite well, thank you for asking.", 2),
		}, false},
		{"empty script", nil, true},
		{"too many lines", tooMany, true},
		{"empty line", []model.ScriptLine{line("Hello.", 1), line("   ", 2)}, true},
		{"line too long", []model.ScriptLine{line(strings.Repeat("a", MaxLineLen+1), 1)}, true},
		{"bad speaker id", []model.ScriptLine{line("Hello there.", 3)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateScript(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}
}

func TestValidateScriptTrimsLines(t *testing.T) {
	got, errMsg := ValidateScript([]model.ScriptLine{
		{Text: "  Hello there, friend.  ", SpeakerID: 1},
	})
	if errMsg != "" {
		t.Fatalf("unexpected error: %s", errMsg)
	}
	if got[0].Text != "Hello there, friend." {
		t.Errorf("got %q, want trimmed text", got[0].Text)
	}
}

func TestValidateUserAgent(t *testing.T) {
	if got := ValidateUserAgent("  Mozilla/5.0  "); got != "Mozilla/5.0" {
		t.Errorf("got %q, want trimmed", got)
	}
	long := strings.Repeat("x", MaxUserAgentLen+50)
	if got := ValidateUserAgent(long); len(got) != MaxUserAgentLen {
		t.Errorf("got len %d, want %d", len(got), MaxUserAgentLen)
	}
}
