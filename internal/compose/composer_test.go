package compose

import (
	"strings"
	"testing"

	"headshot/internal/domain"
)

func TestComposeOmitsFreeTextWhenEmpty(t *testing.T) {
	prompt := Compose(domain.StyleProfessional, "")
	if strings.Contains(prompt, "Additional direction") {
		t.Fatalf("prompt should not mention free text: %q", prompt)
	}
	if !strings.Contains(prompt, "studio portrait") {
		t.Fatalf("prompt missing professional base description: %q", prompt)
	}
}

func TestComposeIncludesFreeText(t *testing.T) {
	prompt := Compose(domain.StyleCasual, "outdoor setting")
	if !strings.Contains(prompt, "outdoor setting") {
		t.Fatalf("prompt missing free text: %q", prompt)
	}
}

func TestComposeAlwaysIncludesIdentityClause(t *testing.T) {
	for _, style := range []domain.StyleChoice{domain.StyleProfessional, domain.StyleCasual, domain.StyleCreative} {
		for _, freeText := range []string{"", "wearing glasses"} {
			prompt := Compose(style, freeText)
			if !strings.Contains(prompt, "Preserve the subject's facial identity") {
				t.Fatalf("Compose(%q, %q) missing identity clause: %q", style, freeText, prompt)
			}
		}
	}
}

func TestComposeDeterministic(t *testing.T) {
	a := Compose(domain.StyleCreative, "dramatic shadows")
	b := Compose(domain.StyleCreative, "dramatic shadows")
	if a != b {
		t.Fatalf("Compose is not deterministic:\n%q\n%q", a, b)
	}
}

func TestComposeUnknownStyleFallsBackToProfessional(t *testing.T) {
	prompt := Compose(domain.StyleChoice("vaporwave"), "")
	if !strings.Contains(prompt, "studio portrait") {
		t.Fatalf("unknown style should use the professional base: %q", prompt)
	}
}

func TestComposeDistinctBasePerStyle(t *testing.T) {
	seen := map[string]domain.StyleChoice{}
	for _, style := range []domain.StyleChoice{domain.StyleProfessional, domain.StyleCasual, domain.StyleCreative} {
		prompt := Compose(style, "")
		if prior, dup := seen[prompt]; dup {
			t.Fatalf("styles %q and %q compose identical prompts", prior, style)
		}
		seen[prompt] = style
	}
}
