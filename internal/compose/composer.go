// Package compose turns a style preset plus optional free-text instructions
// into the single natural-language prompt handed to the image transformer.
package compose

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"headshot/internal/domain"
)

// styleDescriptions is the fixed base description per preset. The table is
// static on purpose; styles are product decisions, not runtime configuration.
var styleDescriptions = map[domain.StyleChoice]string{
	domain.StyleProfessional: "a polished studio portrait with formal business attire, soft key lighting, and a clean neutral backdrop",
	domain.StyleCasual:       "a natural, approachable portrait with relaxed attire, warm daylight, and a softly blurred everyday background",
	domain.StyleCreative:     "an artistic, dramatic portrait with bold directional lighting, rich color grading, and an expressive backdrop",
}

// identityClause is appended to every prompt regardless of style or free text.
const identityClause = "Preserve the subject's facial identity exactly while improving lighting, background, and overall professionalism."

// Compose builds the transformation prompt. Pure and deterministic: no I/O,
// same inputs always yield the same prompt.
func Compose(style domain.StyleChoice, freeText string) string {
	desc, ok := styleDescriptions[style]
	if !ok {
		desc = styleDescriptions[domain.StyleProfessional]
		style = domain.StyleProfessional
	}

	title := cases.Title(language.Und)
	lines := []string{
		fmt.Sprintf("Transform this photo into a %s style headshot: %s.", title.String(string(style)), desc),
	}
	if ft := strings.TrimSpace(freeText); ft != "" {
		lines = append(lines, "Additional direction: "+ft+".")
	}
	lines = append(lines, identityClause)
	return strings.Join(lines, " ")
}
