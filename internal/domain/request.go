package domain

import "strings"

// StyleChoice selects one of the fixed stylistic presets that drive the
// transformation prompt.
type StyleChoice string

const (
	StyleProfessional StyleChoice = "professional"
	StyleCasual       StyleChoice = "casual"
	StyleCreative     StyleChoice = "creative"
)

// NormalizeStyle sanitizes free-form user input into a supported style.
func NormalizeStyle(style string) StyleChoice {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case string(StyleCasual):
		return StyleCasual
	case string(StyleCreative):
		return StyleCreative
	default:
		return StyleProfessional
	}
}

const (
	MinQuantity     = 1
	MaxQuantity     = 10
	DefaultQuantity = 4
)

// GenerationRequest carries the complete set of user-chosen parameters for
// one transformation attempt.
type GenerationRequest struct {
	Style    StyleChoice
	FreeText string
	Quantity int
}

// DefaultGenerationRequest returns the request every session starts with and
// returns to on Reset.
func DefaultGenerationRequest() GenerationRequest {
	return GenerationRequest{
		Style:    StyleProfessional,
		Quantity: DefaultQuantity,
	}
}

// ClampQuantity forces a requested quantity into the supported [1,10] range.
// Out-of-range adjustments land on the nearest bound instead of failing.
func ClampQuantity(quantity int) int {
	if quantity < MinQuantity {
		return MinQuantity
	}
	if quantity > MaxQuantity {
		return MaxQuantity
	}
	return quantity
}
