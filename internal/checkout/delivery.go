package checkout

import (
	"strings"

	"materiaux-bot/internal/session"
)

// Delivery option labels as shown on the keyboard. Matching is by
// substring so a typed reply counts the same as a button tap.
const (
	LabelDeliveryStandard = "Standard (2–4 jours) — 0 Ar"
	LabelDeliveryExpress  = "Express (24–48h) — 20000 Ar"
)

// MatchDeliveryChoice resolves free text to a delivery type. Text that
// names neither option re-prompts rather than defaulting to Standard,
// so a stray message cannot silently pick a delivery mode.
func MatchDeliveryChoice(text string) (session.DeliveryType, bool) {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "express"):
		return session.DeliveryExpress, true
	case strings.Contains(t, "standard"):
		return session.DeliveryStandard, true
	default:
		return "", false
	}
}
