package moderation

import (
	"math/rand"
	"strings"
)

// Severity is the tier assigned to a message by lexical screening.
// Heavy dominates Light dominates None.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLight
	SeverityHeavy
)

func (s Severity) String() string {
	switch s {
	case SeverityLight:
		return "light"
	case SeverityHeavy:
		return "heavy"
	default:
		return "none"
	}
}

// ClosingMarker terminates every canned reply.
const ClosingMarker = "\n\n[CONVERSA ENCERRADA]"

var DefaultLightWords = []string{
	"merdinha", "porra", "droga", "raiva", "ódio", "hate",
	"que raiva", "que ódio", "que inferno", "maldito", "maldita",
	"inferno", "demônio", "diabo",
}

var DefaultHeavyWords = []string{
	"puta", "filho da puta", "fdp", "desgraça", "desgraçado",
	"seu filho", "vai se foder", "vai tomar no", "merda demais",
	"que se foda", "foda-se",
}

const heavyResponse = "Como Sócrates ensinava, a verdadeira força vem da compaixão e respeito, não das palavras duras. As palavras curam ou ferem. Estaremos aqui quando estiver em paz. 💜"

var lightResponses = []string{
	"Vamos respirar fundo? Aqui conversamos com amor e respeito. 💜",
	"Parece que você está frustrado... Vamos conversar com educação? 🤗",
	"Aqui valorizamos a gentileza! Vamos recomeçar? 💜",
}

// Moderator performs case-insensitive substring screening against two
// static word lists and selects the canned reply for intercepted messages.
type Moderator struct {
	heavyWords []string
	lightWords []string
	pick       func(n int) int
}

// NewModerator builds a Moderator. Nil word lists fall back to the default
// Portuguese lists; a nil pick falls back to math/rand.
func NewModerator(heavyWords, lightWords []string, pick func(n int) int) *Moderator {
	if heavyWords == nil {
		heavyWords = DefaultHeavyWords
	}
	if lightWords == nil {
		lightWords = DefaultLightWords
	}
	if pick == nil {
		pick = rand.Intn
	}
	return &Moderator{
		heavyWords: heavyWords,
		lightWords: lightWords,
		pick:       pick,
	}
}

// Classify maps text to a severity tier. The heavy list is checked first
// and short-circuits the light list. Pure and total: every input, including
// the empty string, yields a defined tier.
func (m *Moderator) Classify(text string) Severity {
	lower := strings.ToLower(text)

	for _, word := range m.heavyWords {
		if strings.Contains(lower, word) {
			return SeverityHeavy
		}
	}

	for _, word := range m.lightWords {
		if strings.Contains(lower, word) {
			return SeverityLight
		}
	}

	return SeverityNone
}

// Response returns the canned reply for an intercepted message: a fixed
// message for heavy, a random pick from the de-escalation pool for light.
// Only defined for light and heavy; the dispatcher never calls it for none.
func (m *Moderator) Response(severity Severity) string {
	switch severity {
	case SeverityHeavy:
		return heavyResponse + ClosingMarker
	case SeverityLight:
		return lightResponses[m.pick(len(lightResponses))] + ClosingMarker
	default:
		return ""
	}
}

// LightResponsePool exposes the de-escalation pool for membership checks.
func LightResponsePool() []string {
	pool := make([]string, len(lightResponses))
	copy(pool, lightResponses)
	return pool
}
