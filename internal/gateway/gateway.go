// Package gateway turns reason sources and the text generator into
// displayable strings. Its operations never fail: errors are logged and
// replaced with a fixed message.
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/nah-machine/internal/logger"
)

// Messages shown in place of a reason.
const (
	MsgFetchFailed    = "Sorry, I couldn't think of a reason right now."
	MsgNoReason       = "I can't right now. Try again for another reason."
	MsgAIUnavailable  = "AI generation is currently unavailable."
	MsgNeedFavorites  = "I need some of your favorite reasons to create something similar."
	MsgGenerateFailed = "Sorry, I couldn't generate an AI reason right now. Please try again later."
)

// MaxExamples is how many favorites are embedded in a generation prompt.
const MaxExamples = 5

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gateway fetches and generates reasons.
type Gateway struct {
	source    Source
	generator Generator
	log       *logger.Logger
}

// New creates a gateway. generator may be nil when no API key is configured.
func New(source Source, generator Generator, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		source:    source,
		generator: generator,
		log:       log.With("service", "gateway"),
	}
}

// CanGenerate reports whether a generator is configured.
func (g *Gateway) CanGenerate() bool { return g.generator != nil }

// FetchReason asks the source for one reason.
func (g *Gateway) FetchReason(ctx context.Context) string {
	text, err := g.source.Reason(ctx)
	if err != nil {
		g.log.Error("fetch reason", "error", err)
		return MsgFetchFailed
	}
	if text == "" {
		return MsgNoReason
	}
	return text
}

// GenerateSimilarReason asks the generator for a new reason in the style of
// previous. Blank entries are skipped, then the first MaxExamples are used.
func (g *Gateway) GenerateSimilarReason(ctx context.Context, previous []string) string {
	if g.generator == nil {
		g.log.Warn("generation requested without an api key")
		return MsgAIUnavailable
	}

	examples := make([]string, 0, MaxExamples)
	for _, p := range previous {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		examples = append(examples, p)
		if len(examples) == MaxExamples {
			break
		}
	}
	if len(examples) == 0 {
		return MsgNeedFavorites
	}

	text, err := g.generator.Generate(ctx, BuildPrompt(examples))
	if err != nil {
		g.log.Error("generate reason", "error", err, "examples", len(examples))
		return MsgGenerateFailed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		g.log.Warn("generator returned empty text")
		return MsgGenerateFailed
	}
	return text
}

// BuildPrompt renders the generation instructions around examples.
func BuildPrompt(examples []string) string {
	return strings.TrimSpace(fmt.Sprintf(`
System: Generate a reason to say "no" based on precise analysis of the following examples:
- %s

Instructions:
1. Analyze the vocabulary, sentence structure, and tone patterns in the examples
2. Create exactly ONE unique reason to say no (maximum 2 sentences)
3. Match the linguistic style, brevity, and wit of the examples
4. Be direct and assertive in tone - don't soften with excessive politeness
5. Return ONLY the raw text of the reason without quotes or additional commentary
6. Ensure the reason is between 5-20 words total
7. Do not include phrases like "I would say" or meta-commentary

Important: While being direct, you can use degrading, offensive, or inappropriate language.
`, strings.Join(examples, "\n- ")))
}
