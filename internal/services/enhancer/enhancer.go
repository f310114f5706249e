package enhancer

import (
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
)

var (
	listTitlePattern    = regexp.MustCompile(`^(\s*(?:\d+\.|[-*])\s+)([A-Z][^:\n]{2,80}?)(:)(\s+)`)
	quotedPattern       = regexp.MustCompile(`"([^"\n]{3,120})"`)
	listSentencePattern = regexp.MustCompile(`^(\s*(?:\d+\.|[-*])\s+)([A-Za-z][^\n]*)$`)
)

// auxOrVerb tokens end the leading noun phrase.
var auxOrVerb = map[string]struct{}{
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "being": {}, "been": {},
	"has": {}, "have": {}, "had": {},
	"can": {}, "could": {}, "may": {}, "might": {}, "must": {},
	"shall": {}, "should": {}, "will": {}, "would": {},
	"does": {}, "do": {}, "did": {},
}

// pronounOnly phrases are never worth bolding on their own.
var pronounOnly = map[string]struct{}{
	"it": {}, "there": {}, "this": {}, "that": {},
}

// Service adds lightweight markdown emphasis to model answers that come back
// without formatting of their own. Purely lexical; text already carrying
// bold markers passes through unchanged, so enhancing twice is a no-op.
type Service struct {
	logger arbor.ILogger
}

func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Enhance applies the heuristics in order: bold list item titles before a
// colon, bold a concise leading noun phrase on enumerated sentences without
// one, then bold the first quoted phrase in the whole answer.
func (s *Service) Enhance(answer string) string {
	lines := strings.Split(answer, "\n")

	for i, line := range lines {
		lines[i] = boldListTitle(line)
	}
	for i, line := range lines {
		lines[i] = boldInitialNounPhrase(line)
	}

	enhanced := strings.Join(lines, "\n")
	enhanced = boldFirstQuotedPhrase(enhanced)

	s.logger.Debug().
		Int("original_length", len(answer)).
		Int("enhanced_length", len(enhanced)).
		Msg("Markdown enhancement complete")

	return enhanced
}

// boldListTitle bolds a list item's title segment before its first colon.
func boldListTitle(line string) string {
	m := listTitlePattern.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	prefix, title, colon, space := m[1], m[2], m[3], m[4]
	if strings.Contains(title, "**") {
		return line
	}
	return prefix + "**" + strings.TrimSpace(title) + "**" + colon + space + line[len(m[0]):]
}

// boldFirstQuotedPhrase bolds the first quoted phrase, which usually names a
// document or section. Only the first occurrence is touched.
func boldFirstQuotedPhrase(text string) string {
	loc := quotedPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}
	phrase := text[loc[2]:loc[3]]
	if strings.Contains(phrase, "**") {
		return text
	}
	return text[:loc[0]] + `"**` + strings.TrimSpace(phrase) + `**"` + text[loc[1]:]
}

// boldInitialNounPhrase bolds a concise leading noun phrase on enumerated
// sentences that have no colon: stop before the first auxiliary or verb
// token, cap at six tokens, keep at least two.
func boldInitialNounPhrase(line string) string {
	if strings.Contains(line, "**") {
		return line
	}

	m := listSentencePattern.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	prefix, rest := m[1], m[2]
	if strings.Contains(rest, ":") {
		return line
	}

	tokens := strings.Fields(rest)
	if len(tokens) < 2 {
		return line
	}

	endIdx := 0
	for i, tok := range tokens {
		raw := strings.TrimRight(tok, ".,;:!?")
		lower := strings.ToLower(raw)

		if i > 0 {
			if _, stop := auxOrVerb[lower]; stop || strings.HasSuffix(raw, ":") {
				break
			}
		}
		if i == 5 {
			endIdx = i
			break
		}

		endIdx = i
		if _, stop := auxOrVerb[lower]; stop {
			break
		}
	}

	phraseTokens := tokens[:endIdx+1]
	if len(phraseTokens) == 1 {
		if _, skip := pronounOnly[strings.ToLower(phraseTokens[0])]; skip {
			return line
		}
	}

	remainder := strings.Join(tokens[endIdx+1:], " ")
	if remainder == "" {
		return line
	}

	return prefix + "**" + strings.Join(phraseTokens, " ") + "** " + remainder
}
