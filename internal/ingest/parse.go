package ingest

import (
	"errors"
	"strings"

	"github.com/phrazzld/repeat/internal/domain"
)

// Parse errors.
var (
	// ErrNotACard is returned when a file has neither a complete
	// question/answer pair nor a cloze line.
	ErrNotACard = errors.New("unable to create card")

	// ErrClozeMissingRange is returned when a cloze line has no [hidden] range.
	ErrClozeMissingRange = errors.New("card is a cloze but has no text in []")
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	clozePrefix    = "C:"
)

// ParseCard extracts card content from markdown. Lines are trimmed; when a
// prefix appears more than once the last line wins, and a prefix with no
// text clears the value. A question with an answer makes a basic card and
// takes precedence over a cloze line.
func ParseCard(contents string) (domain.CardContent, error) {
	var question, answer, cloze string

	for _, raw := range strings.Split(contents, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, questionPrefix):
			question = strings.TrimSpace(line[len(questionPrefix):])
		case strings.HasPrefix(line, answerPrefix):
			answer = strings.TrimSpace(line[len(answerPrefix):])
		case strings.HasPrefix(line, clozePrefix):
			cloze = strings.TrimSpace(line[len(clozePrefix):])
		}
	}

	if question != "" && answer != "" {
		return domain.NewBasicContent(question, answer), nil
	}

	if cloze != "" {
		start, end, ok := firstClozeRange(cloze)
		if !ok {
			return domain.CardContent{}, ErrClozeMissingRange
		}
		return domain.NewClozeContent(cloze, start, end)
	}

	return domain.CardContent{}, ErrNotACard
}

// firstClozeRange returns the byte offsets of the first '[' and the first
// ']' after it.
func firstClozeRange(text string) (start, end int, ok bool) {
	start = strings.IndexByte(text, '[')
	if start < 0 {
		return 0, 0, false
	}
	rel := strings.IndexByte(text[start+1:], ']')
	if rel < 0 {
		return 0, 0, false
	}
	return start, start + 1 + rel, true
}
