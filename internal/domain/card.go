package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardIDMismatch is returned when a card's ID does not match its content.
	ErrCardIDMismatch = errors.New("card ID does not match its content")
)

// LocalUserID owns every card in the single-user local collection used by
// the command line tool.
var LocalUserID = uuid.MustParse("6f1c6f1e-2c55-4d4c-9d0a-6b7c1b0e5a01")

// CardKind distinguishes question/answer cards from cloze deletions.
type CardKind string

// Supported card kinds.
const (
	CardKindBasic CardKind = "basic"
	CardKindCloze CardKind = "cloze"
)

// clozeMask replaces the hidden range when a cloze card is prompted.
const clozeMask = "[...]"

// CardContent is what the learner sees. Basic cards use Question and Answer.
// Cloze cards use Text, where ClozeStart and ClozeEnd are the byte offsets of
// the opening '[' and the closing ']' of the hidden range.
type CardContent struct {
	Kind       CardKind `json:"kind"`
	Question   string   `json:"question,omitempty"`
	Answer     string   `json:"answer,omitempty"`
	Text       string   `json:"text,omitempty"`
	ClozeStart int      `json:"cloze_start,omitempty"`
	ClozeEnd   int      `json:"cloze_end,omitempty"`
}

// NewBasicContent builds question/answer content.
func NewBasicContent(question, answer string) CardContent {
	return CardContent{Kind: CardKindBasic, Question: question, Answer: answer}
}

// NewClozeContent builds cloze content hiding text[start+1:end].
func NewClozeContent(text string, start, end int) (CardContent, error) {
	c := CardContent{Kind: CardKindCloze, Text: text, ClozeStart: start, ClozeEnd: end}
	if err := c.Validate(); err != nil {
		return CardContent{}, err
	}
	return c, nil
}

// Validate checks that the content is complete for its kind.
func (c CardContent) Validate() error {
	switch c.Kind {
	case CardKindBasic:
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			return fmt.Errorf("%w: basic card needs a question and an answer", ErrInvalidCardContent)
		}
	case CardKindCloze:
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("%w: cloze card needs text", ErrInvalidCardContent)
		}
		if c.ClozeStart < 0 || c.ClozeEnd <= c.ClozeStart || c.ClozeEnd >= len(c.Text) ||
			c.Text[c.ClozeStart] != '[' || c.Text[c.ClozeEnd] != ']' {
			return fmt.Errorf("%w: cloze range [%d,%d] is not a bracket pair",
				ErrInvalidCardContent, c.ClozeStart, c.ClozeEnd)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCardContent, c.Kind)
	}
	return nil
}

// Prompt is the side shown before the answer is revealed.
func (c CardContent) Prompt() string {
	if c.Kind == CardKindCloze {
		return c.Text[:c.ClozeStart] + clozeMask + c.Text[c.ClozeEnd+1:]
	}
	return c.Question
}

// Reveal is the side shown after the learner answers.
func (c CardContent) Reveal() string {
	if c.Kind == CardKindCloze {
		return c.Text[c.ClozeStart+1 : c.ClozeEnd]
	}
	return c.Answer
}

// canonical is the stable text card identity is derived from.
func (c CardContent) canonical() string {
	if c.Kind == CardKindCloze {
		return fmt.Sprintf("C:%s", c.Text)
	}
	return fmt.Sprintf("Q:%s\nA:%s", c.Question, c.Answer)
}

// CardIDFor derives the identity of a card from its owner and content.
// Registering the same content twice yields the same ID; editing a card
// yields a new one, which starts over as a new card.
func CardIDFor(userID uuid.UUID, content CardContent) uuid.UUID {
	return uuid.NewSHA1(userID, []byte(content.canonical()))
}

// Card is a flashcard parsed from a markdown file.
type Card struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	SourcePath string      `json:"source_path"`
	Content    CardContent `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewCard creates a Card owned by userID. The ID is derived from the content.
func NewCard(userID uuid.UUID, sourcePath string, content CardContent) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:         CardIDFor(userID, content),
		UserID:     userID,
		SourcePath: sourcePath,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if err := c.Content.Validate(); err != nil {
		return err
	}

	if c.ID != CardIDFor(c.UserID, c.Content) {
		return ErrCardIDMismatch
	}

	return nil
}
