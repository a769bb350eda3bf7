package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many files are read at once.
const DefaultConcurrency = 8

// Document is the raw text of one card file.
type Document struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Skipped records a file that did not yield a card.
type Skipped struct {
	Path string
	Err  error
}

// Result is the outcome of turning documents into cards.
type Result struct {
	// Cards holds one card per distinct content, in path order.
	Cards []*domain.Card
	// Skipped lists documents that are not valid cards.
	Skipped []Skipped
	// Duplicates counts documents whose content repeated an earlier card.
	Duplicates int
}

// BuildCards parses documents into cards owned by userID. Documents that do
// not parse are reported in Skipped; documents with identical content
// collapse into the first one.
func BuildCards(userID uuid.UUID, docs []Document) *Result {
	result := &Result{}
	seen := make(map[uuid.UUID]struct{}, len(docs))

	for _, doc := range docs {
		content, err := ParseCard(doc.Content)
		if err != nil {
			result.Skipped = append(result.Skipped, Skipped{Path: doc.Path, Err: err})
			continue
		}

		card, err := domain.NewCard(userID, doc.Path, content)
		if err != nil {
			result.Skipped = append(result.Skipped, Skipped{Path: doc.Path, Err: err})
			continue
		}

		if _, dup := seen[card.ID]; dup {
			result.Duplicates++
			continue
		}
		seen[card.ID] = struct{}{}
		result.Cards = append(result.Cards, card)
	}

	return result
}

// Loader reads card files from disk.
type Loader struct {
	logger      *slog.Logger
	concurrency int
}

// NewLoader creates a Loader. A nil logger falls back to slog.Default().
func NewLoader(log *slog.Logger, concurrency int) *Loader {
	if log == nil {
		log = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Loader{
		logger:      log.With(slog.String("component", "ingest")),
		concurrency: concurrency,
	}
}

// Load discovers the markdown files under paths, reads them concurrently and
// parses them into cards owned by userID.
func (l *Loader) Load(ctx context.Context, userID uuid.UUID, paths []string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, l.logger)

	files, err := Discover(paths)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(files))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			docs[i] = Document{Path: file, Content: string(data)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := BuildCards(userID, docs)
	for _, s := range result.Skipped {
		log.DebugContext(ctx, "skipping file",
			slog.String("path", s.Path),
			slog.String("error", s.Err.Error()))
	}
	log.InfoContext(ctx, "loaded cards",
		slog.Int("files", len(files)),
		slog.Int("cards", len(result.Cards)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("duplicates", result.Duplicates))

	return result, nil
}
