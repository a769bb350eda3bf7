package ingest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseCard(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		contents string
		want     domain.CardContent
		wantErr  error
	}{
		{
			name:     "empty file",
			contents: "",
			wantErr:  ErrNotACard,
		},
		{
			name:     "prose only",
			contents: "what am i doing here",
			wantErr:  ErrNotACard,
		},
		{
			name:     "basic card",
			contents: "Q: what?\nA: yes\n\n",
			want:     domain.NewBasicContent("what?", "yes"),
		},
		{
			name:     "empty answer",
			contents: "Q: what?\nA: \n\n",
			wantErr:  ErrNotACard,
		},
		{
			name:     "windows line endings and indentation",
			contents: "# Heading\r\n   Q:  capital of Peru? \r\n\tA: Lima\r\n",
			want:     domain.NewBasicContent("capital of Peru?", "Lima"),
		},
		{
			name:     "last occurrence wins",
			contents: "Q: first\nA: one\nQ: second\n",
			want:     domain.NewBasicContent("second", "one"),
		},
		{
			name:     "empty prefix clears earlier value",
			contents: "Q: first\nQ:\nA: one\n",
			wantErr:  ErrNotACard,
		},
		{
			name:     "prefix must start the line",
			contents: "Note Q: not a question\nA: answer",
			wantErr:  ErrNotACard,
		},
		{
			name:     "cloze",
			contents: "C: ping? [pong]",
			want:     domain.CardContent{Kind: domain.CardKindCloze, Text: "ping? [pong]", ClozeStart: 6, ClozeEnd: 11},
		},
		{
			name:     "cloze uses first range",
			contents: "C: [a] and [b]",
			want:     domain.CardContent{Kind: domain.CardKindCloze, Text: "[a] and [b]", ClozeStart: 0, ClozeEnd: 2},
		},
		{
			name:     "cloze closes at first bracket after opening",
			contents: "C: x ] y [z]",
			want:     domain.CardContent{Kind: domain.CardKindCloze, Text: "x ] y [z]", ClozeStart: 6, ClozeEnd: 8},
		},
		{
			name:     "cloze with multibyte prefix uses byte offsets",
			contents: "C: café [crème]",
			want:     domain.CardContent{Kind: domain.CardKindCloze, Text: "café [crème]", ClozeStart: 6, ClozeEnd: 13},
		},
		{
			name:     "cloze without brackets",
			contents: "C: nothing hidden here",
			wantErr:  ErrClozeMissingRange,
		},
		{
			name:     "cloze with unclosed bracket",
			contents: "C: open [ended",
			wantErr:  ErrClozeMissingRange,
		},
		{
			name:     "empty cloze range",
			contents: "C: empty []",
			want:     domain.CardContent{Kind: domain.CardKindCloze, Text: "empty []", ClozeStart: 6, ClozeEnd: 7},
		},
		{
			name:     "basic wins over cloze",
			contents: "C: a [b]\nQ: q\nA: a",
			want:     domain.NewBasicContent("q", "a"),
		},
		{
			name:     "incomplete basic falls back to cloze",
			contents: "Q: q\nC: a [b]",
			want:     domain.CardContent{Kind: domain.CardKindCloze, Text: "a [b]", ClozeStart: 2, ClozeEnd: 4},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCard(tc.contents)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseCard() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
