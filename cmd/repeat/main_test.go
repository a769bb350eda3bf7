package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers prompts from a fixed list and then reports the
// session as closed, like Ctrl-D.
type scriptedPrompter struct {
	answers []string
	prompts []string
}

func (s *scriptedPrompter) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", errPromptDone
	}
	line := s.answers[0]
	s.answers = s.answers[1:]
	return line, nil
}

func (s *scriptedPrompter) Close() error { return nil }

type result struct {
	out, errOut string
	err         error
}

func runRepeat(t *testing.T, p prompter, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	c := newCLI(&out, &errOut)
	c.newPrompter = func() prompter { return p }
	t.Cleanup(func() { _ = c.close() })

	root := newRootCmd(c)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func writeCards(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestCheck(t *testing.T) {
	cards := writeCards(t, map[string]string{
		"geo/france.md":      "Q: Capital of France?\nA: Paris\n",
		"geo/france-copy.md": "Q: Capital of France?\nA: Paris\n",
		"notes.md":           "nothing to see",
	})
	db := filepath.Join(t.TempDir(), "data", "cards.db")

	res := runRepeat(t, nil, "--db", db, "check", cards)
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, "Found 1 unique cards and registered them to the DB (1 new)")
	assert.Contains(t, res.errOut, "notes.md")

	res = runRepeat(t, nil, "--db", db, "check", cards)
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, "(0 new)")

	assert.FileExists(t, db)
}

func TestCheckRequiresPaths(t *testing.T) {
	res := runRepeat(t, nil, "--db", filepath.Join(t.TempDir(), "cards.db"), "check")
	assert.Error(t, res.err)
}

func TestDrillAndStats(t *testing.T) {
	cards := writeCards(t, map[string]string{
		"a.md": "Q: 2+2?\nA: 4\n",
		"b.md": "C: The sky is [blue].\n",
	})
	db := filepath.Join(t.TempDir(), "cards.db")

	script := &scriptedPrompter{answers: []string{"", "maybe", "p", "", "F"}}
	res := runRepeat(t, script, "--db", db, "drill", cards)

	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Pass, next review in 3 days")
	assert.Contains(t, res.out, "Fail, next review in 1 days")
	assert.Contains(t, res.errOut, "answer p or f")
	assert.Contains(t, res.errOut, "No cards due, 2 reviewed")
	assert.Contains(t, res.out, "Next due:")
	assert.Equal(t, "[Enter] to reveal ", script.prompts[0])

	res = runRepeat(t, nil, "--db", db, "stats")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "  Cards: 2\n")
	assert.Contains(t, res.out, "  Reviewed: 2\n")
	assert.Contains(t, res.out, "  Due now: 0\n")
	assert.Contains(t, res.out, "  Reviews: 2\n")
}

func TestDrillOnlyReviewsGivenPaths(t *testing.T) {
	deckA := writeCards(t, map[string]string{"a.md": "Q: deck A question?\nA: a\n"})
	deckB := writeCards(t, map[string]string{"b.md": "Q: deck B question?\nA: b\n"})
	db := filepath.Join(t.TempDir(), "cards.db")

	res := runRepeat(t, nil, "--db", db, "check", deckA)
	require.NoError(t, res.err)

	res = runRepeat(t, &scriptedPrompter{answers: []string{"", "p", "", "p"}}, "--db", db, "drill", deckB)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "deck B question?")
	assert.NotContains(t, res.out, "deck A question?")
	assert.Contains(t, res.errOut, "No cards due, 1 reviewed")

	res = runRepeat(t, nil, "--db", db, "stats")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "  New: 1\n", "deck A is still unreviewed")
}

func TestDrillShowsMovedPath(t *testing.T) {
	dir := writeCards(t, map[string]string{"old.md": "Q: moved?\nA: yes\n"})
	db := filepath.Join(t.TempDir(), "cards.db")

	res := runRepeat(t, nil, "--db", db, "check", dir)
	require.NoError(t, res.err)
	require.NoError(t, os.Rename(filepath.Join(dir, "old.md"), filepath.Join(dir, "new.md")))

	res = runRepeat(t, &scriptedPrompter{answers: []string{""}}, "--db", db, "drill", dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "new.md")
	assert.NotContains(t, res.out, "old.md")

	res = runRepeat(t, nil, "--db", db, "stats")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "  Cards: 1\n", "moved card keeps its identity")
}

func TestDrillStopsOnAbort(t *testing.T) {
	cards := writeCards(t, map[string]string{"a.md": "Q: 2+2?\nA: 4\n"})
	db := filepath.Join(t.TempDir(), "cards.db")

	res := runRepeat(t, &scriptedPrompter{answers: []string{""}}, "--db", db, "drill", cards)

	require.NoError(t, res.err)
	assert.Contains(t, res.out, "2+2?")
	assert.Contains(t, res.out, "4")
	assert.Contains(t, res.errOut, "Stopped after 0 reviews")

	res = runRepeat(t, nil, "--db", db, "stats")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "  New: 1\n")
}

func TestColorize(t *testing.T) {
	c := newCLI(nil, nil)
	assert.Contains(t, c.colorize(colorGreen, "ok"), "\033[")

	c.noColor = true
	assert.Equal(t, "ok", c.colorize(colorGreen, "ok"))
}
