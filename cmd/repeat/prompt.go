package main

import (
	"errors"
	"io"

	"github.com/peterh/liner"
)

// prompter reads one line of input after showing a prompt. It returns
// errPromptDone when the user ends the session with Ctrl-C or Ctrl-D.
type prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

var errPromptDone = errors.New("prompt closed")

type linerPrompter struct {
	state *liner.State
}

func newLinerPrompter() prompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &linerPrompter{state: state}
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return "", errPromptDone
	}
	return line, err
}

func (p *linerPrompter) Close() error {
	return p.state.Close()
}
