// Package ingest turns markdown files into cards.
//
// A card file is plain markdown in which lines starting with "Q:" and "A:"
// hold the question and answer of a basic card, and a line starting with
// "C:" holds a cloze sentence whose first bracketed range is hidden:
//
//	Q: What does FSRS stand for?
//	A: Free Spaced Repetition Scheduler
//
//	C: The capital of Australia is [Canberra].
//
// Other lines are ignored, so cards can carry notes and headings.
package ingest
