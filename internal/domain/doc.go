// Package domain contains the entities shared by every layer of repeat:
// flashcards parsed from markdown, users, the two review outcomes, and the
// per-card performance record produced by the scheduler. It has no knowledge
// of storage or transport.
package domain
