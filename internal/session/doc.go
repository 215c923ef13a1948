// Package session runs study sessions: one shuffled pass over a snapshot
// of flashcards, recording each answer on the card through the card store
// and reporting accuracy and duration once the pass is complete.
package session
