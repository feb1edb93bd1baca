// Package store persists clients, their transcriptions and the persona
// generated for each transcription.
//
// Deleting a client removes its transcriptions and personas in one
// transaction; a transcription is only inserted if its client still exists
// inside the same transaction, so a concurrent delete never leaves orphans.
// The schema is versioned SQL under migrations/<driver>, applied by Migrate.
package store
