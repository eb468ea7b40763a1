// Package trail appends belief-revision history to a record. The trail is
// append-only: entries are never edited or removed once written.
package trail

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"predtrack/internal/integrity"
	"predtrack/models"
)

// Append records a confidence revision: it captures the previous confidence,
// moves the record to newConfidence, refreshes the content hash, and pushes a
// timestamped entry onto the trail. gitCommit may be empty when the records
// directory is not under version control.
func Append(rec *models.Record, reasoning string, newConfidence int, gitCommit string) error {
	if rec.IsTerminal() {
		return fmt.Errorf("appending update to %s: %w", rec.ID, models.ErrTerminalRecord)
	}
	if err := models.ValidateConfidence(newConfidence); err != nil {
		return err
	}

	before := rec.Confidence
	rec.Confidence = newConfidence
	hash := integrity.ComputeHash(rec)
	rec.Hash = hash

	rec.Updates = append(rec.Updates, models.UpdateEntry{
		Timestamp:        models.NowTimestamp(),
		ConfidenceBefore: before,
		ConfidenceAfter:  newConfidence,
		Reasoning:        reasoning,
		Hash:             hash,
		GitCommit:        gitCommit,
	})

	logger := log.With().Str("component", "update_trail").Logger()
	logger.Info().
		Str("id", rec.ID).
		Int("before", before).
		Int("after", newConfidence).
		Msg("Appended update")
	return nil
}
