package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"predtrack/models"
)

// CanonicalContent builds the exact byte string the content hash and any
// detached signature cover. Field order and the "|" delimiter are a format
// contract: previously signed records must verify against this construction
// forever, so it must never change.
func CanonicalContent(rec *models.Record) string {
	parts := []string{
		rec.Statement,
		strconv.Itoa(rec.Confidence),
		rec.Deadline,
		strings.Join(rec.Categories, ","),
		rec.Created,
	}
	return strings.Join(parts, "|")
}

// ComputeHash returns the SHA-256 fingerprint of the record's semantic
// content as lowercase hex.
func ComputeHash(rec *models.Record) string {
	sum := sha256.Sum256([]byte(CanonicalContent(rec)))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the fingerprint and compares it to the stored one.
// Records that were never hashed verify trivially false with an empty
// expected value.
func Verify(rec *models.Record) (ok bool, expected string) {
	expected = ComputeHash(rec)
	return rec.Hash == expected, expected
}

// CurrentCommit returns HEAD of the git repository containing dir. Records
// normally live inside the site's content repository, so this anchors a
// record to the commit it was stamped at.
func CurrentCommit(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse in %s: %w", dir, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// AttachProvenance stamps the record with its content hash, the current git
// commit, a signing timestamp, and (when a key is configured) a detached PGP
// signature. Missing git or signing tooling degrades to a plain hash stamp;
// only an actual signing failure is an error.
func AttachProvenance(rec *models.Record, signer models.Signer, repoDir string) error {
	logger := log.With().Str("component", "integrity").Logger()

	rec.Hash = ComputeHash(rec)
	rec.Signed = models.NowTimestamp()

	commit, err := CurrentCommit(repoDir)
	if err != nil {
		logger.Warn().Err(err).Msg("No git commit available, stamping hash only")
	} else {
		rec.GitCommit = commit
	}

	if signer == nil || !signer.Available() {
		logger.Info().Str("id", rec.ID).Msg("Signing key not configured, skipping signature")
		return nil
	}
	sig, err := signer.Sign(CanonicalContent(rec))
	if err != nil {
		return fmt.Errorf("signing record %s: %w", rec.ID, err)
	}
	rec.PGPSignature = sig
	logger.Info().Str("id", rec.ID).Msg("Attached detached signature")
	return nil
}
