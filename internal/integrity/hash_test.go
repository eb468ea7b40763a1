package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predtrack/models"
)

func sampleRecord() *models.Record {
	return &models.Record{
		ID:         "2025-rates-cut",
		Statement:  "The Fed cuts rates before July",
		Confidence: 70,
		Deadline:   "2025-07-01",
		Categories: []string{"economics", "fed"},
		Created:    "2025-01-15",
	}
}

func TestCanonicalContent_FormatContract(t *testing.T) {
	// Field order and delimiter are frozen; previously signed records must
	// verify against exactly this construction.
	got := CanonicalContent(sampleRecord())
	assert.Equal(t, "The Fed cuts rates before July|70|2025-07-01|economics,fed|2025-01-15", got)
}

func TestComputeHash_Deterministic(t *testing.T) {
	rec := sampleRecord()
	first := ComputeHash(rec)
	second := ComputeHash(rec)
	assert.Equal(t, first, second)

	sum := sha256.Sum256([]byte(CanonicalContent(rec)))
	assert.Equal(t, hex.EncodeToString(sum[:]), first)
}

func TestComputeHash_SensitiveToConfidenceOnly(t *testing.T) {
	base := ComputeHash(sampleRecord())

	changed := sampleRecord()
	changed.Confidence = 71
	assert.NotEqual(t, base, ComputeHash(changed))

	// Non-semantic fields do not participate in the hash.
	cosmetic := sampleRecord()
	cosmetic.Evidence = "totally different body"
	cosmetic.Resolution = "resolved by hand"
	cosmetic.Visibility = models.VisibilityPrivate
	assert.Equal(t, base, ComputeHash(cosmetic))
}

func TestVerify(t *testing.T) {
	rec := sampleRecord()
	rec.Hash = ComputeHash(rec)

	ok, _ := Verify(rec)
	assert.True(t, ok)

	rec.Confidence = 90
	ok, expected := Verify(rec)
	assert.False(t, ok)
	assert.NotEqual(t, rec.Hash, expected)
}

func TestAttachProvenance_WithoutSigner(t *testing.T) {
	rec := sampleRecord()
	// TempDir is not a git repository, so only the hash and timestamp land.
	require.NoError(t, AttachProvenance(rec, NullSigner{}, t.TempDir()))

	assert.Equal(t, ComputeHash(rec), rec.Hash)
	assert.NotEmpty(t, rec.Signed)
	assert.Empty(t, rec.PGPSignature)
}

func TestNullSigner(t *testing.T) {
	var s models.Signer = NullSigner{}
	assert.False(t, s.Available())

	sig, err := s.Sign("anything")
	require.NoError(t, err)
	assert.Empty(t, sig)
}

func TestNewSignerFromKeyPath_EmptyPathIsNull(t *testing.T) {
	s, err := NewSignerFromKeyPath("", "")
	require.NoError(t, err)
	assert.False(t, s.Available())
}

func TestNewSignerFromKeyPath_MissingKeyFile(t *testing.T) {
	_, err := NewSignerFromKeyPath("/nonexistent/key.asc", "")
	assert.Error(t, err)
}

func TestPGPSigner_SignatureIsArmoredAndDetached(t *testing.T) {
	signer := newTestSigner(t)
	require.True(t, signer.Available())

	rec := sampleRecord()
	sig, err := signer.Sign(CanonicalContent(rec))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sig, "-----BEGIN PGP SIGNATURE-----"))
	assert.Contains(t, sig, "-----END PGP SIGNATURE-----")
	// Detached: the signed content itself never appears in the armor.
	assert.NotContains(t, sig, rec.Statement)
}
