package integrity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	"golang.org/x/crypto/openpgp/packet"
)

// newTestSigner generates a throwaway key, writes it to disk the way an
// operator would configure PGP_KEY_PATH, and loads it back.
func newTestSigner(t *testing.T) *PGPSigner {
	t.Helper()

	entity, err := openpgp.NewEntity("predtrack test", "", "test@example.invalid", &packet.Config{RSABits: 1024})
	require.NoError(t, err)

	keyPath := filepath.Join(t.TempDir(), "signing-key.asc")
	f, err := os.Create(keyPath)
	require.NoError(t, err)

	aw, err := armor.Encode(f, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(aw, nil))
	require.NoError(t, aw.Close())
	require.NoError(t, f.Close())

	signer, err := NewPGPSigner(keyPath, "")
	require.NoError(t, err)
	return signer
}

func TestPGPSigner_SignatureVerifiesAgainstKey(t *testing.T) {
	signer := newTestSigner(t)

	const content = "The Fed cuts rates before July|70|2025-07-01|economics,fed|2025-01-15"
	sig, err := signer.Sign(content)
	require.NoError(t, err)

	keyring := openpgp.EntityList{signer.entity}
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, strings.NewReader(content), strings.NewReader(sig))
	require.NoError(t, err)

	// Tampered content must not verify.
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, strings.NewReader(content+"x"), strings.NewReader(sig))
	require.Error(t, err)
}
