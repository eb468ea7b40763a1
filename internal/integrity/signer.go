package integrity

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/openpgp"

	"predtrack/models"
)

// NullSigner is the default when no signing key is configured. It reports
// unavailable so callers skip signing entirely.
type NullSigner struct{}

func (NullSigner) Available() bool {
	return false
}

func (NullSigner) Sign(string) (string, error) {
	return "", nil
}

// PGPSigner produces armored detached signatures with a local private key.
type PGPSigner struct {
	entity *openpgp.Entity
}

// NewPGPSigner loads an armored private key from keyPath. An encrypted key is
// decrypted with passphrase.
func NewPGPSigner(keyPath, passphrase string) (*PGPSigner, error) {
	f, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("opening signing key: %w", err)
	}
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("reading signing key %s: %w", keyPath, err)
	}

	for _, entity := range entities {
		if entity.PrivateKey == nil {
			continue
		}
		if entity.PrivateKey.Encrypted {
			if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return nil, fmt.Errorf("decrypting signing key: %w", err)
			}
		}
		return &PGPSigner{entity: entity}, nil
	}
	return nil, fmt.Errorf("no private key in %s", keyPath)
}

func (s *PGPSigner) Available() bool {
	return s != nil && s.entity != nil
}

// Sign returns an armored detached signature over content.
func (s *PGPSigner) Sign(content string) (string, error) {
	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSignText(&buf, s.entity, strings.NewReader(content), nil); err != nil {
		return "", fmt.Errorf("detached sign: %w", err)
	}
	return buf.String(), nil
}

// NewSignerFromKeyPath picks the real signer when a key path is configured
// and the null signer otherwise.
func NewSignerFromKeyPath(keyPath, passphrase string) (models.Signer, error) {
	if keyPath == "" {
		return NullSigner{}, nil
	}
	return NewPGPSigner(keyPath, passphrase)
}
