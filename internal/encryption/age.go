// Package encryption seals the access token for transport between the CLI
// and the orchestrator, so the raw credential never crosses the wire.
package encryption

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
)

// Sealer encrypts a credential for transmission to the scheduling service.
type Sealer interface {
	// Seal returns the credential encrypted to the service, encoded so it
	// is safe to embed in a JSON payload.
	Seal(plaintext string) (string, error)
}

// Opener is the service-side counterpart of Sealer.
type Opener interface {
	// Open recovers the credential from its sealed form.
	Open(sealed string) (string, error)
}

// AgeSealer implements Sealer using filippo.io/age with the service's X25519
// recipient key. The sealed form is base64-encoded age ciphertext.
type AgeSealer struct {
	recipientPath string
}

var _ Sealer = (*AgeSealer)(nil)

// NewAgeSealer creates an AgeSealer reading the recipient key from the given path.
func NewAgeSealer(recipientPath string) *AgeSealer {
	return &AgeSealer{recipientPath: recipientPath}
}

func (s *AgeSealer) Seal(plaintext string) (string, error) {
	recipient, err := s.loadRecipient()
	if err != nil {
		return "", fmt.Errorf("loading recipient key: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return "", fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("sealing credential: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing sealed credential: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *AgeSealer) loadRecipient() (age.Recipient, error) {
	data, err := os.ReadFile(s.recipientPath)
	if err != nil {
		return nil, fmt.Errorf("reading recipient key: %w", err)
	}

	recipients, err := age.ParseRecipients(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing recipient key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in key file")
	}
	return recipients[0], nil
}

// AgeOpener implements Opener holding the service's age identity.
type AgeOpener struct {
	identity age.Identity
}

var _ Opener = (*AgeOpener)(nil)

// NewAgeOpener parses an age identity from its textual form (the contents of
// the service's private key, typically injected at deploy time).
func NewAgeOpener(identityText string) (*AgeOpener, error) {
	identities, err := age.ParseIdentities(strings.NewReader(identityText))
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found")
	}
	return &AgeOpener{identity: identities[0]}, nil
}

func (o *AgeOpener) Open(sealed string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decoding sealed credential: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), o.identity)
	if err != nil {
		return "", fmt.Errorf("opening sealed credential: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading credential: %w", err)
	}
	return string(plaintext), nil
}

// GenerateKeyPair creates a fresh X25519 key pair for the service, returning
// (recipient, identity) in their textual forms.
func GenerateKeyPair() (string, string, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return "", "", fmt.Errorf("generating key pair: %w", err)
	}
	return identity.Recipient().String(), identity.String(), nil
}
