package encryption

import (
	"fmt"
	"strings"
)

const testPrefix = "sealed:"

// TestSealer is a reversible, non-cryptographic Sealer/Opener pair for tests.
// Do not use outside of tests.
type TestSealer struct{}

var (
	_ Sealer = (*TestSealer)(nil)
	_ Opener = (*TestSealer)(nil)
)

func NewTestSealer() *TestSealer { return &TestSealer{} }

func (*TestSealer) Seal(plaintext string) (string, error) {
	return testPrefix + plaintext, nil
}

func (*TestSealer) Open(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, testPrefix) {
		return "", fmt.Errorf("not a test-sealed credential")
	}
	return strings.TrimPrefix(sealed, testPrefix), nil
}
