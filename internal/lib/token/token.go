// Package token generates the short shareable and scannable identifiers
// used across the registration pipeline. All randomness comes from
// crypto/rand; uniqueness is still enforced by the storage layer.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// InviteCodeLen is the length of a team invite code in hex characters.
	InviteCodeLen = 6

	ticketIDPrefix = "TKT-"
)

// NewInviteCode returns a 6-character uppercase hex code. Codes are short
// on purpose (human-shareable), so collisions are possible; callers must
// retry against the storage uniqueness constraint.
func NewInviteCode() (string, error) {
	s, err := randHex(InviteCodeLen / 2)
	if err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}

	return strings.ToUpper(s), nil
}

// NewTicketID returns a human-readable ticket identifier: a fixed prefix
// plus 16 hex characters.
func NewTicketID() (string, error) {
	s, err := randHex(8)
	if err != nil {
		return "", fmt.Errorf("generate ticket id: %w", err)
	}

	return ticketIDPrefix + s, nil
}

// NewQRCode returns the opaque scan payload: 32 hex characters, 128 bits
// of entropy, so collisions are negligible without coordination.
func NewQRCode() (string, error) {
	s, err := randHex(16)
	if err != nil {
		return "", fmt.Errorf("generate qr code: %w", err)
	}

	return s, nil
}

func randHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
