// Package invite encodes and decodes invite codes. A code is just the
// invited email in base64; it carries no secrecy and only exists to pass a
// value through a link.
package invite

import (
	"encoding/base64"
	"errors"
)

var ErrInvalidCode = errors.New("invalid invite code")

// Encode turns an email address into an invite code.
func Encode(email string) string {
	return base64.StdEncoding.EncodeToString([]byte(email))
}

// Decode recovers the email address from an invite code.
func Decode(code string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return "", ErrInvalidCode
	}
	return string(b), nil
}
