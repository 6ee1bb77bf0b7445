package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken wraps a resume token issued on join.
//
// It embeds [jwt.Token] for signing and parsing and [jwt.RegisteredClaims]
// for the standard claims. The "sub" claim carries the player name.
type SessionToken struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent to the client.
	SignedString string `json:"-"`

	// Player is the player name taken from the "sub" claim.
	Player string `json:"-"`
}

// GetPlayer returns the player name from the "sub" claim.
func (t *SessionToken) GetPlayer() (string, error) {
	name, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting player from token: %w", err)
	}
	if name == "" {
		return "", errors.New("token has an empty subject")
	}
	return name, nil
}

// String returns the compact JWS serialization of the token.
func (t *SessionToken) String() string {
	return t.SignedString
}
