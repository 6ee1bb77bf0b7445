package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/hostile-planets/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateSessionToken creates a signed HMAC-SHA256 resume token for a player.
//
// The token includes the following standard claims:
//   - Issuer    (iss): the server name
//   - Subject   (sub): the player name
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Example usage:
//
//	token, err := utils.GenerateSessionToken("Hostile Planets server", "Henry", time.Hour, "secret")
func GenerateSessionToken(issuer, player string, tokenDuration time.Duration, signKey string) (models.SessionToken, error) {
	if issuer == "" || player == "" || tokenDuration <= 0 || signKey == "" {
		return models.SessionToken{}, errors.New("invalid params for generating session token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   player,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.SessionToken{}, fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return models.SessionToken{Token: token, SignedString: tokenString, Player: player}, nil
}

// ValidateAndParseSessionToken validates tokenString and extracts the player
// name from its subject.
//
// Validation includes:
//   - HS256 signature verification using tokenSignKey
//   - Issuer (iss) claim check against tokenIssuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence
func ValidateAndParseSessionToken(tokenString, tokenSignKey, tokenIssuer string) (models.SessionToken, error) {
	parsed := &models.SessionToken{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.SessionToken{}, fmt.Errorf("error occurred validating and parsing session token: %w", err)
	}

	player, err := parsed.GetPlayer()
	if err != nil {
		return models.SessionToken{}, err
	}

	return models.SessionToken{
		Token:            token,
		RegisteredClaims: parsed.RegisteredClaims,
		SignedString:     tokenString,
		Player:           player,
	}, nil
}

// GenerateSignKey returns a random hex key for servers configured without
// session.token_sign_key.
func GenerateSignKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating sign key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
