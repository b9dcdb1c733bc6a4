// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Token type claims
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Principal is the authenticated identity carried by a verified token.
type Principal struct {
	VoterID  string
	Username string
	IsAdmin  bool
	TokenID  string
	Type     string
	Expires  time.Time
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword returns the bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs an HS256 token of the given type for a voter.
func IssueToken(voterID, username string, isAdmin bool, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	jti, err := GenerateID(8)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"voter_id": voterID,
		"username": username,
		"is_admin": isAdmin,
		"type":     tokenType,
		"jti":      jti,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies a signed token and extracts its principal.
func ParseToken(raw string, secret []byte) (Principal, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	voterID, _ := claims["voter_id"].(string)
	username, _ := claims["username"].(string)
	isAdmin, _ := claims["is_admin"].(bool)
	tokenType, _ := claims["type"].(string)
	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)
	if voterID == "" || tokenType == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		VoterID:  voterID,
		Username: username,
		IsAdmin:  isAdmin,
		TokenID:  jti,
		Type:     tokenType,
		Expires:  time.Unix(int64(exp), 0),
	}, nil
}
