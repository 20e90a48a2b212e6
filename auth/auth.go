// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SessionTTL is how long a session token stays valid after login.
const SessionTTL = 30 * 24 * time.Hour

// clockSkew tolerates tokens issued slightly ahead of the verifier's clock.
const clockSkew = time.Minute

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrExpiredToken    = errors.New("session expired")
	ErrInvalidPassword = errors.New("invalid email or password")
)

var encoding = base64.RawURLEncoding

// IssueSessionToken returns a bearer token for email issued now.
func IssueSessionToken(email, secret string) string {
	return IssueSessionTokenAt(email, secret, time.Now())
}

// IssueSessionTokenAt returns a bearer token binding the email and issue
// time to the secret.
// Format: base64url(email) "." unix-seconds "." base64url(HMAC-SHA256(secret, email "\n" unix-seconds)).
func IssueSessionTokenAt(email, secret string, issuedAt time.Time) string {
	iat := strconv.FormatInt(issuedAt.Unix(), 10)
	return encoding.EncodeToString([]byte(email)) + "." + iat + "." + encoding.EncodeToString(sign(email, iat, secret))
}

// VerifySessionToken checks the token at the current time.
func VerifySessionToken(token, secret string) (string, error) {
	return VerifySessionTokenAt(token, secret, time.Now())
}

// VerifySessionTokenAt checks the token signature and age at now and
// returns the email it carries.
func VerifySessionTokenAt(token, secret string, now time.Time) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", ErrInvalidToken
	}

	email, err := encoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}
	iat, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	mac, err := encoding.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidToken
	}

	if !hmac.Equal(mac, sign(string(email), parts[1], secret)) {
		return "", ErrInvalidToken
	}

	issuedAt := time.Unix(iat, 0)
	if issuedAt.After(now.Add(clockSkew)) {
		return "", ErrInvalidToken
	}
	if now.Sub(issuedAt) > SessionTTL {
		return "", ErrExpiredToken
	}
	return string(email), nil
}

func sign(email, iat, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(email))
	h.Write([]byte{'\n'})
	h.Write([]byte(iat))
	return h.Sum(nil)
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
