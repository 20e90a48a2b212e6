// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session tokens and password hashing.

# Session Tokens

After a successful login the server issues an HMAC-SHA256 token:

	token := auth.IssueSessionToken(email, secret)
	email, err := auth.VerifySessionToken(token, secret)

The token carries the email in URL-safe base64, the issue time in unix
seconds and the signature over both. Tokens older than SessionTTL fail
with ErrExpiredToken; there is no server-side session to revoke.
Nothing is stored server side; rotating the secret logs everyone out.
Clients send it as "Authorization: Bearer <token>".

# Passwords

Player passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err := auth.CheckPassword(hash, password)

CheckPassword returns ErrInvalidPassword on any mismatch.
*/
package auth
