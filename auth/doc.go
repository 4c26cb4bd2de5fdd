// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies the bearer tokens handed out by the sign-in service.

# Tokens

Tokens are HS256 JWTs. The subject claim is the player id:

	token, err := auth.IssueToken(playerID, secret, 24*time.Hour)
	playerID, err := auth.ParseToken(token, secret)

ParseToken rejects other signing methods, a wrong issuer and tokens
without an expiry.

# Headers

	token, err := auth.BearerToken(r.Header.Get("Authorization"))
*/
package auth
