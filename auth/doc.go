// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session verification and signing utilities.

# Sessions

Login is handled by an external provider that issues HS256 JWT bearer
tokens. The gateway only verifies them:

	s, err := auth.ParseSession(bearer, secret)
	ctx = auth.WithSession(ctx, s)

The token must carry an expiry and a role claim. The raw token is kept on
the Session so it can be forwarded to the external API.

# Signatures

Sign and Verify create deterministic HMAC-SHA256 signatures over a list of
parts:

	sig := auth.Sign(salt, "approve", proposalID, expiry)
	err := auth.Verify(salt, sig, "approve", proposalID, expiry)

Signatures are URL-safe base64 without padding. Since they are
deterministic, confirmation tokens can be checked without storing them.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Audit entries store a salted hash instead of the client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
