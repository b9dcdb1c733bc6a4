// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token issuance, password hashing, and ID generation.

# Tokens

Login issues an access/refresh token pair, HS256-signed with the server
secret. Claims carry voter_id, username, is_admin, a token type, and a
random jti used to blacklist refresh tokens on logout:

	access, err := auth.IssueToken(id, username, isAdmin, auth.TokenAccess, ttl, secret)
	principal, err := auth.ParseToken(raw, secret)

The HTTP layer trusts the is_admin claim as given; privileged checks
compare against it.

# Passwords

Passwords are stored as bcrypt hashes. Imported voters start with their
registration number as password and must change it on first login:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
