// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// MinTokenBytes is the smallest accepted token size (256 bits).
const MinTokenBytes = 32

/*
GenerateSecureToken returns a URL-safe token built from n random bytes.

Parameters:
  - n: int (number of random bytes, raised to MinTokenBytes when smaller)

Returns:
  - string: base64url text without padding
  - error: The random source failed; no fallback value is ever produced
*/
func GenerateSecureToken(n int) (string, error) {
	if n < MinTokenBytes {
		n = MinTokenBytes
	}

	buffer := make([]byte, n)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: random source unavailable: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken returns the hex SHA-256 digest used to store and look up bearer tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
