// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec holds the cryptographic primitives shared by the identity domain.

Contents:

  - BcryptHasher: adaptive, salted password hashing with constant-time verification.
  - Tokens: opaque bearer tokens drawn from the process-wide CSPRNG.
  - Roles: the authorization hierarchy attached to every account.
  - Principal: the authenticated identity carried through a request context.
*/
package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when a caller attempts to hash an empty secret.
var ErrEmptyPassword = errors.New("sec: password must not be empty")

// BcryptHasher hashes and verifies secrets with bcrypt at a fixed work factor.
//
// A zero-value hasher uses [bcrypt.DefaultCost].
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher for the given work factor.
//
// Out-of-range costs fall back to [bcrypt.DefaultCost].
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

/*
Hash derives a salted bcrypt hash from the plaintext.

Every call embeds a fresh random salt, so hashing the same secret twice
yields two different encodings that both verify.

Returns:
  - string: Encoded hash ($2a$<cost>$...)
  - error: ErrEmptyPassword, or bcrypt.ErrPasswordTooLong for inputs over 72 bytes
*/
func (hasher *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), hasher.workFactor())
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plaintext with a stored hash in constant time.
//
// Malformed or non-bcrypt encodings report false.
func (hasher *BcryptHasher) Verify(plaintext, encoded string) bool {
	if plaintext == "" || encoded == "" {
		return false
	}
	if _, err := bcrypt.Cost([]byte(encoded)); err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
}

// NeedsRehash reports whether the stored hash was produced with a different work factor.
func (hasher *BcryptHasher) NeedsRehash(encoded string) bool {
	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return true
	}
	return cost != hasher.workFactor()
}

func (hasher *BcryptHasher) workFactor() int {
	if hasher == nil || hasher.cost == 0 {
		return bcrypt.DefaultCost
	}
	return hasher.cost
}
