// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/streamvault/internal/platform/sec"
)

/*
TestGenerateSecureToken verifies entropy size, URL safety and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	seen := make(map[string]struct{})

	for range 64 {
		token, err := sec.GenerateSecureToken(sec.MinTokenBytes)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, sec.MinTokenBytes)
		assert.NotContains(t, token, "=")
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")

		_, duplicate := seen[token]
		assert.False(t, duplicate)
		seen[token] = struct{}{}
	}

	// Requests below 256 bits are raised to the minimum
	short, err := sec.GenerateSecureToken(4)
	require.NoError(t, err)
	raw, err := base64.RawURLEncoding.DecodeString(short)
	require.NoError(t, err)
	assert.Len(t, raw, sec.MinTokenBytes)
}

/*
TestHashToken checks the digest is stable and hex encoded.
*/
func TestHashToken(t *testing.T) {
	assert.Equal(t, sec.HashToken("abc"), sec.HashToken("abc"))
	assert.NotEqual(t, sec.HashToken("abc"), sec.HashToken("abd"))
	assert.Len(t, sec.HashToken("abc"), 64)
}

/*
TestUserRole_AtLeast checks the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.True(t, sec.RolePremium.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RolePremium))
	assert.False(t, sec.UserRole("ghost").IsValid())
	assert.True(t, (&sec.Principal{Role: sec.RoleAdmin}).IsAdmin())

	var anonymous *sec.Principal
	assert.False(t, anonymous.IsAdmin())
}
