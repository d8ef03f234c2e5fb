// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/streamvault/pkg/identifier"
)

/*
TestKey verifies case folding and normalisation of identifiers.
*/
func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "alice", "alice"},
		{"mixed_case", "AlIcE", "alice"},
		{"email", " Alice@X.com ", "alice@x.com"},
		{"full_width", "ａｌｉｃｅ", "alice"},
		{"german_sharp_s", "STRASSE", "strasse"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identifier.Key(tt.in))
		})
	}

	assert.True(t, identifier.IsEmail("alice@x.com"))
	assert.False(t, identifier.IsEmail("alice"))
}
