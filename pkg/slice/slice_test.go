// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/streamvault/pkg/slice"
)

/*
TestSliceHelpers covers Map, Filter and Unique including nil inputs.
*/
func TestSliceHelpers(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, slice.Map([]string{"a", "b"}, strings.ToUpper))
	assert.Nil(t, slice.Map[string, string](nil, strings.ToUpper))

	nonEmpty := slice.Filter([]string{"horror", "", "gore"}, func(s string) bool { return s != "" })
	assert.Equal(t, []string{"horror", "gore"}, nonEmpty)

	assert.Equal(t, []string{"horror", "gore"}, slice.Unique([]string{"horror", "gore", "horror"}))
	assert.Nil(t, slice.Unique[string](nil))
}
