package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "work", NormalizeTag("  work "))

	// "é" as e + COMBINING ACUTE ACCENT normalizes to the composed form.
	decomposed := "café"
	composed := "café"
	assert.Equal(t, composed, NormalizeTag(decomposed))
}

func TestContainsTag_NormalizesNeedle(t *testing.T) {
	tags := []string{"café", "work"}
	assert.True(t, ContainsTag(tags, "café"))
	assert.True(t, ContainsTag(tags, " work "))
	assert.False(t, ContainsTag(tags, "home"))
}

func TestRemoveTags(t *testing.T) {
	tags := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "c"}, RemoveTags(tags, []string{"b"}))
	assert.Equal(t, []string{"a", "b", "c"}, RemoveTags(tags, []string{"missing"}))
	assert.Empty(t, RemoveTags(tags, []string{"a", "b", "c"}))
}
