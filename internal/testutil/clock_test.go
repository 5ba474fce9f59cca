package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock(t *testing.T) {
	c := NewFixedClock()
	assert.Equal(t, Epoch, c.Now())
	assert.Equal(t, Epoch, c.Now()) // does not move on its own

	c.Advance(90 * time.Second)
	assert.Equal(t, Epoch.Add(90*time.Second), c.Now())
}
