package noop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()

	c.Set("key", []byte("value"), 60*time.Second)

	entry, found := c.Get("key")
	assert.False(t, found)
	assert.Nil(t, entry)

	// Delete must not panic
	c.Delete("key")
}
