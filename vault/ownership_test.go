package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	assert.True(t, CanMutate("alice-id", "alice-id"))
	assert.False(t, CanMutate("alice-id", "bob-id"))
	assert.False(t, CanMutate("alice-id", ""))
	assert.False(t, CanMutate("", "alice-id"))
	assert.False(t, CanMutate("", ""))
}
