package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldApply(t *testing.T) {
	assert.False(t, shouldApply("me", `{"origin":"me","at":1}`))
	assert.True(t, shouldApply("me", `{"origin":"other","at":1}`))
	assert.True(t, shouldApply("me", `not json`))
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "priceboard:cache-clear", GenerateKey("priceboard", "cache-clear"))
}
