package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimit(t *testing.T) {
	assert.False(t, IsRateLimit(nil))
	assert.True(t, IsRateLimit(errors.New("google: HTTP 429")))
	assert.True(t, IsRateLimit(errors.New("You are being rate limited.")))
	assert.True(t, IsRateLimit(errors.New("error code rate_limit_exceeded")))
	assert.False(t, IsRateLimit(errors.New("google: HTTP 503")))
}
