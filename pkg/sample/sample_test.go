package sample

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource(t *testing.T) {
	src := string(Source)

	assert.True(t, strings.HasPrefix(src, "def "+FunctionName+"(users):\n"))
	assert.True(t, strings.HasSuffix(src, "    return suspicious_users\n"))
	assert.Equal(t, 29, strings.Count(src, "\n"))
}
