package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutineTextKey(t *testing.T) {
	key := RoutineTextKey("6650f1a2b3c4d5e6f7a8b9c0")
	assert.Regexp(t, regexp.MustCompile(`^routines/6650f1a2b3c4d5e6f7a8b9c0/[0-9a-f-]{36}\.txt$`), key)
	assert.NotEqual(t, key, RoutineTextKey("6650f1a2b3c4d5e6f7a8b9c0"))
}
