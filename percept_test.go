package percept_test

import (
	"testing"

	"github.com/fwojciec/percept"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := percept.Errorf(percept.ENOTFOUND, "no rule matches %q", "https://example.com")

	assert.Equal(t, percept.ENOTFOUND, percept.ErrorCode(err))
	assert.Equal(t, "no rule matches \"https://example.com\"", percept.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, percept.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, percept.EINTERNAL, percept.ErrorCode(assert.AnError))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, percept.ErrorMessage(nil))
}
