package seocrawl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/seocrawl"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := seocrawl.Errorf(seocrawl.ENOTFOUND, "site crawl for %q not found", "user-1")

	assert.Equal(t, seocrawl.ENOTFOUND, seocrawl.ErrorCode(err))
	assert.Equal(t, "site crawl for \"user-1\" not found", seocrawl.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading crawl: %w", seocrawl.Errorf(seocrawl.EINVALID, "bad url"))

	assert.Equal(t, seocrawl.EINVALID, seocrawl.ErrorCode(err))
	assert.Equal(t, "bad url", seocrawl.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, seocrawl.EINTERNAL, seocrawl.ErrorCode(err))
	assert.Equal(t, "Internal error", seocrawl.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, seocrawl.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, seocrawl.ErrorMessage(nil))
}
