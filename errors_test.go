package arena

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Code: CodeCommitFailed, Msg: "failed to commit memory", Err: cause}

	assert.ErrorIs(t, err, ErrCommitFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrOutOfMemory)

	wrapped := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, wrapped, ErrCommitFailed)

	var target *Error
	assert.ErrorAs(t, wrapped, &target)
	assert.Equal(t, CodeCommitFailed, target.Code)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "arena: out of memory", ErrOutOfMemory.Error())
	assert.Equal(t, "arena: init failed: bad align",
		(&Error{Code: CodeInitFailed, Msg: "bad align"}).Error())
	assert.Equal(t, "arena: alloc failed: node: limit",
		(&Error{Code: CodeAllocFailed, Msg: "node", Err: errors.New("limit")}).Error())
}

func TestErrorCode_String(t *testing.T) {
	codes := map[ErrorCode]string{
		CodeNone:         "none",
		CodeInitFailed:   "init failed",
		CodeCommitFailed: "commit failed",
		CodeOutOfMemory:  "out of memory",
		CodeAllocFailed:  "alloc failed",
		CodeOutOfNodes:   "out of nodes",
		ErrorCode(99):    "ErrorCode(99)",
	}
	for code, want := range codes {
		assert.Equal(t, want, code.String())
	}
}
