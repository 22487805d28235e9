package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/dimcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("box type", "B7")
		assert.Equal(t, `box type "B7" not found`, err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup: %w", pkgerrors.NewNotFoundError("box type", "B7"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("tolerance.length", -1.0, "must not be negative")
		assert.Equal(t, "validation failed for tolerance.length: must not be negative", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty"}
		assert.Equal(t, "validation failed: empty", err.Error())
	})

	t.Run("carries sentinel", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Field: "dims", Message: "all zero", Err: pkgerrors.ErrDegenerateTriple}
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.True(t, pkgerrors.IsDegenerate(err))
	})
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ParseError
		want string
	}{
		{"file and line", pkgerrors.NewParseError("log", "dims.log", 4, "bad value", nil), "log parse error at dims.log:4: bad value"},
		{"line only", pkgerrors.NewParseError("log", "", 4, "bad value", nil), "log parse error at line 4: bad value"},
		{"file only", pkgerrors.NewParseError("yaml", "catalog.yaml", 0, "bad", nil), "yaml parse error in catalog.yaml: bad"},
		{"bare", pkgerrors.NewParseError("csv", "", 0, "bad", nil), "csv parse error: bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("boom")

	assert.Nil(t, pkgerrors.WrapIO("write", "out.xlsx", nil))
	assert.Nil(t, pkgerrors.WrapParse("yaml", "x", nil))
	assert.Nil(t, pkgerrors.WrapResource("load", "model", "", nil))
	assert.Nil(t, pkgerrors.WrapValidation("f", nil))

	ioErr := pkgerrors.WrapIO("write", "out.xlsx", base)
	var target *pkgerrors.IOError
	require.ErrorAs(t, ioErr, &target)
	assert.Equal(t, "out.xlsx", target.Path)
	assert.ErrorIs(t, ioErr, base)

	locked := pkgerrors.WrapIO("write", "out.xlsx", pkgerrors.ErrFileLocked)
	assert.True(t, pkgerrors.IsFileLocked(locked))

	res := pkgerrors.WrapResource("train", "model", "knn", base)
	assert.Equal(t, "failed to train model knn: boom", res.Error())
}
