package marshal

import (
	"errors"
	"github.com/stretchr/testify/require"
	"testing"
)

func Test_newError(t *testing.T) {
	req := require.New(t)

	t.Run("test error wrapping", func(t *testing.T) {
		err := newError(ErrUnknownType, "FooType")
		req.NotNil(err)
		req.Implements((*error)(nil), err)

		req.Equal(ErrUnknownType, err.err)
		req.True(errors.Is(err, ErrUnknownType))
	})

	t.Run("test error wrapping with context", func(t *testing.T) {
		err := newError(ErrInvalidValue, "expected %d bytes, got %d", 8, 3)
		req.True(errors.Is(err, ErrInvalidValue))
		req.Equal("invalid value: expected 8 bytes, got 3", err.Error())
	})

	t.Run("empty context", func(t *testing.T) {
		err := &Error{err: ErrInvalidTypeExpression}
		req.Equal("invalid type expression", err.Error())
	})
}
