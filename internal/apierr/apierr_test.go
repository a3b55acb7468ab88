package apierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"not found", NotFound("missing"), KindNotFound},
		{"store", Store("write failed", errors.New("boom")), KindStore},
		{"serialization", Serialization("decode failed", errors.New("boom")), KindSerialization},
		{"internal", Internal("oops", errors.New("boom")), KindInternal},
		{"untyped error defaults to internal", errors.New("plain"), KindInternal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, KindOf(c.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.False(t, IsNotFound(Validation("x")))
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("root cause")
	err := Store("store op failed", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "store op failed")
	assert.Contains(t, err.Error(), "root cause")
}
