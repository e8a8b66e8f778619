package trickle_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/trickle"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Parallel()

	cause := errors.New("read tcp: i/o timeout")
	err := fmt.Errorf("fetch: %w", &trickle.Error{Kind: trickle.KindTimeout, Code: trickle.CloseInternalError, Err: cause})

	assert.Equal(t, trickle.KindTimeout, trickle.ErrorKind(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "fetch: timeout (close 1011): read tcp: i/o timeout", err.Error())
	assert.Equal(t, "abnormal close (close 4000)", (&trickle.Error{Kind: trickle.KindAbnormalClose, Code: 4000}).Error())
}

func TestErrorKind_NotAnError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, trickle.Kind(0), trickle.ErrorKind(errors.New("plain")))
	assert.Equal(t, trickle.Kind(0), trickle.ErrorKind(nil))
	assert.Equal(t, "unknown", trickle.Kind(0).String())
}

func TestAPIError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "HTTP 404: User not found", (&trickle.APIError{Status: 404, Detail: "User not found"}).Error())
	assert.Equal(t, "HTTP 500", (&trickle.APIError{Status: 500}).Error())
}
