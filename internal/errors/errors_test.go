package errors_test

import (
	"fmt"
	"testing"

	"github.com/redsource/redsource-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	err := errors.Wrapf(errors.ErrNotFound, "user %s", "u-1")
	require.EqualError(t, err, "user u-1: not found")
	require.True(t, errors.Is(err, errors.ErrNotFound))
	require.Equal(t, errors.ErrNotFound, errors.Cause(err))

	outer := errors.Wrapf(err, "[Login] lookup")
	require.True(t, errors.Is(outer, errors.ErrNotFound))
	require.False(t, errors.Is(outer, errors.ErrAlreadyExists))
	require.Contains(t, fmt.Sprintf("%+v", outer), "TestWrapf")

	require.NoError(t, errors.Wrapf(nil, "nothing"))
}
