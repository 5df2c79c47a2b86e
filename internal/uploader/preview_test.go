package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_ClosesOnLastRelease(t *testing.T) {
	closer := &countingCloser{}
	p := NewPreview("sofa.jpg", closer)

	require.True(t, p.Retain())
	require.NoError(t, p.Release())
	assert.Equal(t, 0, closer.count())
	assert.False(t, p.Released())

	require.NoError(t, p.Release())
	assert.Equal(t, 1, closer.count())
	assert.True(t, p.Released())

	require.NoError(t, p.Release())
	assert.Equal(t, 1, closer.count())
	assert.False(t, p.Retain())
}
