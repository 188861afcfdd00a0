package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareURLRoundTrip(t *testing.T) {
	ids := []string{
		"session_introduction_to_python_1",
		"session_c++_&_friends?_2",
		"session_café_=_3",
	}
	for _, id := range ids {
		u := ShareURL("http://localhost:8501/w/abc/checkin", id)
		got, err := SessionFromURL(u)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestShareURLFormat(t *testing.T) {
	assert.Equal(t,
		"http://localhost:8501?session_code=session_intro_1",
		ShareURL("http://localhost:8501", "session_intro_1"))
}

func TestSessionFromURLMissing(t *testing.T) {
	_, err := SessionFromURL("http://localhost:8501/")
	assert.Error(t, err)
}

func TestPNG(t *testing.T) {
	data, err := PNG("http://localhost:8501?session_code=session_intro_1", 256)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	again, err := PNG("http://localhost:8501?session_code=session_intro_1", 256)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}
