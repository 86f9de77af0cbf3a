package memfile

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsWritableAndSeekable(t *testing.T) {
	f, err := New("job-stdout")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte(`{"all":["1.0","2.0"]}`))
	require.NoError(t, err)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, `{"all":["1.0","2.0"]}`, string(data))
}
