package hailoinfra

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStandardResourceDirs(t *testing.T) {
	fsys := afero.NewMemMapFs()

	require.NoError(t, CreateStandardResourceDirs(fsys, "/opt/hailo"))

	for _, dir := range []string{
		"/opt/hailo/models/hailo8",
		"/opt/hailo/models/hailo8l",
		"/opt/hailo/models/hailo10",
		"/opt/hailo/videos",
		"/opt/hailo/photos",
		"/opt/hailo/gifs",
	} {
		isDir, err := afero.IsDir(fsys, dir)
		require.NoError(t, err, dir)
		assert.True(t, isDir, "expected directory %s", dir)
	}
}

func TestCreateStandardResourceDirsIdempotent(t *testing.T) {
	fsys := afero.NewMemMapFs()

	require.NoError(t, CreateStandardResourceDirs(fsys, "/opt/hailo"))
	require.NoError(t, CreateStandardResourceDirs(fsys, "/opt/hailo"))
}

func TestCreateStandardResourceDirsReadOnly(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := CreateStandardResourceDirs(fsys, "/opt/hailo")
	assert.Error(t, err)
}

func TestModelsDir(t *testing.T) {
	assert.Equal(t, "/opt/hailo/models/hailo8", ModelsDir("/opt/hailo", HailoArch8))
	assert.Equal(t, "/opt/hailo/models/hailo8l", ModelsDir("/opt/hailo", HailoArch8L))
}

func TestVideosDir(t *testing.T) {
	assert.Equal(t, "/opt/hailo/videos", VideosDir("/opt/hailo"))
}
