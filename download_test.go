package hailoinfra

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manifestYAML(baseURL string) []byte {
	return []byte(fmt.Sprintf(`
groups:
  default:
    - detection-video
  detection:
    - yolov6n-h8
    - yolov6n-h8l
models:
  yolov6n-h8:
    url: %[1]s/models/yolov6n-h8.hef
    arch: hailo8
  yolov6n-h8l:
    url: %[1]s/models/yolov6n-h8l.hef
    arch: hailo8l
videos:
  detection-video:
    url: %[1]s/videos/detection.mp4
`, baseURL))
}

func TestParseResourceManifest(t *testing.T) {
	m, err := ParseResourceManifest(manifestYAML("http://example.com"))
	require.NoError(t, err)

	assert.Len(t, m.Models, 2)
	assert.Len(t, m.Videos, 1)
	assert.Equal(t, "hailo8l", m.Models["yolov6n-h8l"].Arch)
}

func TestParseResourceManifestErrors(t *testing.T) {
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseResourceManifest([]byte("groups: ["))
		assert.Error(t, err)
	})

	t.Run("missing default group", func(t *testing.T) {
		_, err := ParseResourceManifest([]byte(`
groups:
  detection: []
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default group")
	})

	t.Run("group references unknown resource", func(t *testing.T) {
		_, err := ParseResourceManifest([]byte(`
groups:
  default:
    - ghost
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})
}

func TestResourceManifestSelect(t *testing.T) {
	m, err := ParseResourceManifest(manifestYAML("http://example.com"))
	require.NoError(t, err)

	t.Run("default only", func(t *testing.T) {
		assert.Equal(t, []string{"detection-video"}, m.Select("default", nil))
	})

	t.Run("group adds to default", func(t *testing.T) {
		got := m.Select("detection", nil)
		assert.Equal(t, []string{"detection-video", "yolov6n-h8", "yolov6n-h8l"}, got)
	})

	t.Run("explicit names deduplicated", func(t *testing.T) {
		got := m.Select("default", []string{"yolov6n-h8", "detection-video"})
		assert.Equal(t, []string{"detection-video", "yolov6n-h8"}, got)
	})
}

// newDownloadServer serves fixed bodies for the manifest URLs and counts
// requests per path.
func newDownloadServer(t *testing.T) (*httptest.Server, map[string]int) {
	t.Helper()
	hits := make(map[string]int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits[r.URL.Path]++
		fmt.Fprintf(w, "payload:%s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestDownloaderRun(t *testing.T) {
	srv, hits := newDownloadServer(t)
	m, err := ParseResourceManifest(manifestYAML(srv.URL))
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	dl := &Downloader{FS: fsys, Client: srv.Client(), BaseDir: "/opt/hailo"}

	require.NoError(t, dl.Run(context.Background(), m, HailoArch8, "detection", nil))

	// The hailo8 model and the default video land in the standard layout.
	data, err := afero.ReadFile(fsys, "/opt/hailo/models/hailo8/yolov6n-h8.hef")
	require.NoError(t, err)
	assert.Equal(t, "payload:/models/yolov6n-h8.hef", string(data))

	data, err = afero.ReadFile(fsys, "/opt/hailo/videos/detection-video.mp4")
	require.NoError(t, err)
	assert.Equal(t, "payload:/videos/detection.mp4", string(data))

	// The hailo8l model is skipped on a hailo8 host.
	exists, err := afero.Exists(fsys, "/opt/hailo/models/hailo8/yolov6n-h8l.hef")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Zero(t, hits["/models/yolov6n-h8l.hef"])
}

func TestDownloaderSkipsExisting(t *testing.T) {
	srv, hits := newDownloadServer(t)
	m, err := ParseResourceManifest(manifestYAML(srv.URL))
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys,
		"/opt/hailo/videos/detection-video.mp4", []byte("already here"), 0o644))

	dl := &Downloader{FS: fsys, Client: srv.Client(), BaseDir: "/opt/hailo"}
	require.NoError(t, dl.Run(context.Background(), m, HailoArch8, "default", nil))

	data, err := afero.ReadFile(fsys, "/opt/hailo/videos/detection-video.mp4")
	require.NoError(t, err)
	assert.Equal(t, "already here", string(data), "existing file must not be overwritten")
	assert.Zero(t, hits["/videos/detection.mp4"])
}

func TestDownloaderUnknownNameNonFatal(t *testing.T) {
	srv, _ := newDownloadServer(t)
	m, err := ParseResourceManifest(manifestYAML(srv.URL))
	require.NoError(t, err)

	dl := &Downloader{FS: afero.NewMemMapFs(), Client: srv.Client(), BaseDir: "/opt/hailo"}
	err = dl.Run(context.Background(), m, HailoArch8, "default", []string{"no-such-resource"})
	assert.NoError(t, err, "unknown names are logged, not fatal")
}

func TestDownloaderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	m, err := ParseResourceManifest(manifestYAML(srv.URL))
	require.NoError(t, err)

	dl := &Downloader{FS: afero.NewMemMapFs(), Client: srv.Client(), BaseDir: "/opt/hailo"}
	err = dl.Run(context.Background(), m, HailoArch8, "default", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDownloaderContextCanceled(t *testing.T) {
	srv, _ := newDownloadServer(t)
	m, err := ParseResourceManifest(manifestYAML(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dl := &Downloader{FS: afero.NewMemMapFs(), Client: srv.Client(), BaseDir: "/opt/hailo"}
	err = dl.Run(ctx, m, HailoArch8, "default", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
