package hailoinfra

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ResourceManifest lists downloadable models and sample videos and groups
// them into install profiles.
type ResourceManifest struct {
	Groups map[string][]string      `yaml:"groups"`
	Models map[string]ModelResource `yaml:"models"`
	Videos map[string]VideoResource `yaml:"videos"`
}

// ModelResource is a compiled network for one accelerator variant.
type ModelResource struct {
	URL  string `yaml:"url"`
	Arch string `yaml:"arch"`
}

// VideoResource is a sample clip.
type VideoResource struct {
	URL string `yaml:"url"`
}

// ParseResourceManifest decodes and validates a YAML manifest.
func ParseResourceManifest(raw []byte) (*ResourceManifest, error) {
	var m ResourceManifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("hailoinfra: parse resource manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *ResourceManifest) validate() error {
	if _, ok := m.Groups["default"]; !ok {
		return fmt.Errorf("hailoinfra: resource manifest has no default group")
	}
	for group, names := range m.Groups {
		for _, name := range names {
			if _, ok := m.Models[name]; ok {
				continue
			}
			if _, ok := m.Videos[name]; ok {
				continue
			}
			return fmt.Errorf("hailoinfra: group %q references unknown resource %q", group, name)
		}
	}
	return nil
}

// Select returns the resource names to fetch: the default group, plus the
// named group (if any), plus explicit names. The result is sorted and
// deduplicated.
func (m *ResourceManifest) Select(group string, names []string) []string {
	selected := make(map[string]struct{})
	for _, name := range m.Groups["default"] {
		selected[name] = struct{}{}
	}
	if group != "" && group != "default" {
		for _, name := range m.Groups[group] {
			selected[name] = struct{}{}
		}
	}
	for _, name := range names {
		selected[name] = struct{}{}
	}

	out := make([]string, 0, len(selected))
	for name := range selected {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Downloader fetches manifest resources into the standard resource layout.
type Downloader struct {
	FS afero.Fs
	// Client defaults to http.DefaultClient.
	Client  *http.Client
	BaseDir string
}

// Run downloads the selected resources. Models built for another
// architecture are skipped, resources already on disk are skipped
// (idempotent), and unknown names are logged rather than fatal. The first
// transport or filesystem error aborts the run.
func (d *Downloader) Run(ctx context.Context, m *ResourceManifest, arch HailoArch, group string, names []string) error {
	for _, name := range m.Select(group, names) {
		if model, ok := m.Models[name]; ok {
			if model.Arch != arch.String() {
				slog.Info("hailoinfra: skipping model for other arch",
					"name", name,
					"model_arch", model.Arch,
					"arch", arch.String(),
				)
				continue
			}
			dest := filepath.Join(ModelsDir(d.BaseDir, arch), name+".hef")
			if err := d.fetch(ctx, model.URL, dest); err != nil {
				return err
			}
			continue
		}
		if video, ok := m.Videos[name]; ok {
			dest := filepath.Join(VideosDir(d.BaseDir), name+".mp4")
			if err := d.fetch(ctx, video.URL, dest); err != nil {
				return err
			}
			continue
		}
		slog.Warn("hailoinfra: unknown resource requested", "name", name)
	}
	return nil
}

// fetch downloads url to dest unless dest already exists.
func (d *Downloader) fetch(ctx context.Context, url, dest string) error {
	exists, err := afero.Exists(d.FS, dest)
	if err != nil {
		return fmt.Errorf("hailoinfra: stat %s: %w", dest, err)
	}
	if exists {
		slog.Info("hailoinfra: resource already present, skipping", "dest", dest)
		return nil
	}

	if err := d.FS.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("hailoinfra: create %s: %w", filepath.Dir(dest), err)
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("hailoinfra: build request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("hailoinfra: download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hailoinfra: download %s: unexpected status %s", url, resp.Status)
	}

	out, err := d.FS.Create(dest)
	if err != nil {
		return fmt.Errorf("hailoinfra: create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("hailoinfra: write %s: %w", dest, err)
	}

	slog.Info("hailoinfra: resource downloaded", "url", url, "dest", dest)
	return nil
}
