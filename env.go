package hailoinfra

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Environment variable names written by SetupEnvironment.
const (
	EnvDeviceArch        = "DEVICE_ARCH"
	EnvHailoArch         = "HAILO_ARCH"
	EnvResourcePath      = "RESOURCE_PATH"
	EnvTappasPostProcDir = "TAPPAS_POST_PROC_DIR"
)

// EnvConfig is the resolved environment shared by the demo apps.
type EnvConfig struct {
	DeviceArch        string
	HailoArch         string
	ResourcePath      string
	TappasPostProcDir string
}

// SetupConfig controls SetupEnvironment. Fields set to "auto" or left empty
// are resolved with the host probes.
type SetupConfig struct {
	DeviceArch   string
	HailoArch    string
	ResourcePath string
	// EnvPath is the dotenv file location; defaults to ".env".
	EnvPath string
	// Refresh regenerates the dotenv file even when one already exists.
	Refresh bool
}

// hostDetectors lets tests stub the probes behind resolveEnv.
type hostDetectors struct {
	deviceArch   func() DeviceArch
	hailoArch    func() HailoArchDetection
	pkgInstalled func(string) PkgDetection
}

var defaultDetectors = hostDetectors{
	deviceArch:   DetectDeviceArch,
	hailoArch:    DetectHailoArch,
	pkgInstalled: DetectPkgInstalled,
}

// SetupEnvironment resolves the environment, applies it to the process and
// persists it to cfg.EnvPath.
//
// When a dotenv file already exists and Refresh is false, the existing file
// is loaded and applied instead of re-probing the host.
func SetupEnvironment(fsys afero.Fs, cfg SetupConfig) (EnvConfig, error) {
	return setupEnvironment(fsys, cfg, defaultDetectors)
}

func setupEnvironment(fsys afero.Fs, cfg SetupConfig, det hostDetectors) (EnvConfig, error) {
	envPath := cfg.EnvPath
	if envPath == "" {
		envPath = ".env"
	}

	if !cfg.Refresh {
		if exists, _ := afero.Exists(fsys, envPath); exists {
			slog.Info("hailoinfra: using existing dotenv file", "path", envPath)
			return LoadEnvFile(fsys, envPath)
		}
	}

	env := resolveEnv(cfg, det)
	applyEnv(env)
	if err := WriteEnvFile(fsys, envPath, env); err != nil {
		return env, err
	}

	slog.Info("hailoinfra: environment persisted",
		"path", envPath,
		"device_arch", env.DeviceArch,
		"hailo_arch", env.HailoArch,
		"resource_path", env.ResourcePath,
		"tappas_postproc_dir", env.TappasPostProcDir,
	)
	return env, nil
}

func resolveEnv(cfg SetupConfig, det hostDetectors) EnvConfig {
	deviceArch := cfg.DeviceArch
	if deviceArch == "" || deviceArch == "auto" {
		deviceArch = det.deviceArch().String()
	}

	hailoArch := cfg.HailoArch
	if hailoArch == "" || hailoArch == "auto" {
		d := det.hailoArch()
		hailoArch = d.Arch.String()
		if !d.Detected() {
			slog.Warn("hailoinfra: could not detect Hailo architecture",
				"outcome", d.Outcome.String(),
				"detail", d.Detail,
			)
		}
	}

	resourcePath := cfg.ResourcePath
	if resourcePath == "" || resourcePath == "auto" {
		resourcePath = DefaultResourcePath
	}

	// The TAPPAS variant decides where postprocess shared objects live.
	var tappasVariant string
	switch {
	case det.pkgInstalled("hailo-tappas").Installed:
		tappasVariant = "tappas"
	case det.pkgInstalled("hailo-tappas-core").Installed:
		tappasVariant = "tappas-core"
	default:
		slog.Warn("hailoinfra: could not detect TAPPAS variant")
	}

	var postprocDir string
	if tappasVariant != "" {
		postprocDir = filepath.Join(resourcePath, "postproc", tappasVariant)
	}

	return EnvConfig{
		DeviceArch:        deviceArch,
		HailoArch:         hailoArch,
		ResourcePath:      resourcePath,
		TappasPostProcDir: postprocDir,
	}
}

func applyEnv(env EnvConfig) {
	os.Setenv(EnvDeviceArch, env.DeviceArch)
	os.Setenv(EnvHailoArch, env.HailoArch)
	os.Setenv(EnvResourcePath, env.ResourcePath)
	os.Setenv(EnvTappasPostProcDir, env.TappasPostProcDir)
}

// WriteEnvFile persists env as dotenv key/value pairs.
func WriteEnvFile(fsys afero.Fs, path string, env EnvConfig) error {
	content, err := godotenv.Marshal(map[string]string{
		EnvDeviceArch:        env.DeviceArch,
		EnvHailoArch:         env.HailoArch,
		EnvResourcePath:      env.ResourcePath,
		EnvTappasPostProcDir: env.TappasPostProcDir,
	})
	if err != nil {
		return fmt.Errorf("hailoinfra: marshal dotenv: %w", err)
	}
	if err := afero.WriteFile(fsys, path, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("hailoinfra: write %s: %w", path, err)
	}
	return nil
}

// LoadEnvFile reads a dotenv file and applies its values to the process.
func LoadEnvFile(fsys afero.Fs, path string) (EnvConfig, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return EnvConfig{}, fmt.Errorf("hailoinfra: read %s: %w", path, err)
	}
	values, err := godotenv.Unmarshal(string(raw))
	if err != nil {
		return EnvConfig{}, fmt.Errorf("hailoinfra: parse %s: %w", path, err)
	}

	env := EnvConfig{
		DeviceArch:        values[EnvDeviceArch],
		HailoArch:         values[EnvHailoArch],
		ResourcePath:      values[EnvResourcePath],
		TappasPostProcDir: values[EnvTappasPostProcDir],
	}
	applyEnv(env)
	return env, nil
}
