package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"

	hailoinfra "github.com/e7canasta/hailo-apps-infra"
)

// Version information
const version = "v0.1.0"

func main() {
	resourcePath := flag.String("resource-path", hailoinfra.DefaultResourcePath, "Base directory for models, videos and postproc files")
	deviceArch := flag.String("device-arch", "auto", "Host architecture: auto, rpi, arm, x86")
	arch := flag.String("arch", "auto", "Hailo accelerator architecture: auto, hailo8, hailo8l")
	envPath := flag.String("env-path", ".env", "Dotenv file to write the resolved environment to")
	refreshEnv := flag.Bool("refresh-env", false, "Re-probe the host even if the dotenv file exists")
	manifest := flag.String("manifest", "", "Resource manifest (YAML) to download from (optional)")
	downloadGroup := flag.String("download-group", "default", "Manifest group to download")
	download := flag.String("download", "", "Comma-separated resource names to download in addition to the group")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("hailo-setup %s\n", version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	fsys := afero.NewOsFs()

	if err := hailoinfra.CreateStandardResourceDirs(fsys, *resourcePath); err != nil {
		log.Fatalf("Failed to create resource directories: %v", err)
	}
	slog.Info("resource directories ready", "base", *resourcePath)

	env, err := hailoinfra.SetupEnvironment(fsys, hailoinfra.SetupConfig{
		DeviceArch:   *deviceArch,
		HailoArch:    *arch,
		ResourcePath: *resourcePath,
		EnvPath:      *envPath,
		Refresh:      *refreshEnv,
	})
	if err != nil {
		log.Fatalf("Failed to set up environment: %v", err)
	}

	if *manifest == "" {
		return
	}

	hailoArch, ok := hailoinfra.ParseHailoArch(env.HailoArch)
	if !ok {
		log.Fatalf("No usable Hailo architecture resolved (%q); pass --arch hailo8 or --arch hailo8l", env.HailoArch)
	}

	raw, err := afero.ReadFile(fsys, *manifest)
	if err != nil {
		log.Fatalf("Failed to read manifest %s: %v", *manifest, err)
	}
	m, err := hailoinfra.ParseResourceManifest(raw)
	if err != nil {
		log.Fatalf("Failed to parse manifest %s: %v", *manifest, err)
	}

	var names []string
	if *download != "" {
		for _, name := range strings.Split(*download, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dl := &hailoinfra.Downloader{FS: fsys, BaseDir: *resourcePath}
	if err := dl.Run(ctx, m, hailoArch, *downloadGroup, names); err != nil {
		log.Fatalf("Download failed: %v", err)
	}
	slog.Info("resources downloaded", "base", *resourcePath, "group", *downloadGroup)
}
