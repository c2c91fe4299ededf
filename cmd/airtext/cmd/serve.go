package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/airtext/internal/app"
	"github.com/ayusman/airtext/internal/detector"
	"github.com/ayusman/airtext/internal/server"
	"github.com/ayusman/airtext/internal/store"
	"github.com/ayusman/airtext/internal/tray"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the airtext server",
	Long: `Start the HTTP server. Browsers connect to /api/ws and send hand
landmarks; with --camera the server also runs its own camera pipeline and
streams the rendered overlay at /api/stream.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd)
}

func addServeFlags(c *cobra.Command) {
	c.Flags().String("addr", "", "listen address (default :8080)")
	c.Flags().String("static", "", "directory of static files to serve")
	c.Flags().Bool("camera", false, "run the local camera pipeline")
	c.Flags().Bool("tray", false, "show the system tray menu")
}

// bindServeFlags copies the serve flags the user set on the running command
// into viper, above the file and environment values.
func bindServeFlags(c *cobra.Command) {
	bindings := map[string]string{
		"addr":   "server.addr",
		"static": "server.static_dir",
		"camera": "camera.enabled",
		"tray":   "tray",
	}
	for flag, key := range bindings {
		if f := c.Flags().Lookup(flag); f != nil && f.Changed {
			viper.Set(key, f.Value.String())
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	stored, err := st.Settings().All()
	if err != nil {
		return fmt.Errorf("reading stored settings: %w", err)
	}
	if err := cfg.ApplySettings(stored); err != nil {
		logger.Warn("ignoring stored settings", slog.Any("error", err))
	}

	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = findWebDir(cfg.DataDir)
	}
	if cfg.Server.StaticDir != "" {
		logger.Info("serving static files", slog.String("dir", cfg.Server.StaticDir))
	}

	pipeline, err := app.New(app.Config{
		CameraOptions:  cfg.CameraOptions(),
		DetectorConfig: detector.DefaultConfig(),
		Session:        cfg.Session(),
		Style:          cfg.Style(),
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}
	defer pipeline.Close()

	srv := server.New(server.Config{
		StaticDir: cfg.Server.StaticDir,
		Store:     st,
		Settings:  cfg,
		Pipeline:  pipeline,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Camera.Enabled {
		setCamera(pipeline, true)
	}

	if !cfg.Tray {
		return srv.Run(ctx, cfg.Server.Addr)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx, cfg.Server.Addr)
		stop()
	}()

	runTray(ctx, stop, pipeline)
	stop()
	return <-errCh
}

// setCamera starts or stops the camera pipeline.
func setCamera(pipeline *app.App, enabled bool) {
	pipeline.SetEnabled(enabled)
	if !enabled {
		pipeline.Stop()
		return
	}
	if err := pipeline.Start(); err != nil {
		logger.Error("camera pipeline failed to start", slog.Any("error", err))
		pipeline.SetEnabled(false)
	}
}

// runTray blocks on the tray menu until Quit is chosen or ctx is done.
func runTray(ctx context.Context, quit context.CancelFunc, pipeline *app.App) {
	t := tray.New(cfg.Camera.Enabled)
	t.OnToggle(func(enabled bool) { setCamera(pipeline, enabled) })
	t.OnReset(pipeline.Reset)
	t.OnOpen(func() {
		if err := openBrowser(browserURL(cfg.Server.Addr)); err != nil {
			logger.Warn("opening browser", slog.Any("error", err))
		}
	})
	t.OnQuit(quit)

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.SetFrame(pipeline.Snapshot())
			}
		}
	}()

	t.Run()
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", url)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "linux", "freebsd", "openbsd":
		c = exec.Command("xdg-open", url)
	default:
		return errors.New("unsupported platform " + runtime.GOOS)
	}
	return c.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p
		}
	}
	return ""
}
