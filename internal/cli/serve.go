package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/amterp/ra"
	"github.com/amterp/teams/internal/api"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start web interface")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(3000).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on (will try incrementally if in use)").
		Register(cmd)

	ctx.ServeNoOpen, _ = ra.NewBool("no-open").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Don't open browser automatically").
		Register(cmd)

	ctx.ServeWatch, _ = ra.NewString("watch").
		SetShort("w").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault("").
		SetUsage("Names file to load; edits rebuild the roster").
		Register(cmd)

	ctx.ServeSeed, _ = ra.NewInt("seed").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault(0).
		SetUsage("Seed for auto assign, for repeatable results (0 = random)").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(port int, noOpen bool, watch string, seed int, global globalFlags) {
	opts := global.options()
	opts.Server = true
	opts.Seed = uint64(seed)
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	if watch != "" {
		if _, err := os.Stat(watch); err != nil {
			PrintWarning("names file %s not found yet, waiting for it to appear", watch)
		}
	}

	handler := api.NewHandler(api.HandlerConfig{
		Engine:    app.Engine,
		Exporter:  app.Exporter,
		Locale:    app.Locale,
		Settings:  app.SettingsStore,
		ExportDir: app.ExportDir,
		// Browsers pick the language until one is chosen explicitly.
		Negotiate: global.lang == "" && app.Settings.Language == "",
		Logger:    app.Logger.Named("api"),
	})

	// Find an available port starting from the requested one
	actualPort := findAvailablePort(port)

	server, err := api.NewServer(handler, api.ServerConfig{
		Port:      actualPort,
		WatchPath: watch,
		Logger:    app.Logger.Named("server"),
	})
	if err != nil {
		Fatal(err)
	}

	url := fmt.Sprintf("http://localhost:%d", actualPort)
	fmt.Printf("Team sorter running at %s\n", RenderURL(url))
	if watch != "" {
		fmt.Printf("Watching %s\n", RenderMuted(watch))
	}
	PrintInfo("Press Ctrl+C to stop")

	if !noOpen {
		openBrowser(url)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			Fatal(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			app.Logger.Warn("shutdown failed", zap.Error(err))
		}
		<-errCh
	}
}

// findAvailablePort tries ports starting from startPort until it finds one that's available.
func findAvailablePort(startPort int) int {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		if isPortAvailable(port) {
			return port
		}
	}
	// If we couldn't find a port after maxAttempts, return the original and let it fail naturally
	return startPort
}

// isPortAvailable checks if a port is available by attempting to listen on it.
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
