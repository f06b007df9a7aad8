package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/toyz/usersapi/internal/app"
	"github.com/toyz/usersapi/internal/config"
	"github.com/toyz/usersapi/internal/diagnostics"
	"github.com/toyz/usersapi/internal/logging"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to the YAML configuration file (default: ./"+config.DefaultFile+" if present)")
		adapter    = flag.String("adapter", "", "Web server adapter to use ("+strings.Join(config.Adapters, ", ")+")")
		port       = flag.Int("port", 0, "Port to run the server on")
		help       = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *help {
		fmt.Println("Users API - users CRUD with an audit trail")
		fmt.Println("")
		fmt.Println("Usage:")
		fmt.Printf("  %s [options]\n", os.Args[0])
		fmt.Println("")
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println("")
		fmt.Println("Environment:")
		fmt.Println("  PORT, DATABASE_PATH, APP_ENV, LOG_LEVEL, LOG_FORMAT, ADAPTER")
		os.Exit(0)
	}

	diag := diagnostics.NewDiagnosticSystem(diagnostics.DiagnosticInfo)

	cfg, err := config.Load(*configPath)
	if err != nil {
		diag.Error("%v", err)
		os.Exit(1)
	}
	// Flags win over the file and the environment
	if *adapter != "" {
		cfg.Adapter = *adapter
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		diag.Error("%v", err)
		os.Exit(1)
	}

	application := fx.New(
		app.Module(cfg),
		fx.WithLogger(func(logger *logging.AppLogger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: logger.Logger()}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
	)

	if err := application.Start(context.Background()); err != nil {
		diag.Error("failed to start application: %v", err)
		os.Exit(1)
	}

	sig := <-application.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	err = application.Stop(stopCtx)
	cancel()
	if err != nil {
		diag.Error("failed to stop application gracefully: %v", err)
		os.Exit(1)
	}

	diag.Success("application stopped")
	os.Exit(sig.ExitCode)
}
