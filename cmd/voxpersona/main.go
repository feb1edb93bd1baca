// Command voxpersona serves the transcription and persona API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/voxpersona/bootstrap"
	"github.com/kbukum/voxpersona/config"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/version"
)

const serviceName = "voxpersona"

func main() {
	configFile := flag.String("config", "", "config file (default: search ./cmd/voxpersona, ./config, .)")
	envFile := flag.String("env", "", ".env file to load before reading the environment")
	showVersion := flag.Bool("version", false, "print the build version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(serviceName, version.Get("").String())
		return
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "voxpersona: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyDefaults()
	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	app, err := bootstrap.NewApp(&cfg, bootstrap.WithLogger(log), bootstrap.WithGracefulTimeout(cfg.ShutdownTimeout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxpersona: %v\n", err)
		os.Exit(1)
	}
	app.Logger.Info("Starting", logger.Fields("build", version.Get(cfg.Version).String()))

	ctx := context.Background()
	if err := wire(ctx, app); err != nil {
		app.Logger.Fatal("Wiring failed", logger.ErrorFields("main.wire", err))
	}
	if err := app.Run(ctx); err != nil {
		app.Logger.Fatal("Application stopped with error", logger.ErrorFields("main.run", err))
	}
}
