// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command ifpolicyd is a privileged local control daemon for network
// interfaces. It serves credential-checked requests on a unix socket and
// reacts to kernel link events by matching declarative policies and
// applying their transformations.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"grimm.is/ifpolicyd/internal/brand"
	"grimm.is/ifpolicyd/internal/config"
	"grimm.is/ifpolicyd/internal/ctlplane"
	"grimm.is/ifpolicyd/internal/dispatch"
	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/events"
	"grimm.is/ifpolicyd/internal/logging"
	"grimm.is/ifpolicyd/internal/metrics"
	"grimm.is/ifpolicyd/internal/netinfo"
	"grimm.is/ifpolicyd/internal/policy"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(brand.BinaryName, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "read configuration file `path` instead of the system default")
	debugSpec := fs.String("debug", "", "enable debugging for debug `facility` (or 'help' to list them)")
	foreground := fs.Bool("foreground", false, "do not background the daemon")
	noFork := fs.Bool("no-fork", false, "handle requests inline instead of in isolated workers")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s [options]\nThis daemon understands the following options\n", brand.BinaryName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 1
	}

	if *debugSpec == "help" {
		logging.DebugHelp(os.Stdout)
		return 0
	}
	if *debugSpec != "" {
		if err := logging.EnableDebug(*debugSpec); err != nil {
			fmt.Fprintf(os.Stderr, "Bad debug facility %q\n", *debugSpec)
			return 1
		}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	if !*foreground {
		if err := daemonize(args); err != nil {
			fmt.Fprintf(os.Stderr, "failed to background: %v\n", err)
			return 1
		}
		return 0
	}

	logger := setupLogging(cfg)
	return serve(cfg, *noFork, logger)
}

// loadConfig loads the named file, or the system default. A missing
// default file is not an error: the daemon runs with built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		if errors.GetKind(err) == errors.KindNotFound {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) *logging.Logger {
	logger := logging.New(logging.Config{Level: logging.ParseLevel(cfg.LogLevel)})

	if cfg.Syslog != nil && cfg.Syslog.Enabled {
		if w, err := logging.NewSyslogWriter(*cfg.Syslog); err == nil {
			logger.SetOutput(io.MultiWriter(os.Stderr, w))
		} else {
			logger.Warn("syslog forwarding disabled", "error", err)
		}
	}

	logging.SetDefault(logger)
	return logger
}

// serve wires the daemon together and runs the dispatcher until a source
// fails. Initialization failures here are fatal.
func serve(cfg *config.Config, noFork bool, logger *logging.Logger) int {
	logger.Info("starting", "name", brand.Name, "version", brand.Version, "pid", os.Getpid())

	engine := netinfo.NewEngine(logging.WithComponent("netinfo"), cfg.EnableActions)

	policies, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		logger.Fatal("unable to load policies", "file", cfg.PolicyFile, "error", err)
	}
	store := policy.NewStore(policies)
	logger.Info("policies loaded", "file", cfg.PolicyFile, "count", policies.Len())

	if watcher, err := policy.NewWatcher(cfg.PolicyFile, store, logging.WithComponent("policy")); err != nil {
		logger.Warn("policy reload watching disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	server := ctlplane.NewServer(cfg.SocketPath, cfg.TrustedUID, noFork, engine, logging.WithComponent("ctl"))
	if err := server.Listen(); err != nil {
		logger.Fatal("unable to initialize server socket", "error", err)
	}
	defer server.Close()

	monitor := events.NewMonitor(logging.WithComponent("events"))
	if err := monitor.Start(); err != nil {
		logger.Fatal("unable to initialize netlink listener", "error", err)
	}
	defer monitor.Stop()

	if cfg.MetricsListen != "" {
		metrics.Serve(cfg.MetricsListen, logging.WithComponent("metrics"))
	}

	reactor := ctlplane.NewReactor(engine, store, logging.WithComponent("events"))
	dispatcher := dispatch.New(server.Connections(), monitor.Events(), server, reactor, logging.WithComponent("dispatch"))

	// The serving loop has no natural exit.
	if err := dispatcher.Run(); err != nil {
		logger.Fatal("dispatch loop failed", "error", err)
	}
	return 0
}
