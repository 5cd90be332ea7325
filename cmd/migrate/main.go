package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/learnhub/backoffice/internal/infrastructure/config"
	"github.com/learnhub/backoffice/internal/infrastructure/logger"
	"github.com/learnhub/backoffice/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const usage = `LearnHub reporting schema migrations

Usage:
  migrate [flags] <command> [argument]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (negative rolls back)
  goto <version>    Migrate to a specific version
  version           Print the applied version
  force <version>   Mark version as applied without running it

Flags:
  -path string       Migrations directory (default: ./migrations)
  -log-level string  debug, info, warn, error (default: info)

Database settings are read like the server's: config.toml plus LEARNHUB_DATABASE_* variables.
`

func main() {
	var dir, logLevel string
	flag.StringVar(&dir, "path", "", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if err := run(args, dir, log); err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
}

func run(args []string, dir string, log *zap.Logger) error {
	command := args[0]
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}
	switch command {
	case "up", "down", "version":
	case "step", "goto", "force":
		if arg == "" {
			return fmt.Errorf("%s requires an argument", command)
		}
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dir, err = migration.ResolveDir(dir)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer m.Close()

	log.Info("Migration CLI started", zap.String("command", command), zap.String("path", dir))

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid step count %q", arg)
		}
		return m.Steps(n)
	case "goto":
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", arg)
		}
		return m.GoTo(uint(v))
	case "force":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid version %q", arg)
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	}
	return errors.New("unreachable")
}
