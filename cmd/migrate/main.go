// Command migrate runs goose migrations against the configured database.
// The create and validate commands work offline; the rest connect first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/chairtime/chairtime-backend/pkg/config"
	"github.com/chairtime/chairtime-backend/pkg/db"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/migrate"
)

type cliArgs struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	args := parseArgs()

	cfg, err := config.Load()
	if err != nil {
		fatalf("loading config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": args.cmd,
		"dir": args.dir,
	})

	if runOffline(args) {
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		fatalf("connecting to database: %v", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		fatalf("acquiring sql handle: %v", err)
	}

	logg.Info(ctx, "migrate ready")

	switch args.cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, args.dir, args.cmd); err != nil {
			fatalf("goose %s failed: %v", args.cmd, err)
		}
	case "version":
		if args.version == "" {
			fatalf("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, args.dir, args.version); err != nil {
			fatalf("goose version migrate failed: %v", err)
		}
	default:
		fatalf("unknown -cmd value: %s", args.cmd)
	}
}

func parseArgs() cliArgs {
	var args cliArgs
	flag.StringVar(&args.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&args.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&args.name, "name", "", "migration name (for create)")
	flag.StringVar(&args.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()
	return args
}

// runOffline handles the commands that never touch the database. It returns
// true when the command was one of them.
func runOffline(args cliArgs) bool {
	switch args.cmd {
	case "create":
		if args.name == "" {
			fatalf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(args.dir, args.name)
		if err != nil {
			fatalf("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return true
	case "validate":
		if err := migrate.ValidateDir(args.dir); err != nil {
			fatalf("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return true
	}
	return false
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
