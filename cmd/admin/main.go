// Command admin runs maintenance tasks against the taskhub database.
//
//	admin seed [--file seed.yaml]   create the default admin and seed-file accounts
//	admin stats --user ID           print a user's task counts
//	admin hash --password SECRET    print a bcrypt hash with the configured cost
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/tsirionantsoa/taskhub/config"
	"github.com/tsirionantsoa/taskhub/internal/bootstrap"
	"github.com/tsirionantsoa/taskhub/internal/credential"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "seed":
		return runSeed(ctx, cfg, rest, out)
	case "stats":
		return runStats(ctx, cfg, rest, out)
	case "hash":
		return runHash(cfg, rest, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(out io.Writer) {
	fmt.Fprint(out, `Usage: admin <command> [flags]

Commands:
  seed   create the default admin and accounts from a seed file
  stats  print task counts for a user
  hash   hash a password with the configured bcrypt cost
`)
}

func runSeed(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	file := flags.String("file", cfg.Seed.File, "YAML seed file")
	skipAdmin := flags.Bool("skip-admin", false, "do not create the default admin")
	if err := flags.Parse(args); err != nil {
		return err
	}

	stores, err := bootstrap.OpenStores(ctx, cfg, bootstrap.DBOptions{})
	if err != nil {
		return err
	}
	defer stores.Close()
	svc := bootstrap.NewServices(cfg, stores)

	if !*skipAdmin {
		created, err := svc.Seeder.EnsureAdmin(ctx, cfg.Seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "admin created: %t\n", created)
	}
	if *file != "" {
		n, err := svc.Seeder.ApplyFile(ctx, *file)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "accounts created from %s: %d\n", *file, n)
	}
	return nil
}

func runStats(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("stats", pflag.ContinueOnError)
	userID := flags.Int64("user", 0, "user id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		return fmt.Errorf("--user is required")
	}

	stores, err := bootstrap.OpenStores(ctx, cfg, bootstrap.DBOptions{})
	if err != nil {
		return err
	}
	defer stores.Close()

	stats, err := bootstrap.NewServices(cfg, stores).Tasks.Stats(ctx, *userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d\n%s: %d\n", cfg.Tasks.StatusDone, stats.Completed, cfg.Tasks.StatusInProgress, stats.InProgress)
	return nil
}

func runHash(cfg *config.Config, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("hash", pflag.ContinueOnError)
	password := flags.StringP("password", "p", "", "password to hash")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		return fmt.Errorf("--password is required")
	}

	hashed, err := credential.NewBcryptHasher(cfg.Security.BcryptCost).Hash(*password)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hashed)
	return nil
}
