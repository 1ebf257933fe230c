// Command roster-admin runs maintenance tasks directly against the configured
// storage: resetting collections, exporting CSV and importing identities.
//
// Usage:
//
//	roster-admin reset -yes identities|attendance|all
//	roster-admin export [-o FILE] identities|attendance
//	roster-admin import [-dry-run] FILE
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/roster/internal/admin"
	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/storage"
)

const usage = `usage:
  roster-admin reset -yes identities|attendance|all
  roster-admin export [-o FILE] identities|attendance
  roster-admin import [-dry-run] FILE
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		msg := err.Error()
		if core.IsUserFacing(err) {
			msg = core.FormatUserError(err)
		}
		fmt.Fprintln(os.Stderr, "roster-admin:", msg)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	a := &admin.Admin{Store: core.NewStore(backend.Backend, core.WithImportBatchSize(cfg.Import.BatchSize))}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "reset":
		return runReset(ctx, a, rest, stdout)
	case "export":
		return runExport(ctx, a, rest, stdout)
	case "import":
		return runImport(ctx, a, rest, stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func runReset(ctx context.Context, a *admin.Admin, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "confirm the deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New(usage)
	}
	if !*yes {
		return errors.New("confirmation required: pass -yes to delete data")
	}

	target := fs.Arg(0)
	if err := a.Reset(ctx, target); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "reset %s\n", target)
	return nil
}

func runExport(ctx context.Context, a *admin.Admin, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "", "write to FILE instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New(usage)
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	name, err := a.Export(ctx, fs.Arg(0), w)
	if err != nil {
		return err
	}
	slog.Info("exported", "collection", fs.Arg(0), "filename", name)
	return nil
}

func runImport(ctx context.Context, a *admin.Admin, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "validate without registering")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New(usage)
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := a.Import(ctx, f, *dryRun)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
