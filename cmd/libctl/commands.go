package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-circulation/internal/app"
	"library-circulation/internal/config"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/infrastructure/db"
	"library-circulation/internal/usecase/auth"
	"library-circulation/internal/usecase/backup"
)

// openApp connects with the same configuration as the API server.
var openApp = func(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DBDSN, cfg.LogSQL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return app.New(gdb, app.Options{JWTSecret: cfg.JWTSecret, BackupDir: cfg.BackupDir}), nil
}

// readyApp is openApp plus seeded and loaded settings.
func readyApp(ctx context.Context) (*app.App, error) {
	a, err := openApp(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.Init(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// readPassword prompts without echo; piped input is read as one line.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if !term.IsTerminal(int(syscall.Stdin)) {
		b, err := io.ReadAll(io.LimitReader(os.Stdin, 1024))
		return strings.TrimSpace(string(b)), err
	}
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Library circulation maintenance",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(migrateCmd(), seedCmd(), createUserCmd(), backupCmd(), restoreCmd(), importCmd())
	return root
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := openApp(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert default settings that are missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.Settings.Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d settings\n", n)
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "create-user USERNAME",
		Short: "Add a librarian or admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			a, err := readyApp(cmd.Context())
			if err != nil {
				return err
			}
			u, err := a.Auth.CreateUser(cmd.Context(), auth.CreateUserInput{
				Username: args[0], Email: email, Password: pw, Role: user.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (id %d)\n", u.Role, u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&role, "role", string(user.RoleLibrarian), "admin or librarian")
	return cmd
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Export all tables and a manifest into BACKUP_DIR",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := readyApp(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.Backup.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s in %s\n", res.ManifestFile, res.Dir)
			return nil
		},
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore MANIFEST",
		Short: "Restore every table listed in a backup manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readyApp(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.Backup.Restore(cmd.Context(), args[0])
			if res != nil {
				printReports(cmd.OutOrStdout(), res.Reports...)
			}
			return err
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "import TYPE FILE",
		Short:     "Bulk upload one CSV: categories, patrons or books",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{backup.TypeCategories, backup.TypePatrons, backup.TypeBooks},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(args[0])
			if kind == backup.TypeTransactions {
				return errors.New("transactions can only be restored from a backup manifest")
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			a, err := readyApp(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := a.Backup.Import(cmd.Context(), kind, f, backup.ModeUpload)
			if err != nil {
				return err
			}
			printReports(cmd.OutOrStdout(), *rep)
			return nil
		},
	}
}

func printReports(w io.Writer, reps ...backup.ImportReport) {
	for _, r := range reps {
		fmt.Fprintf(w, "%-12s total=%d created=%d updated=%d errors=%d\n", r.Type, r.Total, r.Created, r.Updated, len(r.Errors))
		for _, e := range r.Errors {
			line, _ := json.Marshal(e)
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
