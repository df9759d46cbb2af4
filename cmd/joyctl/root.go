package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/app"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/config"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/imports"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/models"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/storage"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/tokens"
	"github.com/spf13/cobra"
)

var errMemoryStore = errors.New("joyctl needs a persistent store: set STORE_DRIVER=mongo (the memory store is discarded when the command exits)")

type cli struct {
	openStores func(ctx context.Context, cfg *config.Config) (*app.Stores, error)
}

func newRootCmd() *cobra.Command {
	return (&cli{openStores: openPersistentStores}).rootCmd()
}

// openPersistentStores refuses the memory driver: anything joyctl writes there would be lost.
func openPersistentStores(ctx context.Context, cfg *config.Config) (*app.Stores, error) {
	if cfg.Store.Driver == config.StoreMemory {
		return nil, errMemoryStore
	}
	return app.OpenStores(ctx, cfg)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "joyctl",
		Short:        "Operate the JoyJuncture puzzle catalog",
		SilenceUsage: true,
	}
	root.AddCommand(c.importCmd(), c.runsCmd(), newTokenCmd())
	return root
}

// withImporter opens the configured stores (and MinIO when needObjects) and hands an importer to fn.
func (c *cli) withImporter(ctx context.Context, needObjects bool, fn func(*imports.Importer) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	stores, err := c.openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close(context.Background()) }()

	var objects imports.ObjectStore
	if needObjects {
		mst, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
		if mst == nil {
			return imports.ErrNoObjectStore
		}
		objects = mst
	}
	svc := app.NewServices(stores, objects)
	return fn(svc.Importer)
}

func (c *cli) importCmd() *cobra.Command {
	var file, object string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a puzzle pack from a local file or from object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (object == "") {
				return fmt.Errorf("exactly one of --file or --object is required")
			}
			return c.withImporter(cmd.Context(), object != "", func(imp *imports.Importer) error {
				var (
					run *imports.Run
					err error
				)
				if file != "" {
					run, err = imp.ImportFile(cmd.Context(), file)
				} else {
					run, err = imp.ImportObject(cmd.Context(), object)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), run)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a pack JSON file")
	cmd.Flags().StringVar(&object, "object", "", "object key of a pack in the MinIO bucket")
	return cmd
}

func (c *cli) runsCmd() *cobra.Command {
	var (
		limit int
		id    string
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent import runs, or show one with --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withImporter(cmd.Context(), false, func(imp *imports.Importer) error {
				if id != "" {
					run, err := imp.Run(cmd.Context(), id)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), run)
				}
				runs, err := imp.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), runs)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")
	cmd.Flags().StringVar(&id, "id", "", "show the import run with this id")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		sub, email, name, role string
		ttl                    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an HS256 access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sub == "" {
				return fmt.Errorf("--sub is required")
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.JWT.AccessTokenTTL
			}
			tok, err := tokens.GenerateAccessToken(cfg.JWT.Secret, &models.User{ID: sub, Email: email, Name: name, Role: role}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "subject (user id)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "name claim")
	cmd.Flags().StringVar(&role, "role", "", "role claim, e.g. admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_ACCESS_TOKEN_TTL)")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
