package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/craftle/assets"
	"github.com/robalobadob/craftle/internal/config"
	"github.com/robalobadob/craftle/internal/eligibility"
	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/game"
	"github.com/robalobadob/craftle/internal/httpserver"
	"github.com/robalobadob/craftle/internal/items"
	"github.com/robalobadob/craftle/internal/persist"
	"github.com/robalobadob/craftle/internal/recipes"
	"github.com/robalobadob/craftle/internal/session"
	"github.com/robalobadob/craftle/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, config.Load())
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions, cfg config.Config) error {
	cfg.ApplyLogLevel()
	src := opts.source(cfg.Seed)

	env, err := loadEnv(cfg, src)
	if err != nil {
		return err
	}

	db, err := persist.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	ps := persist.NewStore(db)

	live, err := store.NewLRU(cfg.SessionCacheSize)
	if err != nil {
		return err
	}
	mgr := session.New(env, live, session.Options{Hooks: ps, Games: ps, Daily: ps})

	srv := httpserver.New(mgr, httpserver.Options{
		JWTSecret:     cfg.JWTSecret,
		ClientOrigin:  cfg.ClientOrigin,
		SecureCookies: strings.HasPrefix(cfg.ClientOrigin, "https://"),
	})
	log.Info().
		Str("port", cfg.Port).
		Int("groups", len(env.Recipes.Keys())).
		Int("items", env.Items.Len()).
		Bool("postgres", persist.IsPostgres(cfg.DatabaseURL)).
		Msg("starting craftle")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// loadEnv builds the read-only catalogs from config, falling back to the
// embedded assets.
func loadEnv(cfg config.Config, src entropy.Source) (*game.Env, error) {
	raw, err := loadRecipes(cfg.RecipesFile)
	if err != nil {
		return nil, err
	}
	cat, _, err := eligibility.Build(raw, src)
	if err != nil {
		return nil, err
	}
	ic, err := items.Load(cfg.ItemsFile)
	if err != nil {
		return nil, err
	}
	return &game.Env{
		Recipes:       cat,
		Items:         ic,
		Rand:          src,
		DailySalt:     cfg.DailySalt,
		TutorialGroup: cfg.TutorialGroup,
	}, nil
}

func loadRecipes(path string) (recipes.RawFile, error) {
	if path != "" {
		return recipes.ReadFile(path)
	}
	b, err := assets.Recipes()
	if err != nil {
		return nil, err
	}
	return recipes.Parse(b, recipes.JSON)
}
