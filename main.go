package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
	"google.golang.org/api/option"

	auth "github.com/nvbf/quadball-live-sync/pkg/auth"
	config "github.com/nvbf/quadball-live-sync/pkg/config"

	auditlog "github.com/nvbf/quadball-live-sync/repos/auditlog"
	feed "github.com/nvbf/quadball-live-sync/repos/feed"
	quadball "github.com/nvbf/quadball-live-sync/repos/quadball"
	resend "github.com/nvbf/quadball-live-sync/repos/resend"
	resultsrepo "github.com/nvbf/quadball-live-sync/repos/results"

	live "github.com/nvbf/quadball-live-sync/services/live"
	results "github.com/nvbf/quadball-live-sync/services/results"
)

type rootOptions struct {
	ConfigPath   string
	LiveURL      string
	TournamentID string
	GameIDs      string
	LogDir       string
	Port         string
}

func main() {
	defer glog.Flush()
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		glog.Errorf("%v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "quadball-live-sync",
		Short: "Mirror live quadball games and serve them over HTTP",
		Long: `Connects to the quadball live server, keeps a replica of every watched game,
writes an audit trail per game and serves the replicas over HTTP.

Example:
  quadball-live-sync --tournament 42
  quadball-live-sync --games abc123,def456 --log-dir /var/log/games -v=1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its settings from the go flag set
			return flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "optional YAML config file")
	cmd.Flags().StringVar(&opts.LiveURL, "live-url", "", "base URL of the live server")
	cmd.Flags().StringVar(&opts.TournamentID, "tournament", "", "watch all games of this tournament")
	cmd.Flags().StringVar(&opts.GameIDs, "games", "", "comma separated public game ids")
	cmd.Flags().StringVar(&opts.LogDir, "log-dir", "", "directory of the audit logs")
	cmd.Flags().StringVar(&opts.Port, "port", "", "HTTP port")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	return cmd
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("live-url") {
		cfg.LiveURL = opts.LiveURL
	}
	if flags.Changed("tournament") {
		cfg.TournamentID = opts.TournamentID
	}
	if flags.Changed("games") {
		cfg.GameIDs = config.SplitList(opts.GameIDs)
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = opts.LogDir
	}
	if flags.Changed("port") {
		cfg.Port = opts.Port
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config) error {
	auditService, err := auditlog.NewService(cfg.LogDir)
	if err != nil {
		return err
	}

	watcher := live.NewWatcher(live.WatcherOptions{Audit: auditService})

	gameIDs := cfg.GameIDs
	if cfg.TournamentID != "" {
		gameIDs, err = quadball.NewService(cfg.LiveURL, nil).TournamentGameIDs(ctx, cfg.TournamentID)
		if err != nil {
			return err
		}
	}
	watcher.SetPublicIDs(gameIDs)
	watcher.Listen(live.NotifyScore, func(n live.Notification) {
		glog.V(1).Infof("[live] %s score %s: %v\n", n.Match.PublicID, n.Side, n.Value)
	})

	router := gin.Default()
	if len(cfg.CORSHosts) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSHosts
		corsConfig.AllowCredentials = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Access-Control-Allow-Origin"}
		router.Use(cors.New(corsConfig))
	}

	live.NewHTTPHandler(live.HTTPOptions{
		Service: watcher,
		Router:  router.Group("/live/v1"),
	})

	if cfg.FirestoreEnabled() {
		closeResults, err := setupResults(ctx, cfg, watcher, router)
		if err != nil {
			return err
		}
		defer closeResults()
	} else {
		glog.Warningf("[results] FIREBASE_PROJECT_ID not set, result reporting disabled\n")
	}

	feedService := feed.NewService(feed.Options{
		URL:            cfg.FeedURL(),
		Auth:           cfg.LiveAuth,
		PublicIDs:      gameIDs,
		AllGamesAtOnce: cfg.TournamentID != "",
		Handler:        watcher,
	})
	go func() {
		_ = feedService.Run(ctx)
	}()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	glog.Infof("listening on :%s, watching %d games\n", cfg.Port, len(gameIDs))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return xerrors.Errorf("http server: %w", err)
	}
	return nil
}

func setupResults(ctx context.Context, cfg *config.Config, watcher *live.Watcher, router *gin.Engine) (func(), error) {
	credentialsOption := option.WithCredentialsJSON([]byte(cfg.Firebase.CredentialsJSON))

	firestoreClient, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID, credentialsOption)
	if err != nil {
		return nil, xerrors.Errorf("create Firestore client: %w", err)
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, credentialsOption)
	if err != nil {
		firestoreClient.Close()
		return nil, xerrors.Errorf("initialize Firebase app: %w", err)
	}
	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		firestoreClient.Close()
		return nil, xerrors.Errorf("initialize Firebase Auth: %w", err)
	}

	opts := results.ServiceOptions{
		Views:        watcher,
		Store:        resultsrepo.NewService(firestoreClient),
		TournamentID: cfg.TournamentID,
	}
	if cfg.Mail.ResendKey != "" {
		opts.Mailer = resend.NewService(cfg.Mail.ResendKey, cfg.Mail.From, cfg.Mail.To)
	}
	resultsService := results.NewResultsService(opts)

	dispatcher := live.NewDispatcher()
	resultsService.Watch(watcher, dispatcher)
	go func() {
		_ = dispatcher.Run(ctx)
	}()

	resultsRouter := router.Group("/results/v1")
	resultsRouter.Use(auth.AuthMiddleware(authClient))

	results.NewHTTPHandler(results.HTTPOptions{
		Service: resultsService,
		Router:  resultsRouter,
	})

	return func() {
		dispatcher.Close()
		firestoreClient.Close()
	}, nil
}
