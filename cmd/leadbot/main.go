package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lotesmx/leadbot/internal/api"
	"github.com/lotesmx/leadbot/internal/dialog"
	"github.com/lotesmx/leadbot/internal/leads"
	"github.com/lotesmx/leadbot/internal/messaging"
	"github.com/lotesmx/leadbot/internal/notify"
	"github.com/lotesmx/leadbot/internal/session"
	"github.com/lotesmx/leadbot/internal/util"
)

func main() {
	config := loadEnvironmentConfig()
	initializeLogger(config.Debug)

	flags := parseCommandLineFlags(config)

	// Outbound transport.
	msgOpts := buildMessagingOptions(flags)
	messenger, err := messaging.NewMessengerService(msgOpts...)
	if err != nil {
		slog.Error("Failed to create messaging service", "error", err)
		os.Exit(1)
	}

	// Session store: Redis when an address is configured, in-memory otherwise.
	sessions, err := buildSessionStore(config, flags)
	if err != nil {
		slog.Error("Failed to create session store", "error", err)
		os.Exit(1)
	}

	// Lead notification sinks.
	notifier, err := buildNotifier()
	if err != nil {
		slog.Error("Failed to create lead notifier", "error", err)
		os.Exit(1)
	}

	// Optional append-only lead log.
	composerOpts, leadLog, err := buildComposerOptions(flags)
	if err != nil {
		slog.Error("Failed to open lead log", "error", err)
		os.Exit(1)
	}

	composer := leads.NewComposer(notifier, composerOpts...)
	engine := dialog.NewEngine(messenger, sessions, composer)
	dispatcher := dialog.NewDispatcher(engine)

	server, err := api.NewServer(dispatcher, buildAPIOptions(flags)...)
	if err != nil {
		slog.Error("Failed to create API server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping LeadBot")
	runErr := server.Run(ctx)

	dispatcher.Stop()
	if err := sessions.Stop(); err != nil {
		slog.Error("Session store shutdown failed", "error", err)
	}
	if err := messenger.Stop(); err != nil {
		slog.Error("Messaging service shutdown failed", "error", err)
	}
	if leadLog != nil {
		if err := leadLog.Close(); err != nil {
			slog.Error("Lead log shutdown failed", "error", err)
		}
	}

	if runErr != nil {
		slog.Error("LeadBot failed to run", "error", runErr)
		os.Exit(1)
	}
	slog.Info("LeadBot exited successfully")
}

// Config holds environment configuration
type Config struct {
	VerifyToken  string
	PageToken    string
	APIAddr      string
	RedisAddr    string
	RedisDB      int
	LeadsDBDSN   string
	LeadsEnabled bool
	Debug        bool
}

// Flags holds command line flag values
type Flags struct {
	verifyToken *string
	pageToken   *string
	apiAddr     *string
	redisAddr   *string
	leadsDSN    *string
}

// initializeLogger sets up structured logging
func initializeLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	config := Config{
		VerifyToken: os.Getenv("VERIFY_TOKEN"),
		PageToken:   os.Getenv("PAGE_TOKEN"),
		APIAddr:     os.Getenv("API_ADDR"),
		RedisAddr:   os.Getenv("SESSION_REDIS_ADDR"),
		RedisDB:     util.ParseIntEnv("SESSION_REDIS_DB", 0),
		LeadsDBDSN:  os.Getenv("LEADS_DB_DSN"),
		Debug:       util.ParseBoolEnv("DEBUG", false),
	}

	slog.Debug("environment variables loaded",
		"VERIFY_TOKEN_SET", config.VerifyToken != "",
		"PAGE_TOKEN_SET", config.PageToken != "",
		"API_ADDR", config.APIAddr,
		"SESSION_REDIS_ADDR", config.RedisAddr,
		"LEADS_DB_DSN_SET", config.LeadsDBDSN != "")

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		verifyToken: flag.String("verify-token", config.VerifyToken, "webhook verification token (overrides $VERIFY_TOKEN)"),
		pageToken:   flag.String("page-token", config.PageToken, "page access token for outbound sends (overrides $PAGE_TOKEN)"),
		apiAddr:     flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		redisAddr:   flag.String("redis-addr", config.RedisAddr, "Redis address for shared sessions (overrides $SESSION_REDIS_ADDR)"),
		leadsDSN:    flag.String("leads-db-dsn", config.LeadsDBDSN, "database DSN for the lead log (overrides $LEADS_DB_DSN)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"verifyTokenSet", *flags.verifyToken != "",
		"pageTokenSet", *flags.pageToken != "",
		"apiAddr", *flags.apiAddr,
		"redisAddr", *flags.redisAddr,
		"leadsDSN_set", *flags.leadsDSN != "")

	return flags
}

// buildMessagingOptions constructs messaging configuration options
func buildMessagingOptions(flags Flags) []messaging.Option {
	var msgOpts []messaging.Option
	if *flags.pageToken != "" {
		msgOpts = append(msgOpts, messaging.WithPageToken(*flags.pageToken))
	}
	return msgOpts
}

// buildSessionStore picks the session backend. Sessions are conversational
// state, so losing them on restart is acceptable; Redis is only needed when
// several instances share traffic.
func buildSessionStore(config Config, flags Flags) (session.Store, error) {
	idleTTL := util.ParseDurationEnv("SESSION_TTL", session.DefaultIdleTTL)

	if *flags.redisAddr != "" {
		slog.Debug("Using Redis session store", "addr", *flags.redisAddr)
		return session.NewRedisStore(
			session.WithAddr(*flags.redisAddr),
			session.WithPassword(os.Getenv("SESSION_REDIS_PASSWORD")),
			session.WithDB(config.RedisDB),
			session.WithRedisIdleTTL(idleTTL),
		)
	}

	slog.Debug("Using in-memory session store", "idle_ttl", idleTTL)
	return session.NewMemoryStore(session.WithIdleTTL(idleTTL)), nil
}

// buildNotifier assembles the configured lead sinks into one notifier.
func buildNotifier() (notify.Notifier, error) {
	var sinks []notify.Notifier

	if os.Getenv("SMTP_HOST") != "" {
		mailSink, err := notify.NewMailNotifier()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, mailSink)
	}
	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		smsSink, err := notify.NewTwilioNotifier()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, smsSink)
	}

	if len(sinks) == 0 {
		slog.Warn("No lead notification sink configured; leads will only be logged")
	}
	return notify.NewMultiNotifier(sinks...), nil
}

// buildComposerOptions opens the lead log when a DSN is configured and
// returns the matching composer options.
func buildComposerOptions(flags Flags) ([]leads.ComposerOption, leads.Store, error) {
	dsn := *flags.leadsDSN
	if dsn == "" {
		slog.Debug("No lead log DSN provided, lead log disabled")
		return nil, nil, nil
	}

	var (
		store leads.Store
		err   error
	)
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL lead log")
		store, err = leads.NewPostgresStore(dsn)
	} else {
		slog.Debug("Detected SQLite DSN, configuring SQLite lead log", "db_path", dsn)
		store, err = leads.NewSQLiteStore(dsn)
	}
	if err != nil {
		return nil, nil, err
	}
	return []leads.ComposerOption{leads.WithLeadLog(store)}, store, nil
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	if *flags.verifyToken != "" {
		apiOpts = append(apiOpts, api.WithVerifyToken(*flags.verifyToken))
	}
	return apiOpts
}
