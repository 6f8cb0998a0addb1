package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/history"
	"github.com/spigell/resudoc/internal/logger"
	"github.com/spigell/resudoc/internal/resudoc"
	"github.com/spigell/resudoc/internal/userid"
)

// session bundles what every command needs to talk to the api.
type session struct {
	ctx    context.Context
	config *Config
	logger *zap.Logger
	client *resudoc.Client
	userID string
}

// newSession builds the logger, the config and the api client. Failures are
// fatal since no command can do anything without them.
func newSession(cmd *cobra.Command) *session {
	return newSessionWithLogger(cmd, nil)
}

// newSessionWithLogger lets the terminal ui keep the client quiet while the
// session logger still reports setup failures.
func newSessionWithLogger(cmd *cobra.Command, clientLogger *zap.Logger) *session {
	sessionLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		sessionLogger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	id, err := userid.Resolve(userid.Source{Value: config.UserID, File: config.UserIDFile})
	if err != nil {
		sessionLogger.Fatal("resolving user id", zap.Error(err),
			zap.String("hint", "set user-id or user-id-file in the config, RESUDOC_USER_ID or --user-id"),
		)
	}

	sessionLogger = logger.WithSessionFields(sessionLogger, config.APIURL, id)
	sessionLogger.Debug("starting with config", zap.Any("config", config), zap.String("version", version))

	if clientLogger == nil {
		clientLogger = sessionLogger
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &session{
		ctx:    ctx,
		config: config,
		logger: sessionLogger,
		userID: id,
		client: resudoc.New(clientLogger, resudoc.Options{
			APIURL:     config.APIURL,
			Timeout:    config.Timeout,
			MaxRetries: config.MaxRetries,
		}),
	}
}

// openHistory returns nil when no history db is configured.
func (s *session) openHistory() *history.Store {
	if s.config.HistoryDB == "" {
		return nil
	}

	store, err := history.Open(s.config.HistoryDB)
	if err != nil {
		s.logger.Fatal("opening match history", zap.Error(err), zap.String("path", s.config.HistoryDB))
	}
	return store
}
