package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/logger"
	"github.com/spigell/resudoc/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse, upload, delete and match resumes in a terminal ui",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		logFile, _ := cmd.Flags().GetString("log-file")

		uiLogger := newUILogger(logFile)
		defer uiLogger.Sync()

		s := newSessionWithLogger(cmd, uiLogger)

		opts := tui.Options{
			UserID: s.userID,
			TopK:   s.config.TopK,
			Logger: uiLogger,
		}

		if store := s.openHistory(); store != nil {
			defer store.Close()
			opts.History = store
		}

		if err := tui.Run(s.ctx, s.client, opts); err != nil {
			s.logger.Fatal("running terminal ui", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)

	uiCmd.Flags().String("log-file", "", "write logs of the ui session to this file. Default is no logs")
}

// newUILogger never writes to the terminal: without a log file it drops everything.
func newUILogger(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}

	l, err := logger.NewWithOptions(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: path,
	})
	if err != nil {
		log.Fatalf("creating a ui logger: %s", err)
	}
	return l
}
