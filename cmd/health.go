package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/resudoc"
	"github.com/spigell/resudoc/internal/utils"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the api and its database are up",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		s := newSession(cmd)

		wait, _ := cmd.Flags().GetDuration("wait")
		interval, _ := cmd.Flags().GetDuration("interval")

		deadline := time.Now().Add(wait)
		for {
			health, err := s.client.Health(s.ctx)
			if err == nil && health.OK() {
				s.logger.Info("api is healthy", zap.String("version", health.Version))
				return
			}

			fields := healthFields(health, err)
			if time.Now().Add(interval).After(deadline) {
				s.logger.Fatal("api is not healthy", fields...)
			}

			s.logger.Info("waiting for api", append(fields, zap.Duration("interval", interval))...)
			if err := utils.WaitFor(s.ctx, interval); err != nil {
				s.logger.Fatal("waiting for api", zap.Error(err))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().Duration("wait", 0, "keep polling until the api is healthy or this time passes")
	healthCmd.Flags().Duration("interval", 2*time.Second, "pause between polls with --wait")
}

func healthFields(health *resudoc.Health, err error) []zap.Field {
	if err != nil {
		return []zap.Field{zap.Error(err)}
	}
	return []zap.Field{
		zap.String("status", health.Status),
		zap.Bool("database_connected", health.DatabaseConnected),
	}
}
