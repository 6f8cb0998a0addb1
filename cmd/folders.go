package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List folders (tags) with their resume counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		s := newSession(cmd)

		folders, err := s.client.Folders(s.ctx, s.userID)
		if err != nil {
			s.logger.Fatal("getting folders", zap.Error(err))
		}

		resumes, err := s.client.Resumes(s.ctx, s.userID)
		if err != nil {
			s.logger.Fatal("getting resumes count", zap.Error(err))
		}

		s.logger.Debug("got folders", zap.Int("count", folders.Len()), zap.Int("resumes", resumes.Total))

		if err := renderTable(foldersTable(folders, resumes.Total)); err != nil {
			s.logger.Fatal("rendering folders", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(foldersCmd)
}
