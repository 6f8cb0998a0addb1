package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/filtering"
	"github.com/spigell/resudoc/internal/render"
	"github.com/spigell/resudoc/internal/resudoc"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [ID...]",
	Short: "Delete resumes by id, by filename or every resume in a folder",
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession(cmd)

		yes, _ := cmd.Flags().GetBool("yes")
		byFilename, _ := cmd.Flags().GetBool("by-filename")
		all, _ := cmd.Flags().GetBool("all")
		tag, _ := cmd.Flags().GetString("tag")
		excludeFile, _ := cmd.Flags().GetString("exclude-file")

		if err := checkDeleteArgs(args, all, tag, excludeFile); err != nil {
			s.logger.Fatal("wrong arguments", zap.Error(err))
		}

		targets, err := deleteTargets(s, args, byFilename, &filtering.Config{Tag: tag, ExcludeFile: excludeFile}, all)
		if err != nil {
			s.logger.Fatal("selecting resumes to delete", zap.Error(err))
		}

		if len(targets) == 0 {
			s.logger.Info("exiting", zap.String("reason", "no resumes to delete"))
			return
		}

		if !yes && len(targets) > 1 {
			if !confirm(fmt.Sprintf("Delete %d resumes", len(targets))) {
				s.logger.Info("exiting", zap.String("reason", "got no from prompt"))
				return
			}
			yes = true
		}

		failed := 0
		for _, resume := range targets {
			if !yes && !confirm(fmt.Sprintf("%s (%s)", render.MsgConfirmDelete, resume.Filename)) {
				continue
			}
			if err := deleteResume(s, resume); err != nil {
				failed++
			}
		}

		if failed > 0 {
			s.logger.Fatal("deleting resumes", zap.Int("failed", failed), zap.Int("total", len(targets)))
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	deleteCmd.Flags().Bool("by-filename", false, "treat arguments as filenames. Every resume with that name is deleted")
	deleteCmd.Flags().Bool("all", false, "delete every resume left after --tag and --exclude-file")
	deleteCmd.Flags().StringP("tag", "t", "", "with --all, delete only resumes in this folder")
	deleteCmd.Flags().StringP("exclude-file", "e", "", "with --all, a file with resume ids (one per line) to keep")
}

func checkDeleteArgs(args []string, all bool, tag, excludeFile string) error {
	switch {
	case all && len(args) > 0:
		return errors.New("--all does not take resume ids or filenames")
	case !all && len(args) == 0:
		return errors.New("pass resume ids (or filenames with --by-filename) or --all")
	case !all && (tag != "" || excludeFile != ""):
		return errors.New("--tag and --exclude-file only narrow --all")
	}
	return nil
}

// deleteTargets resolves the command arguments to resumes. Unknown ids are
// passed through so the api reports them.
func deleteTargets(s *session, args []string, byFilename bool, cfg *filtering.Config, all bool) ([]*resudoc.Resume, error) {
	if !all && !byFilename {
		targets := make([]*resudoc.Resume, 0, len(args))
		for _, id := range args {
			targets = append(targets, &resudoc.Resume{ID: id, Filename: id})
		}
		return targets, nil
	}

	if !all {
		cfg = &filtering.Config{}
	}

	resumes, err := listResumes(s, cfg)
	if err != nil {
		return nil, err
	}

	if all {
		return resumes.Items, nil
	}

	targets := make([]*resudoc.Resume, 0, len(args))
	for _, name := range args {
		found := resumes.FindByFilename(name)
		if len(found) == 0 {
			s.logger.Warn("no resume with this filename", zap.String("filename", name))
			continue
		}
		targets = append(targets, found...)
	}
	return targets, nil
}

func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	return err == nil
}

func confirmAndDelete(s *session, resume *resudoc.Resume) error {
	if !confirm(render.MsgConfirmDelete) {
		return nil
	}
	if err := deleteResume(s, resume); err != nil && !isAPIError(err) {
		return err
	}
	return nil
}

func deleteResume(s *session, resume *resudoc.Resume) error {
	err := s.client.DeleteResume(s.ctx, resume.ID)
	if err != nil {
		s.logger.Error("deleting resume", zap.String("resume_id", resume.ID), zap.Error(err))
		if isAPIError(err) {
			printAlerts(render.Alert{Level: render.LevelError, Text: render.MsgDeleteFailed})
		} else {
			printAlerts(render.ActionError("deleting resume", err))
		}
		return err
	}

	s.logger.Debug("deleted resume", zap.String("resume_id", resume.ID), zap.String("filename", resume.Filename))
	printAlerts(render.Alert{Level: render.LevelSuccess, Text: render.MsgDeleted})
	return nil
}

func isAPIError(err error) bool {
	var apiErr *resudoc.APIError
	return errors.As(err, &apiErr)
}
