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

const (
	PromptBack   = "back"
	PromptExit   = "exit"
	PromptDelete = "Delete"
)

var errExit = errors.New("exit requested")

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "List resumes, optionally only those in one folder",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		s := newSession(cmd)

		tag, _ := cmd.Flags().GetString("tag")
		name, _ := cmd.Flags().GetString("name")
		interactive, _ := cmd.Flags().GetBool("interactive")

		if interactive {
			if err := browse(s); err != nil && !errors.Is(err, errExit) {
				s.logger.Fatal("exiting", zap.Error(err))
			}
			return
		}

		resumes, err := listResumes(s, &filtering.Config{Tag: tag, Filename: name})
		if err != nil {
			s.logger.Fatal("getting resumes", zap.Error(err))
		}

		fmt.Fprintln(out, render.ResumeListTitle(tag))
		if resumes.Len() == 0 {
			fmt.Fprintln(out, render.EmptyResumes(tag))
			return
		}

		if err := renderTable(resumesTable(resumes)); err != nil {
			s.logger.Fatal("rendering resumes", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(resumesCmd)

	resumesCmd.Flags().StringP("tag", "t", "", "show only resumes in this folder")
	resumesCmd.Flags().StringP("name", "n", "", "show only resumes whose filename contains this text")
	resumesCmd.Flags().BoolP("interactive", "i", false, "pick a folder and manage its resumes interactively")
}

// listResumes fetches every resume and narrows the list with the filters.
func listResumes(s *session, cfg *filtering.Config) (*resudoc.Resumes, error) {
	all, err := s.client.Resumes(s.ctx, s.userID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("got resumes", zap.Int("count", all.Len()))
	return filtering.Run(s.ctx, cfg, filtering.Deps{Logger: s.logger}, filtering.Default(), all)
}

// browse walks folders and resumes with prompts until the user exits.
func browse(s *session) error {
	for {
		folders, err := s.client.Folders(s.ctx, s.userID)
		if err != nil {
			return fmt.Errorf("get folders: %w", err)
		}

		items := []string{render.ResumeListTitle("")}
		for _, folder := range folders.Items {
			items = append(items, fmt.Sprintf("%s (%d)", render.ResumeListTitle(folder.Name), folder.Count))
		}

		folderPrompt := promptui.Select{
			Label: "Choose a folder and press ENTER",
			Items: append(items, PromptExit),
			Size:  10,
		}

		index, selected, err := folderPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptExit {
			return errExit
		}

		tag := ""
		if index > 0 {
			tag = folders.Items[index-1].Name
		}

		if err := browseFolder(s, tag); err != nil {
			return err
		}
	}
}

func browseFolder(s *session, tag string) error {
	for {
		resumes, err := listResumes(s, &filtering.Config{Tag: tag})
		if err != nil {
			return fmt.Errorf("get resumes: %w", err)
		}

		if resumes.Len() == 0 {
			s.logger.Info(render.EmptyResumes(tag))
			return nil
		}

		items := make([]string, 0, resumes.Len()+1)
		for i, resume := range resumes.Items {
			items = append(items, fmt.Sprintf("%d. 📄 %s / %s", i+1, resume.Filename, resume.ID))
		}

		resumePrompt := promptui.Select{
			Label: render.ResumeListTitle(tag),
			Items: append(items, PromptBack),
			Size:  15,
		}

		index, selected, err := resumePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		resume := resumes.Items[index]

		actionPrompt := promptui.Select{
			Label: resume.Filename,
			Items: []string{PromptDelete, PromptBack},
		}
		_, action, err := actionPrompt.Run()
		if err != nil {
			return err
		}

		if action == PromptDelete {
			if err := confirmAndDelete(s, resume); err != nil {
				return err
			}
		}
	}
}
