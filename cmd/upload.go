package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/render"
	"github.com/spigell/resudoc/internal/resudoc"
	"github.com/spigell/resudoc/internal/selection"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [FILE...]",
	Short: "Upload resumes in one batch, tagging them with folders",
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession(cmd)

		tags, _ := cmd.Flags().GetString("tags")
		dir, _ := cmd.Flags().GetString("dir")
		quiet, _ := cmd.Flags().GetBool("no-progress")

		var files selection.Files
		files.Add(args...)

		if dir != "" {
			found, err := selection.PDFsInDir(dir)
			if err != nil {
				s.logger.Fatal("reading directory", zap.Error(err), zap.String("dir", dir))
			}
			s.logger.Debug("found pdf files", zap.String("dir", dir), zap.Int("count", len(found)))
			files.Add(found...)
		}

		if !files.Ready() {
			s.logger.Fatal("nothing to upload", zap.String("hint", "pass pdf files or --dir"))
		}

		total, err := totalSize(files.Paths())
		if err != nil {
			s.logger.Fatal("checking files", zap.Error(err))
		}

		req := &resudoc.UploadRequest{
			UserID: s.userID,
			Tags:   selection.ParseTags(tags),
			Files:  files.Paths(),
		}
		if !quiet {
			req.Progress = newProgress(total, fmt.Sprintf("reading %d file(s)", files.Len()))
		}

		s.logger.Info("uploading resumes", zap.Int("files", files.Len()), zap.Strings("tags", req.Tags))

		result, err := s.client.UploadBatch(s.ctx, req)
		if err != nil {
			printAlerts(render.ActionError("uploading files", err))
			s.logger.Fatal("uploading resumes", zap.Error(err))
		}

		for _, failure := range result.Failed {
			s.logger.Warn("file was not uploaded", zap.String("filename", failure.Filename), zap.String("error", failure.Error))
		}

		printAlerts(render.UploadOutcome(result)...)

		if result.SuccessCount == 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().String("tags", "", "comma separated folders for the uploaded resumes")
	uploadCmd.Flags().String("dir", "", "also upload every pdf file in this directory")
	uploadCmd.Flags().Bool("no-progress", false, "do not draw the progress bar")
}

func totalSize(paths []string) (int64, error) {
	var total int64
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return 0, err
		}
		if info.IsDir() {
			return 0, fmt.Errorf("%s is a directory, use --dir", path)
		}
		total += info.Size()
	}
	return total, nil
}

func newProgress(total int64, description string) io.Writer {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
