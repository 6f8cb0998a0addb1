package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/history"
	"github.com/spigell/resudoc/internal/render"
	"github.com/spigell/resudoc/internal/resudoc"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a job description against the uploaded resumes",
	Long: `Match a job description against the uploaded resumes.

The job description is read from --jd, --jd-file or, when neither is set, from stdin.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		s := newSession(cmd)

		jd, _ := cmd.Flags().GetString("jd")
		jdFile, _ := cmd.Flags().GetString("jd-file")
		k, _ := cmd.Flags().GetInt("k")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		asJSON, _ := cmd.Flags().GetBool("json-output")
		asTable, _ := cmd.Flags().GetBool("table")
		dump, _ := cmd.Flags().GetBool("dump")

		if !cmd.Flags().Changed("k") {
			k = s.config.TopK
		}

		text, err := readJobDescription(jd, jdFile, os.Stdin)
		if err != nil {
			s.logger.Fatal("reading job description", zap.Error(err))
		}

		req := newMatchRequest(s.userID, text, k, tags)

		results, err := s.client.Match(s.ctx, req)
		switch {
		case errors.Is(err, resudoc.ErrEmptyJobDescription):
			printAlerts(render.Alert{Level: render.LevelWarning, Text: render.MsgEmptyJobDescription})
			os.Exit(1)
		case err != nil:
			printAlerts(render.ActionError("matching resumes", err))
			s.logger.Fatal("matching resumes", zap.Error(err))
		}

		s.logger.Debug("got match results", zap.Int("results", results.Len()), zap.Int("candidates", results.TotalCandidates))

		if store := s.openHistory(); store != nil {
			recordRun(s.ctx, s.logger, store, req, results)
			store.Close()
		}

		if dump {
			path, err := results.DumpToTmpFile()
			if err != nil {
				s.logger.Fatal("dumping results", zap.Error(err))
			}
			s.logger.Info("results are dumped", zap.String("path", path))
		}

		if err := printResults(results, asJSON, asTable); err != nil {
			s.logger.Fatal("printing results", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("jd", "", "job description text")
	matchCmd.Flags().String("jd-file", "", "file with the job description")
	matchCmd.Flags().IntP("k", "k", resudoc.DefaultTopK, "number of results (1-20). Default is the top-k setting")
	matchCmd.Flags().StringSliceP("tag", "t", nil, "match only resumes in these folders. Can be repeated")
	matchCmd.Flags().Bool("json-output", false, "print the results as json")
	matchCmd.Flags().Bool("table", false, "print the results as a table")
	matchCmd.Flags().Bool("dump", false, "also write the results to a temporary json file")
}

// newMatchRequest returns the request as it goes over the wire, so history
// stores exactly what was matched.
func newMatchRequest(userID, text string, k int, tags []string) *resudoc.MatchRequest {
	req := &resudoc.MatchRequest{
		UserID: userID,
		JDText: text,
		K:      k,
		Tags:   tags,
	}
	req.Normalize()
	return req
}

// readJobDescription prefers the inline text, then the file, then stdin.
func readJobDescription(inline, path string, stdin io.Reader) (string, error) {
	if inline != "" {
		return inline, nil
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if f, ok := stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return "", err
		}
		// Nothing is piped in.
		if info.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func recordRun(ctx context.Context, logger *zap.Logger, store *history.Store, req *resudoc.MatchRequest, results *resudoc.MatchResults) {
	id, err := store.Record(ctx, &history.Run{
		UserID:  req.UserID,
		JDText:  req.JDText,
		K:       req.K,
		Tags:    req.Tags,
		Results: results,
	})
	if err != nil {
		logger.Warn("recording match run", zap.Error(err))
		return
	}
	logger.Debug("recorded match run", zap.Int64("run_id", id))
}

func printResults(results *resudoc.MatchResults, asJSON, asTable bool) error {
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case results.Len() == 0:
		printAlerts(render.Alert{Level: render.LevelInfo, Text: render.MsgNoMatches})
		return nil
	case asTable:
		return renderTable(matchesTable(results))
	default:
		_, err := fmt.Fprintln(out, render.MatchResults(results))
		return err
	}
}
