package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resudoc/internal/history"
	"github.com/spigell/resudoc/internal/render"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded match runs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		s := newSession(cmd)
		limit, _ := cmd.Flags().GetInt("limit")

		store := mustHistory(s)
		defer store.Close()

		runs, err := store.List(s.ctx, limit)
		if err != nil {
			s.logger.Fatal("listing match runs", zap.Error(err))
		}

		if len(runs) == 0 {
			s.logger.Info("no match runs recorded yet")
			return
		}

		if err := renderTable(runsTable(runs)); err != nil {
			s.logger.Fatal("rendering match runs", zap.Error(err))
		}
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the results of a recorded match run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession(cmd)

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			s.logger.Fatal("wrong run id", zap.String("id", args[0]), zap.Error(err))
		}

		store := mustHistory(s)
		defer store.Close()

		run, err := store.Get(s.ctx, id)
		if errors.Is(err, history.ErrRunNotFound) {
			s.logger.Fatal("no such match run", zap.Int64("run_id", id))
		}
		if err != nil {
			s.logger.Fatal("getting match run", zap.Error(err))
		}

		fmt.Fprintln(out, render.HeadingStyle.Render(fmt.Sprintf("Run #%d, %s, top %d", run.ID, humanize.Time(run.CreatedAt), run.K)))
		fmt.Fprintln(out, render.MutedStyle.Render(run.JDPreview))
		fmt.Fprintln(out, render.MatchResults(run.Results))
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.Flags().IntP("limit", "l", 20, "how many recent runs to show")
}

func mustHistory(s *session) *history.Store {
	store := s.openHistory()
	if store == nil {
		s.logger.Fatal("match history is disabled", zap.String("hint", "set history-db in the config, RESUDOC_HISTORY_DB or --history-db"))
	}
	return store
}

func runsTable(runs []*history.Run) pterm.TableData {
	data := pterm.TableData{{"ID", "When", "Top", "Tags", "Results", "Job description"}}
	for _, run := range runs {
		tags := "all"
		if len(run.Tags) > 0 {
			tags = strings.Join(run.Tags, ", ")
		}
		data = append(data, []string{
			fmt.Sprint(run.ID),
			humanize.Time(run.CreatedAt),
			fmt.Sprint(run.K),
			tags,
			fmt.Sprint(run.Results.Len()),
			run.JDPreview,
		})
	}
	return data
}
