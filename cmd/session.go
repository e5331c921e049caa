package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studypulse/internal/dashboard"
	"github.com/abhisek/studypulse/internal/session"
)

var startCmd = &cobra.Command{
	Use:   "start <subject>",
	Short: "Start a new study session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		sess, err := svc.Start(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sess.ID)
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <session>",
	Short: "Submit a batch of graded answers",
	Long: `Submit a batch of answers as JSON, read from --file or stdin:

  {"topic": "fractions", "question_type": "mcq",
   "answers": [{"correct": true}, {"user_answer": "3/4", "correct_answer": "3/4"}],
   "per_question_times": [12.5, 9], "total_time_seconds": 21.5}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")

		raw, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		sub, err := session.ParseSubmission(raw)
		if err != nil {
			return err
		}

		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		res, err := svc.Submit(cmd.Context(), args[0], sub)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, res)
		}
		fmt.Fprintf(out, "Score:     %d/%d (%.1f%%)\n", res.Correct, res.Total, res.Accuracy)
		fmt.Fprintf(out, "Mastery:   %.1f\n", res.Mastery)
		fmt.Fprintf(out, "Mode:      %s\n", res.AdaptiveMode)
		fmt.Fprintf(out, "Strain:    %.1f (avg %.1fs)\n", res.CognitiveStrainIndex, res.AvgResponseTime)
		if res.StressDetected {
			fmt.Fprintf(out, "Stress:    detected, try %s\n", strings.ReplaceAll(string(res.RecommendedAction), "_", " "))
		}
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent study sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		sessions, err := svc.List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-19s  %-20s  %8s  %7s\n", "ID", "Updated", "Subject", "Answers", "Mastery")
		fmt.Fprintln(out, strings.Repeat("─", 98))
		for _, s := range sessions {
			fmt.Fprintf(out, "%-36s  %-19s  %-20s  %8d  %7.1f\n",
				s.ID,
				s.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(s.Subject, 20),
				s.Performance.TotalAttempts(),
				s.Performance.MasteryScore,
			)
		}
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <session>",
	Short: "Open a live terminal dashboard for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		// Fail fast on an unknown session before taking over the screen.
		if _, err := svc.Get(cmd.Context(), args[0]); err != nil {
			return err
		}
		return dashboard.Run(cmd.Context(), func(ctx context.Context) (*session.Progress, error) {
			return svc.Progress(ctx, args[0])
		})
	},
}

func init() {
	submitCmd.Flags().StringP("file", "f", "", "Read the submission from a file (default stdin, or -)")
	submitCmd.Flags().Bool("json", false, "Print the result as JSON")
	sessionsCmd.Flags().Int("limit", 20, "Maximum number of sessions to list")
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to at most n runes for fixed-width table columns.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
