package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studypulse/internal/dashboard"
	"github.com/abhisek/studypulse/internal/store"
)

// reportWidth is the column width of styled reports.
const reportWidth = 80

var progressCmd = &cobra.Command{
	Use:   "progress <session>",
	Short: "Show mastery, accuracy, weaknesses and recommendations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		p, err := svc.Progress(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintln(cmd.OutOrStdout(), dashboard.RenderReport(p, reportWidth))
		return nil
	},
}

var weaknessesCmd = &cobra.Command{
	Use:   "weaknesses <session>",
	Short: "Show the weakness DNA of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		report, err := svc.WeaknessProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		fmt.Fprintln(cmd.OutOrStdout(), dashboard.RenderWeaknessProfile(report.WeaknessProfile))
		return nil
	},
}

var nextCmd = &cobra.Command{
	Use:   "next <session> <topic>...",
	Short: "Suggest which topic to study next",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		topic, err := svc.NextTopic(cmd.Context(), args[0], args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), topic)
		return nil
	},
}

var stressCmd = &cobra.Command{
	Use:   "stress <session>",
	Short: "Check the current stress signal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		signal, err := svc.Stress(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), signal)
		}
		fmt.Fprintln(cmd.OutOrStdout(), dashboard.RenderStress(signal))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <session>",
	Short: "List recent answers, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		after, _ := cmd.Flags().GetInt64("after")

		svc, closeFn, err := openService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		events, err := svc.History(cmd.Context(), args[0], store.QueryOpts{Limit: limit, After: after})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No answers recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-19s  %-16s  %-10s  %6s  %s\n",
			"Seq", "Timestamp", "Topic", "Type", "Secs", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, e := range events {
			ok := "✓"
			if !e.Correct {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-6d  %-19s  %-16s  %-10s  %6.1f  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Topic, 16),
				e.QuestionType,
				e.TimeSeconds,
				ok,
			)
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().Bool("json", false, "Print the report as JSON")
	weaknessesCmd.Flags().Bool("json", false, "Print the profile as JSON")
	stressCmd.Flags().Bool("json", false, "Print the signal as JSON")
	historyCmd.Flags().Int("limit", 20, "Maximum number of answers to list (0 = all)")
	historyCmd.Flags().Int64("after", 0, "Only list answers with a sequence number above this one")
}
