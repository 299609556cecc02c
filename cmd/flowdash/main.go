package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"flowdash/internal/bootstrap"
	sessiondomain "flowdash/internal/modules/session/domain"
	"flowdash/internal/modules/session/dto"
	"flowdash/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flowdash"
	}
	return filepath.Join(home, ".flowdash")
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "flowdash",
		Short:         "Flow session tracker and productivity dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newFlowCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newTagCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newExportCmd(&dataDir))
	root.AddCommand(newReminderCmd(&dataDir))
	root.AddCommand(newSeedCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the flowdash terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newFlowCmd(dataDir *string) *cobra.Command {
	flow := &cobra.Command{Use: "flow", Short: "Start, inspect and finish flow sessions"}

	var goal, tagName string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a flow session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			tagID := ""
			if tagName != "" {
				tag, err := app.TagCLI.Create(ctx, tagName)
				if err != nil {
					return err
				}
				tagID = tag.ID
			}
			active, err := app.SessionCLI.StartFlow(ctx, goal, tagID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "flow started: %q (%s)\n", active.Goal, active.StartTime.Format("15:04:05"))
			return nil
		},
	}
	startCmd.Flags().StringVar(&goal, "goal", "", "what you are working on")
	startCmd.Flags().StringVar(&tagName, "tag", "", "shipping-cycle tag name")
	_ = startCmd.MarkFlagRequired("goal")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			active, err := app.SessionCLI.GetActive(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "in flow: %q since %s\n", active.Goal, active.StartTime.Format("15:04:05"))
			return nil
		},
	}

	var score, interruptions, thinking, coding, debugging, waiting int
	var shipped bool
	var notes string
	completeCmd := &cobra.Command{
		Use:   "complete",
		Short: "Complete the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			session, err := app.SessionCLI.Complete(context.Background(), dto.CompleteInput{
				FlowScore:     score,
				Interruptions: interruptions,
				Shipped:       shipped,
				Bottleneck: sessiondomain.Bottleneck{
					Thinking:  thinking,
					Coding:    coding,
					Debugging: debugging,
					Waiting:   waiting,
				},
				Notes: notes,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %q: %d min, score %d\n", session.Goal, session.LeadTimeMinutes, session.FlowScore)
			return nil
		},
	}
	completeCmd.Flags().IntVar(&score, "score", 0, "flow score 1-5")
	completeCmd.Flags().IntVar(&interruptions, "interruptions", 0, "interruption count")
	completeCmd.Flags().BoolVar(&shipped, "shipped", false, "did this session ship something")
	completeCmd.Flags().IntVar(&thinking, "thinking", 0, "thinking percent")
	completeCmd.Flags().IntVar(&coding, "coding", 0, "coding percent")
	completeCmd.Flags().IntVar(&debugging, "debugging", 0, "debugging percent")
	completeCmd.Flags().IntVar(&waiting, "waiting", 0, "waiting percent")
	completeCmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = completeCmd.MarkFlagRequired("score")

	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Discard the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Cancel(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session discarded")
			return nil
		},
	}

	flow.AddCommand(startCmd, statusCmd, completeCmd, cancelCmd)
	return flow
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Inspect and edit recorded sessions"}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			sessions, err := app.SessionCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions recorded")
				return nil
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[:limit]
			}
			for _, s := range sessions {
				shipped := ""
				if s.Shipped {
					shipped = " [shipped]"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %3d min  score %d%s  %s\n",
					s.ID, s.EndTime.Format("2006-01-02 15:04"), s.LeadTimeMinutes, s.FlowScore, shipped, s.Goal)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "show at most N sessions")

	var id, goal, tagName, notes string
	var score, interruptions int
	var shipped, notShipped, clearTag bool
	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit fields of a recorded session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			patch := dto.UpdateInput{ID: id}
			if cmd.Flags().Changed("goal") {
				patch.Goal = &goal
			}
			if clearTag {
				empty := ""
				patch.TagID = &empty
			} else if cmd.Flags().Changed("tag") {
				tag, err := app.TagCLI.Create(ctx, tagName)
				if err != nil {
					return err
				}
				patch.TagID = &tag.ID
			}
			if cmd.Flags().Changed("score") {
				patch.FlowScore = &score
			}
			if cmd.Flags().Changed("interruptions") {
				patch.Interruptions = &interruptions
			}
			if shipped {
				v := true
				patch.Shipped = &v
			} else if notShipped {
				v := false
				patch.Shipped = &v
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			session, err := app.SessionCLI.Update(ctx, patch)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", session.ID)
			return nil
		},
	}
	editCmd.Flags().StringVar(&id, "id", "", "session id")
	editCmd.Flags().StringVar(&goal, "goal", "", "new goal")
	editCmd.Flags().StringVar(&tagName, "tag", "", "new shipping-cycle tag name")
	editCmd.Flags().BoolVar(&clearTag, "clear-tag", false, "detach the session from its tag")
	editCmd.Flags().IntVar(&score, "score", 0, "new flow score")
	editCmd.Flags().IntVar(&interruptions, "interruptions", 0, "new interruption count")
	editCmd.Flags().BoolVar(&shipped, "shipped", false, "mark as shipped")
	editCmd.Flags().BoolVar(&notShipped, "not-shipped", false, "mark as not shipped")
	editCmd.Flags().StringVar(&notes, "notes", "", "new notes")
	_ = editCmd.MarkFlagRequired("id")

	var deleteID string
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a recorded session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Delete(context.Background(), deleteID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", deleteID)
			return nil
		},
	}
	deleteCmd.Flags().StringVar(&deleteID, "id", "", "session id")
	_ = deleteCmd.MarkFlagRequired("id")

	session.AddCommand(listCmd, editCmd, deleteCmd)
	return session
}

func newTagCmd(dataDir *string) *cobra.Command {
	tag := &cobra.Command{Use: "tag", Short: "Shipping-cycle tags"}

	var name string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a shipping-cycle tag",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TagCLI.Create(context.Background(), name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tag %q (%s)\n", out.Name, out.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "tag name")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tags, active first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			tags, err := app.TagCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tags")
				return nil
			}
			for _, t := range tags {
				status := t.Status
				if t.CompletedAt != nil {
					status = fmt.Sprintf("completed %s", t.CompletedAt.Format("2006-01-02"))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-20s  %s\n", t.ID, t.Name, status)
			}
			return nil
		},
	}

	tag.AddCommand(createCmd, listCmd)
	return tag
}

func newStatsCmd(dataDir *string) *cobra.Command {
	stats := &cobra.Command{Use: "stats", Short: "Aggregated productivity stats"}

	var filter string
	addFilter := func(cmd *cobra.Command) *cobra.Command {
		cmd.Flags().StringVar(&filter, "filter", "week", "window: day|week|month")
		return cmd
	}

	summaryCmd := addFilter(&cobra.Command{
		Use:   "summary",
		Short: "Headline metrics for the window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			s, err := app.Analytics.Summary(context.Background(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "sessions:    %d\n", s.Count)
			_, _ = fmt.Fprintf(out, "total hours: %.1f\n", s.TotalHours)
			_, _ = fmt.Fprintf(out, "avg score:   %.1f\n", s.AvgScore)
			_, _ = fmt.Fprintf(out, "ship rate:   %d%%\n", s.ShipRate)
			_, _ = fmt.Fprintf(out, "best bucket: %s (%d min)\n", s.BestBucketLabel, s.BestBucketMin)
			_, _ = fmt.Fprintf(out, "mean bucket: %d min\n", s.MeanBucketMin)
			return nil
		},
	})

	trendCmd := addFilter(&cobra.Command{
		Use:   "trend",
		Short: "Bucketed minutes and flow score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			buckets, err := app.Analytics.Trend(context.Background(), filter)
			if err != nil {
				return err
			}
			for _, b := range buckets {
				bar := strings.Repeat("█", b.TotalMinutes/30)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-10s %4d min  avg %.1f  %s\n", b.Label, b.TotalMinutes, b.AvgScore, bar)
			}
			return nil
		},
	})

	bottlenecksCmd := addFilter(&cobra.Command{
		Use:   "bottlenecks",
		Short: "Where the time pressure sits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			totals, err := app.Analytics.Bottlenecks(context.Background(), filter)
			if err != nil {
				return err
			}
			for _, t := range totals {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-10s %3d%%\n", t.Phase, t.Percent)
			}
			return nil
		},
	})

	cyclesCmd := &cobra.Command{
		Use:   "cycles",
		Short: "Per-tag shipping cycle stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			cycles, err := app.Analytics.Cycles(context.Background())
			if err != nil {
				return err
			}
			if len(cycles) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tags")
				return nil
			}
			for _, c := range cycles {
				state := "active"
				if !c.Active {
					state = "completed"
				}
				ended := "-"
				if !c.EndedAt.IsZero() {
					ended = c.EndedAt.Format("2006-01-02")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-9s %2d sessions  %4d min  %s → %s\n",
					c.TagName, state, c.Count, c.TotalMin, c.StartedAt.Format("2006-01-02"), ended)
			}
			return nil
		},
	}

	heatmapCmd := &cobra.Command{
		Use:   "heatmap",
		Short: "365-day activity heatmap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			cells, err := app.Analytics.Heatmap(context.Background())
			if err != nil {
				return err
			}
			glyphs := []string{"·", "░", "▒", "▓", "█"}
			out := cmd.OutOrStdout()
			for i, cell := range cells {
				_, _ = fmt.Fprint(out, glyphs[cell.Intensity])
				if (i+1)%73 == 0 {
					_, _ = fmt.Fprintln(out)
				}
			}
			_, _ = fmt.Fprintln(out)
			return nil
		},
	}

	stats.AddCommand(summaryCmd, trendCmd, bottlenecksCmd, cyclesCmd, heatmapCmd)
	return stats
}

func newExportCmd(dataDir *string) *cobra.Command {
	export := &cobra.Command{Use: "export", Short: "Export session history"}

	var outPath string
	run := func(format string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			ctx := context.Background()
			if format == "json" {
				return app.Export.JSON(ctx, w)
			}
			return app.Export.CSV(ctx, w)
		}
	}
	jsonCmd := &cobra.Command{Use: "json", Short: "Export as pretty-printed JSON", RunE: run("json")}
	csvCmd := &cobra.Command{Use: "csv", Short: "Export as CSV", RunE: run("csv")}
	export.PersistentFlags().StringVar(&outPath, "out", "", "write to file instead of stdout")

	export.AddCommand(jsonCmd, csvCmd)
	return export
}

func newReminderCmd(dataDir *string) *cobra.Command {
	reminder := &cobra.Command{Use: "reminder", Short: "Flow check-in reminders"}

	var minutes int
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set the reminder interval in minutes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.SetReminderInterval(context.Background(), minutes); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reminder every %d min\n", minutes)
			return nil
		},
	}
	setCmd.Flags().IntVar(&minutes, "minutes", 60, "interval: 15, 30, 45, 60, 90 or 120")

	offCmd := &cobra.Command{
		Use:   "off",
		Short: "Disable reminders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.SetReminderInterval(context.Background(), 0); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reminders off")
			return nil
		},
	}

	reminder.AddCommand(setCmd, offCmd)
	return reminder
}

func newSeedCmd(dataDir *string) *cobra.Command {
	var days int
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Generate demo session history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			tags, err := app.TagCLI.List(ctx)
			if err != nil {
				return err
			}
			tagIDs := make([]string, 0, len(tags))
			for _, t := range tags {
				tagIDs = append(tagIDs, t.ID)
			}
			count, err := app.SessionCLI.Seed(ctx, days, tagIDs)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d sessions\n", count)
			return nil
		},
	}
	seed.Flags().IntVar(&days, "days", 120, "days of history to generate")
	return seed
}
