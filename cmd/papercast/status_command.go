package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"papercast/internal/workflow"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the pipeline position and session summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				state := app.machine.Snapshot()
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				fmt.Fprintln(out, "Pipeline:")
				for _, step := range workflow.AllSteps() {
					kind := statusPending
					switch {
					case step == state.CurrentStep:
						kind = statusCurrent
					case state.StepCompleted(step):
						kind = statusDone
					}
					fmt.Fprintln(out, renderStepLine(stepDisplayName(step), kind, colorize))
				}
				fmt.Fprintln(out)

				rows := [][]string{
					{"Session path", app.location.Current()},
					{"Paper", valueOrDash(state.PaperID)},
					{"Title", valueOrDash(state.Metadata.Title)},
					{"Logged in", yesNo(app.creds.Token() != "")},
					{"Pending edits", yesNo(state.HasPendingEdits())},
					{"Slides", fmt.Sprintf("%d", len(state.Slides))},
					{"Audio files", fmt.Sprintf("%d", len(state.AudioFiles))},
					{"Video", valueOrDash(state.VideoPath)},
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
