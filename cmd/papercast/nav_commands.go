package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"papercast/internal/router"
)

func newGotoCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "goto <step>",
		Short: "Jump directly to a pipeline step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				step, err := parseStepArg(args[0])
				if err != nil {
					return err
				}
				app.machine.SetStep(step)
				app.location.Replace(router.PathForStep(step))
				fmt.Fprintf(cmd.OutOrStdout(), "Now at %s\n", stepDisplayName(step))
				return nil
			})
		},
	}
}

func newContinueCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "continue",
		Short: "Complete the current step and advance to the next",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				before := app.machine.Snapshot().CurrentStep
				app.machine.ProgressToNextStep()
				after := app.machine.Snapshot().CurrentStep

				out := cmd.OutOrStdout()
				if before == after {
					fmt.Fprintf(out, "Already at the final step (%s)\n", stepDisplayName(after))
					return nil
				}
				fmt.Fprintf(out, "Advanced to %s\n", stepDisplayName(after))
				return nil
			})
		},
	}
}

func newResetCommand(cmdCtx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the workflow to its initial state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				app.machine.Reset()
				app.location.Replace("/")
				if all {
					if err := app.store.Clear(ctx); err != nil {
						return err
					}
					created, err := app.store.Create(ctx, "/", app.machine.Snapshot())
					if err != nil {
						return err
					}
					app.sessionID = created.ID
					fmt.Fprintln(cmd.OutOrStdout(), "All sessions cleared")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Workflow reset")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also delete every stored session")
	return cmd
}
