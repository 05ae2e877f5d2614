package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/api"
	"papercast/internal/workflow"
)

func newScriptsCommand(cmdCtx *commandContext) *cobra.Command {
	scriptsCmd := &cobra.Command{
		Use:   "scripts",
		Short: "Generate and edit narration scripts",
	}
	scriptsCmd.AddCommand(newScriptsGenerateCommand(cmdCtx))
	scriptsCmd.AddCommand(newScriptsShowCommand(cmdCtx))
	scriptsCmd.AddCommand(newScriptsEditCommand(cmdCtx))
	scriptsCmd.AddCommand(newScriptsPushCommand(cmdCtx))
	scriptsCmd.AddCommand(newScriptsAssignImageCommand(cmdCtx))
	return scriptsCmd
}

func newScriptsGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Trigger script generation and pull the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				if err := app.scripts.Generate(ctx, paperID); err != nil {
					return err
				}
				if err := pullScripts(ctx, app, paperID); err != nil {
					return err
				}
				app.machine.MarkStepCompleted(workflow.StepScriptGeneration)
				state := app.machine.Snapshot()
				if err := app.notifier.NotifyScriptsGenerated(ctx, state.Metadata.Title); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scripts generated for %d sections\n", len(state.Scripts))
				return nil
			})
		},
	}
}

func newScriptsShowCommand(cmdCtx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "show [section]",
		Short: "Show scripts, or one section's full script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				if refresh {
					if err := pullScripts(ctx, app, paperID); err != nil {
						return err
					}
				}
				state := app.machine.Snapshot()
				out := cmd.OutOrStdout()

				if len(args) == 1 {
					section, err := parseSectionArg(args[0])
					if err != nil {
						return err
					}
					script, ok := state.EditedScripts[section]
					if !ok {
						fmt.Fprintf(out, "No script for %s yet\n", section)
						return nil
					}
					fmt.Fprintln(out, script)
					return nil
				}

				rows := make([][]string, 0, len(workflow.AllSections()))
				for _, section := range workflow.AllSections() {
					script, ok := state.EditedScripts[section]
					if !ok {
						continue
					}
					edited := ""
					if state.Scripts[section] != script {
						edited = "edited"
					}
					rows = append(rows, []string{
						section.String(),
						fmt.Sprintf("%d", len(strings.Fields(script))),
						state.SelectedImages[section],
						edited,
					})
				}
				if len(rows) == 0 {
					fmt.Fprintln(out, "No scripts yet; run 'papercast scripts generate'")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Section", "Words", "Image", ""},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the latest sections from the backend first")
	return cmd
}

func newScriptsEditCommand(cmdCtx *commandContext) *cobra.Command {
	var text, file string

	cmd := &cobra.Command{
		Use:   "edit <section>",
		Short: "Replace one section's working script locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				if _, err := app.requirePaper(ctx); err != nil {
					return err
				}
				section, err := parseSectionArg(args[0])
				if err != nil {
					return err
				}
				script, err := readTextArg(text, file)
				if err != nil {
					return err
				}
				app.machine.SetEditedScript(section, script)
				fmt.Fprintf(cmd.OutOrStdout(), "Edited %s locally; run 'papercast scripts push' to save\n", section)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Replacement script text")
	cmd.Flags().StringVar(&file, "file", "", "File containing the replacement script")
	return cmd
}

func newScriptsPushCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Save locally edited scripts to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				state := app.machine.Snapshot()
				if !state.HasPendingEdits() {
					fmt.Fprintln(cmd.OutOrStdout(), "No pending edits")
					return nil
				}

				// Push only the sections that diverge from the server copy.
				changed := make(map[string]api.SectionContent)
				for section, script := range state.EditedScripts {
					if state.Scripts[section] == script {
						continue
					}
					changed[section.String()] = api.SectionContent{
						Script:        script,
						BulletPoints:  state.BulletPoints[section],
						AssignedImage: state.SelectedImages[section],
					}
				}
				if err := app.scripts.UpdateSections(ctx, paperID, changed); err != nil {
					return err
				}
				app.machine.SetScripts(state.EditedScripts)
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d edited sections\n", len(changed))
				return nil
			})
		},
	}
}

func newScriptsAssignImageCommand(cmdCtx *commandContext) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "assign-image <section> [image]",
		Short: "Assign an extracted image to a section, or clear it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				section, err := parseSectionArg(args[0])
				if err != nil {
					return err
				}

				imageName := ""
				if len(args) == 2 {
					imageName = strings.TrimSpace(args[1])
				}
				if imageName == "" && !clear {
					return fmt.Errorf("provide an image name or --clear")
				}
				if clear {
					imageName = ""
				}

				if err := app.scripts.AssignImage(ctx, paperID, section.String(), imageName); err != nil {
					return err
				}
				app.machine.SetSelectedImage(section, imageName)

				out := cmd.OutOrStdout()
				if imageName == "" {
					fmt.Fprintf(out, "Cleared image for %s\n", section)
				} else {
					fmt.Fprintf(out, "Assigned %s to %s\n", imageName, section)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the section's image assignment")
	return cmd
}

// pullScripts refreshes the machine's script state from the backend. An
// expected absence resolves to empty maps, which is still a valid pull.
func pullScripts(ctx context.Context, app *appContext, paperID string) error {
	resp, err := app.scripts.GetSections(ctx, paperID)
	if err != nil {
		return err
	}

	scripts := make(map[workflow.Section]string, len(resp.Sections))
	points := make(map[workflow.Section][]string, len(resp.Sections))
	for raw, content := range resp.Sections {
		section, err := workflow.ParseSection(raw)
		if err != nil {
			return fmt.Errorf("backend returned %w", err)
		}
		scripts[section] = content.Script
		if len(content.BulletPoints) > 0 {
			points[section] = content.BulletPoints
		}
		app.machine.SetSelectedImage(section, content.AssignedImage)
	}
	app.machine.SetScripts(scripts)
	app.machine.SetBulletPoints(points)
	return nil
}
