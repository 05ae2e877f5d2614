package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/workflow"
)

func newSlidesCommand(cmdCtx *commandContext) *cobra.Command {
	slidesCmd := &cobra.Command{
		Use:   "slides",
		Short: "Render and download presentation slides",
	}
	slidesCmd.AddCommand(newSlidesGenerateCommand(cmdCtx))
	slidesCmd.AddCommand(newSlidesPreviewCommand(cmdCtx))
	slidesCmd.AddCommand(newSlidesDownloadCommand(cmdCtx))
	return slidesCmd
}

func newSlidesGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Trigger slide rendering and pull the preview list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				if err := app.slides.Generate(ctx, paperID); err != nil {
					return err
				}
				slides, err := app.slides.Preview(ctx, paperID)
				if err != nil {
					return err
				}
				app.machine.SetSlides(slides)
				app.machine.MarkStepCompleted(workflow.StepSlideCreation)
				state := app.machine.Snapshot()
				if err := app.notifier.NotifySlidesGenerated(ctx, state.Metadata.Title); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d slides\n", len(slides))
				return nil
			})
		},
	}
}

func newSlidesPreviewCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "List rendered slides with their image URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				slides, err := app.slides.Preview(ctx, paperID)
				if err != nil {
					return err
				}
				app.machine.SetSlides(slides)

				out := cmd.OutOrStdout()
				if len(slides) == 0 {
					fmt.Fprintln(out, "No slides yet; run 'papercast slides generate'")
					return nil
				}
				rows := make([][]string, 0, len(slides))
				for i, name := range slides {
					rows = append(rows, []string{
						fmt.Sprintf("%d", i+1),
						name,
						app.images.URLFor(paperID, name),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Slide", "URL"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newSlidesDownloadCommand(cmdCtx *commandContext) *cobra.Command {
	var outPath string
	var latex bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the compiled deck, or its LaTeX sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}

				var data []byte
				if latex {
					data, err = app.slides.DownloadSource(ctx, paperID)
				} else {
					data, err = app.slides.Download(ctx, paperID)
				}
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outPath)
				if target == "" {
					if latex {
						target = paperID + "-slides.tex"
					} else {
						target = paperID + "-slides.pdf"
					}
				}
				if err := os.WriteFile(target, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", target, len(data))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file")
	cmd.Flags().BoolVar(&latex, "latex", false, "Download the LaTeX sources instead of the compiled deck")
	return cmd
}
