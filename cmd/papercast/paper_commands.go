package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/api"
	"papercast/internal/workflow"
)

func newUploadCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a paper archive (.zip) or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				path := strings.TrimSpace(args[0])
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open paper: %w", err)
				}
				defer file.Close()

				filename := filepath.Base(path)
				var result api.IngestResult
				switch strings.ToLower(filepath.Ext(path)) {
				case ".zip":
					result, err = app.papers.UploadArchive(ctx, filename, file)
				case ".pdf":
					result, err = app.papers.UploadPDF(ctx, filename, file)
				default:
					return fmt.Errorf("unsupported paper format %q (expected .zip or .pdf)", filepath.Ext(path))
				}
				if err != nil {
					return err
				}

				applyIngestResult(app, result)
				if err := app.notifier.NotifyPaperIngested(ctx, result.Metadata.Title); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s as paper %s (%d images extracted)\n",
					filename, result.PaperID, len(result.ImageFiles))
				return nil
			})
		},
	}
	return cmd
}

func newImportCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <arxiv-url>",
		Short: "Import a paper by scraping an arXiv page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				result, err := app.papers.ImportFromURL(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}

				applyIngestResult(app, result)
				if err := app.notifier.NotifyPaperIngested(ctx, result.Metadata.Title); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported paper %s: %s\n", result.PaperID, result.Metadata.Title)
				return nil
			})
		},
	}
}

// applyIngestResult records a fresh ingest without moving the current step;
// advancing is the user's call via 'continue' or 'goto'.
func applyIngestResult(app *appContext, result api.IngestResult) {
	app.machine.SetPaperID(result.PaperID)
	app.machine.SetMetadata(workflow.PatchFrom(workflow.Metadata{
		Title:   result.Metadata.Title,
		Authors: result.Metadata.Authors,
		Date:    result.Metadata.Date,
	}))
	app.machine.SetImages(result.ImageFiles)
	app.machine.MarkStepCompleted(workflow.StepPaperUpload)
}

func newMetaCommand(cmdCtx *commandContext) *cobra.Command {
	metaCmd := &cobra.Command{
		Use:   "meta",
		Short: "Inspect or edit paper metadata",
	}
	metaCmd.AddCommand(newMetaShowCommand(cmdCtx))
	metaCmd.AddCommand(newMetaSetCommand(cmdCtx))
	return metaCmd
}

func newMetaShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the paper's metadata from the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				meta, err := app.papers.Metadata(ctx, paperID)
				if err != nil {
					return err
				}
				app.machine.SetMetadata(workflow.PatchFrom(workflow.Metadata(meta)))

				rows := [][]string{
					{"Paper", paperID},
					{"Title", meta.Title},
					{"Authors", meta.Authors},
					{"Date", meta.Date},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newMetaSetCommand(cmdCtx *commandContext) *cobra.Command {
	var title, authors, date string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update metadata fields; unset flags keep their values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}

				var patch api.MetadataPatch
				if cmd.Flags().Changed("title") {
					patch.Title = &title
				}
				if cmd.Flags().Changed("authors") {
					patch.Authors = &authors
				}
				if cmd.Flags().Changed("date") {
					patch.Date = &date
				}
				if patch.Title == nil && patch.Authors == nil && patch.Date == nil {
					return fmt.Errorf("nothing to update; pass --title, --authors, or --date")
				}

				meta, err := app.papers.UpdateMetadata(ctx, paperID, patch)
				if err != nil {
					return err
				}
				app.machine.SetMetadata(workflow.PatchFrom(workflow.Metadata(meta)))
				fmt.Fprintf(cmd.OutOrStdout(), "Metadata updated: %s\n", meta.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Paper title")
	cmd.Flags().StringVar(&authors, "authors", "", "Paper authors")
	cmd.Flags().StringVar(&date, "date", "", "Publication date")
	return cmd
}
