package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newImagesCommand(cmdCtx *commandContext) *cobra.Command {
	imagesCmd := &cobra.Command{
		Use:   "images",
		Short: "List and download the figures extracted from the paper",
	}
	imagesCmd.AddCommand(newImagesListCommand(cmdCtx))
	imagesCmd.AddCommand(newImagesGetCommand(cmdCtx))
	return imagesCmd
}

func newImagesListCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available images with their URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				images, err := app.images.ListAvailable(ctx, paperID)
				if err != nil {
					return err
				}
				app.machine.SetImages(images)

				out := cmd.OutOrStdout()
				if len(images) == 0 {
					fmt.Fprintln(out, "No images extracted from this paper")
					return nil
				}
				rows := make([][]string, 0, len(images))
				for i, name := range images {
					rows = append(rows, []string{
						fmt.Sprintf("%d", i+1),
						name,
						app.images.URLFor(paperID, name),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Image", "URL"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newImagesGetCommand(cmdCtx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "get <image>",
		Short: "Download one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				imageName := strings.TrimSpace(args[0])
				data, err := app.images.Fetch(ctx, paperID, imageName)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outPath)
				if target == "" {
					target = imageName
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
	return cmd
}
