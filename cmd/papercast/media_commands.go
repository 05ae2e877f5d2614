package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"papercast/internal/api"
	"papercast/internal/workflow"
)

func newMediaCommand(cmdCtx *commandContext) *cobra.Command {
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Generate and inspect narration audio and the final video",
	}
	mediaCmd.AddCommand(newMediaAudioCommand(cmdCtx))
	mediaCmd.AddCommand(newMediaVideoCommand(cmdCtx))
	mediaCmd.AddCommand(newMediaStatusCommand(cmdCtx))
	return mediaCmd
}

func newMediaAudioCommand(cmdCtx *commandContext) *cobra.Command {
	var voice string
	var speed float64

	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Generate narration audio for all sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				cfg := api.VoiceConfig{Voice: voice, Speed: speed}
				if err := app.media.GenerateAudio(ctx, paperID, cfg); err != nil {
					return err
				}
				state := app.machine.Snapshot()
				if err := app.notifier.NotifyMediaReady(ctx, state.Metadata.Title); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Audio generation started; check 'papercast media status'")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "", "Narration voice")
	cmd.Flags().Float64Var(&speed, "speed", 0, "Narration speed multiplier")
	return cmd
}

func newMediaVideoCommand(cmdCtx *commandContext) *cobra.Command {
	var resolution string
	var noAudio bool

	cmd := &cobra.Command{
		Use:   "video",
		Short: "Assemble the final video from slides and narration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				cfg := api.VideoConfig{Resolution: resolution, IncludeAudio: !noAudio}
				if err := app.media.GenerateVideo(ctx, paperID, cfg); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Video assembly started; check 'papercast media status'")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", "", "Output resolution, e.g. 1920x1080")
	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "Assemble the video without narration audio")
	return cmd
}

func newMediaStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show media generation progress and stream URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				paperID, err := app.requirePaper(ctx)
				if err != nil {
					return err
				}
				status, err := app.media.Status(ctx, paperID)
				if err != nil {
					return err
				}

				app.machine.SetAudioFiles(status.AudioFiles)
				app.machine.SetVideoPath(status.VideoPath)
				if status.VideoPath != "" {
					app.machine.MarkStepCompleted(workflow.StepMediaGeneration)
					state := app.machine.Snapshot()
					if err := app.notifier.NotifyVideoCompleted(ctx, state.Metadata.Title); err != nil {
						return err
					}
				}

				out := cmd.OutOrStdout()
				rows := [][]string{
					{"Audio", orPending(status.AudioStatus), fmt.Sprintf("%d files", len(status.AudioFiles))},
					{"Video", orPending(status.VideoStatus), status.VideoPath},
				}
				fmt.Fprintln(out, renderTable([]string{"Artifact", "Status", "Detail"}, rows, nil))

				for _, file := range status.AudioFiles {
					fmt.Fprintln(out, app.media.AudioStreamURL(paperID, file))
				}
				if status.VideoPath != "" {
					fmt.Fprintln(out, app.media.VideoStreamURL(paperID))
				}
				return nil
			})
		},
	}
}

func orPending(status string) string {
	if status == "" {
		return "pending"
	}
	return status
}
