package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"papercast/internal/workflow"
)

func newLoginCommand(cmdCtx *commandContext) *cobra.Command {
	var idToken string
	var tokenFile string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange a Google identity token for a backend session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				token := strings.TrimSpace(idToken)
				if token == "" && tokenFile != "" {
					data, err := os.ReadFile(tokenFile)
					if err != nil {
						return fmt.Errorf("read token file: %w", err)
					}
					token = strings.TrimSpace(string(data))
				}
				if token == "" {
					return errors.New("provide the identity token with --id-token or --token-file")
				}

				result, err := app.auth.Login(ctx, token)
				if err != nil {
					return err
				}

				app.machine.MarkStepCompleted(workflow.StepAPISetup)
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", result.User.Name, result.User.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&idToken, "id-token", "", "Google identity token")
	cmd.Flags().StringVar(&tokenFile, "token-file", "", "File containing the identity token")
	return cmd
}

func newLogoutCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				app.auth.Logout()
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withApp(cmd, func(ctx context.Context, app *appContext) error {
				user := app.creds.User()
				if user == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				rows := [][]string{
					{"Name", user.Name},
					{"Email", user.Email},
					{"ID", user.ID},
					{"Token stored", yesNo(app.creds.Token() != "")},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}
