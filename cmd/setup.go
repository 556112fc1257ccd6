package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/calassist/internal/google"
)

func newSetupCmd() *cobra.Command {
	var (
		clientID    string
		redirectURL string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Show how to obtain Google Calendar credentials",
		Long: `Print the steps for creating a Google OAuth client and obtaining a refresh
token with the calendar scope, followed by instructions for running the
backend and this front-end.

With --client-id the consent URL for your own OAuth client is printed as
well. It requests offline access so that the authorization code can be
exchanged for a refresh token, for example in the OAuth 2.0 Playground.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if err := google.WriteInstructions(out); err != nil {
				return err
			}
			if clientID == "" {
				return nil
			}

			url, err := google.AuthURL(clientID, redirectURL, "")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\nConsent URL for client %s:\n%s\n", clientID, url)
			return err
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Google OAuth client ID to build a consent URL for")
	cmd.Flags().StringVar(&redirectURL, "redirect-url", google.DefaultRedirectURL, "Redirect URL registered for the client")

	return cmd
}
