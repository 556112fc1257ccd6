package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/calassist/internal/chat"
	"github.com/teemow/calassist/internal/console"
	"github.com/teemow/calassist/internal/credentials"
	"github.com/teemow/calassist/internal/google"
	"github.com/teemow/calassist/internal/session"
)

type configureOptions struct {
	refreshToken string
	clientID     string
	clientSecret string
	chat         bool
}

func newConfigureCmd() *cobra.Command {
	var opts configureOptions

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Submit Google Calendar credentials for a new session",
		Long: `Start a new session and submit Google Calendar credentials to the backend.

Values can be passed as flags or through the GOOGLE_REFRESH_TOKEN,
GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars. Missing values are asked
for interactively; the refresh token and client secret are read without echo.

The backend binds the credentials to the session ID, so use --chat to keep
talking to the assistant in the same session. Run "calassist setup" to learn
how to obtain the credentials.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigure(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.refreshToken, "refresh-token", "", "Google OAuth refresh token. Can also use GOOGLE_REFRESH_TOKEN env var.")
	cmd.Flags().StringVar(&opts.clientID, "client-id", "", "Google OAuth client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&opts.clientSecret, "client-secret", "", "Google OAuth client secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().BoolVar(&opts.chat, "chat", false, "Continue with an interactive chat in the configured session")

	return cmd
}

func runConfigure(cmd *cobra.Command, opts configureOptions) error {
	payload := credentials.Payload{
		RefreshToken: firstNonEmpty(opts.refreshToken, os.Getenv("GOOGLE_REFRESH_TOKEN")),
		ClientID:     firstNonEmpty(opts.clientID, os.Getenv("GOOGLE_CLIENT_ID")),
		ClientSecret: firstNonEmpty(opts.clientSecret, os.Getenv("GOOGLE_CLIENT_SECRET")),
	}

	out := cmd.OutOrStdout()
	prompter := console.NewPrompter(cmd.InOrStdin(), out)
	if !payload.Complete() && prompter.Interactive() {
		filled, err := console.PromptCredentials(prompter, payload)
		if err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
		payload = filled
	}
	if payload.ClientID != "" && !google.LooksLikeClientID(payload.ClientID) {
		logger.Warn("client ID does not end in .apps.googleusercontent.com")
	}

	client, err := newBackendClient(nil)
	if err != nil {
		return err
	}

	sess := session.New()
	res := credentials.NewHandler(client, logger, nil).Submit(cmd.Context(), sess, payload)
	console.PrintConfigureResult(out, res)
	fmt.Fprintf(out, "Session ID: %s\n", sess.ID())

	if !res.OK() {
		return fmt.Errorf("configuration failed: %s", res.Kind)
	}
	if !opts.chat {
		return nil
	}

	fmt.Fprintln(out)
	c := console.New(console.Config{
		In:          cmd.InOrStdin(),
		Out:         out,
		Relay:       chat.NewRelay(client, logger, nil),
		Credentials: credentials.NewHandler(client, logger, nil),
		Session:     sess,
		Logger:      logger,
		Prompter:    prompter,
	})
	return c.Run(cmd.Context())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
