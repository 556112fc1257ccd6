package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teemow/calassist/internal/chat"
	"github.com/teemow/calassist/internal/console"
	"github.com/teemow/calassist/internal/credentials"
	"github.com/teemow/calassist/internal/session"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat with the calendar assistant",
		Long: `Start an interactive chat session in the terminal.

Every message is relayed to the assistant backend together with the session
ID, so the backend keeps the conversation context. Use /configure to give the
backend access to your Google Calendar and /help for all commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, session.New())
		},
	}
}

func runChat(cmd *cobra.Command, sess *session.Session) error {
	client, err := newBackendClient(nil)
	if err != nil {
		return err
	}

	c := console.New(console.Config{
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
		Relay:       chat.NewRelay(client, logger, nil),
		Credentials: credentials.NewHandler(client, logger, nil),
		Session:     sess,
		Logger:      logger,
	})
	return c.Run(cmd.Context())
}
