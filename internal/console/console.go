// Package console implements the interactive terminal front-end: a line
// based chat loop with slash commands for configuring calendar access and
// inspecting the session.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/teemow/calassist/internal/chat"
	"github.com/teemow/calassist/internal/credentials"
	"github.com/teemow/calassist/internal/google"
	"github.com/teemow/calassist/internal/logging"
	"github.com/teemow/calassist/internal/outcome"
	"github.com/teemow/calassist/internal/session"
)

const (
	banner      = "AI Calendar Assistant"
	tagline     = "I can help you check availability and book appointments on Google Calendar!"
	inputPrompt = "you> "
	thinking    = "Thinking..."
)

const helpText = `Commands:
  /configure   enter Google Calendar credentials for this session
  /setup       show how to obtain the credentials
  /history     print the conversation so far
  /session     show the current session ID
  /help        show this help
  /quit        leave (also /exit, :q, Ctrl-D)

Anything else is sent to the assistant.`

// Console runs the terminal chat loop for one session.
type Console struct {
	prompt  *Prompter
	out     io.Writer
	relay   *chat.Relay
	creds   *credentials.Handler
	session *session.Session
	logger  *slog.Logger
}

// Config holds the dependencies of a Console.
type Config struct {
	In          io.Reader
	Out         io.Writer
	Relay       *chat.Relay
	Credentials *credentials.Handler
	Session     *session.Session
	Logger      *slog.Logger
	// Prompter reads from In when nil. Pass one to keep reading from a
	// stream that was already partly consumed.
	Prompter *Prompter
}

// New creates a console. A new session is started if cfg.Session is nil.
func New(cfg Config) *Console {
	sess := cfg.Session
	if sess == nil {
		sess = session.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prompt := cfg.Prompter
	if prompt == nil {
		prompt = NewPrompter(cfg.In, cfg.Out)
	}
	return &Console{
		prompt:  prompt,
		out:     cfg.Out,
		relay:   cfg.Relay,
		creds:   cfg.Credentials,
		session: sess,
		logger:  logging.WithComponent(logger, "console"),
	}
}

// Session returns the session the console is bound to.
func (c *Console) Session() *session.Session {
	return c.session
}

// Run reads input until the user quits, the input ends, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.logger.Debug("console started", logging.SessionHash(c.session.ID()))

	fmt.Fprintln(c.out, banner)
	fmt.Fprintln(c.out, tagline)
	fmt.Fprintf(c.out, "Session ID: %s\n", c.session.ID())
	fmt.Fprintln(c.out, "Type /help for commands, /configure to connect your calendar.")
	fmt.Fprintln(c.out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := c.prompt.Line(inputPrompt)
		if errors.Is(err, ErrClosed) {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			continue
		}

		quit, err := c.handle(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			fmt.Fprintln(c.out, "Bye.")
			return nil
		}
	}
}

func (c *Console) handle(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(line) {
	case "/quit", "/exit", ":q":
		return true, nil
	case "/help":
		fmt.Fprintln(c.out, helpText)
	case "/session":
		c.printSession()
	case "/history":
		c.printHistory()
	case "/setup":
		if err := google.WriteInstructions(c.out); err != nil {
			return false, err
		}
	case "/configure":
		return false, c.configure(ctx)
	default:
		if strings.HasPrefix(line, "/") {
			fmt.Fprintf(c.out, "Unknown command %s. Type /help for the list of commands.\n", line)
			return false, nil
		}
		c.send(ctx, line)
	}
	return false, nil
}

func (c *Console) send(ctx context.Context, text string) {
	fmt.Fprintln(c.out, thinking)
	res := c.relay.Send(ctx, c.session, text)
	if res.Kind == outcome.KindValidation {
		return
	}
	fmt.Fprintf(c.out, "assistant> %s\n", res.Display())
}

func (c *Console) configure(ctx context.Context) error {
	p, err := PromptCredentials(c.prompt, credentials.Payload{})
	if errors.Is(err, ErrClosed) {
		return nil
	}
	if err != nil {
		return err
	}

	res := c.creds.Submit(ctx, c.session, p)
	PrintConfigureResult(c.out, res)
	return nil
}

func (c *Console) printSession() {
	fmt.Fprintf(c.out, "Current Session ID: %s\n", c.session.ID())
	fmt.Fprintln(c.out, "This ID ensures your conversation context is maintained.")
	fmt.Fprintf(c.out, "Google Calendar: %s\n", c.session.ConfigurationStatus())
}

func (c *Console) printHistory() {
	msgs := c.session.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(c.out, "No messages yet.")
		return
	}
	for _, m := range msgs {
		fmt.Fprintf(c.out, "%s> %s\n", roleLabel(m.Role), m.Content)
	}
}

func roleLabel(r session.Role) string {
	if r == session.RoleUser {
		return "you"
	}
	return "assistant"
}

// PromptCredentials asks for every field of p that is still empty. The
// refresh token and client secret are read without echo on a terminal.
func PromptCredentials(pr *Prompter, p credentials.Payload) (credentials.Payload, error) {
	var err error
	if strings.TrimSpace(p.RefreshToken) == "" {
		if p.RefreshToken, err = pr.Secret("Refresh Token: "); err != nil {
			return p, err
		}
	}
	if strings.TrimSpace(p.ClientID) == "" {
		if p.ClientID, err = pr.Line("Client ID: "); err != nil {
			return p, err
		}
	}
	if strings.TrimSpace(p.ClientSecret) == "" {
		if p.ClientSecret, err = pr.Secret("Client Secret: "); err != nil {
			return p, err
		}
	}
	return p, nil
}

// PrintConfigureResult writes the outcome of a credential submission.
func PrintConfigureResult(w io.Writer, res outcome.Result) {
	if res.OK() {
		fmt.Fprintln(w, res.Display())
		return
	}
	fmt.Fprintf(w, "Error: %s\n", res.Display())
}
