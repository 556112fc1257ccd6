package console

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calassist/internal/backend"
	"github.com/teemow/calassist/internal/chat"
	"github.com/teemow/calassist/internal/credentials"
	"github.com/teemow/calassist/internal/session"
)

func fakeBackend(t *testing.T) *backend.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(backend.PathChat, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reply": "You have no meetings tomorrow."}`))
	})
	mux.HandleFunc(backend.PathConfigureCalendar, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(backend.SessionHeader) == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail": "missing session"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message": "Google Calendar configured."}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := backend.NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func runConsole(t *testing.T, input string) (string, *session.Session) {
	t.Helper()

	client := fakeBackend(t)
	var out bytes.Buffer
	c := New(Config{
		In:          strings.NewReader(input),
		Out:         &out,
		Relay:       chat.NewRelay(client, nil, nil),
		Credentials: credentials.NewHandler(client, nil, nil),
	})

	require.NoError(t, c.Run(context.Background()))
	return out.String(), c.Session()
}

func TestConsole_Chat(t *testing.T) {
	out, sess := runConsole(t, "what's tomorrow?\n/quit\n")

	assert.Contains(t, out, "AI Calendar Assistant")
	assert.Contains(t, out, "Session ID: "+sess.ID())
	assert.Contains(t, out, "Thinking...")
	assert.Contains(t, out, "assistant> You have no meetings tomorrow.")
	assert.Contains(t, out, "Bye.")
	assert.Equal(t, []session.Message{
		{Role: session.RoleUser, Content: "what's tomorrow?"},
		{Role: session.RoleAssistant, Content: "You have no meetings tomorrow."},
	}, sess.Messages())
}

func TestConsole_EOFEndsLoop(t *testing.T) {
	out, sess := runConsole(t, "hello")

	assert.Contains(t, out, "assistant> ")
	assert.Equal(t, 2, sess.Len())
	assert.NotContains(t, out, "Bye.")
}

func TestConsole_BlankLinesAreSkipped(t *testing.T) {
	out, sess := runConsole(t, "\n   \n/quit\n")

	assert.NotContains(t, out, "Thinking...")
	assert.Equal(t, 0, sess.Len())
}

func TestConsole_Configure(t *testing.T) {
	out, sess := runConsole(t, "/configure\nrt\nid.apps.googleusercontent.com\nsecret\n/session\n/quit\n")

	assert.Contains(t, out, "Refresh Token: ")
	assert.Contains(t, out, "Client ID: ")
	assert.Contains(t, out, "Client Secret: ")
	assert.Contains(t, out, "Google Calendar configured.")
	assert.Contains(t, out, "Google Calendar: configured")
	assert.True(t, sess.Configured())
	assert.Equal(t, 0, sess.Len(), "configuring does not touch the transcript")
}

func TestConsole_ConfigureMissingField(t *testing.T) {
	out, sess := runConsole(t, "/configure\nrt\n\nsecret\n/quit\n")

	assert.Contains(t, out, "Error: All fields are required for Google Calendar configuration.")
	assert.Equal(t, session.StatusUnset, sess.ConfigurationStatus())
}

func TestConsole_ConfigureInputClosed(t *testing.T) {
	out, sess := runConsole(t, "/configure\nrt\n")

	assert.NotContains(t, out, "Error:")
	assert.Equal(t, session.StatusUnset, sess.ConfigurationStatus())
}

func TestConsole_History(t *testing.T) {
	out, _ := runConsole(t, "/history\nhi\n/history\n/quit\n")

	assert.Contains(t, out, "No messages yet.")
	assert.Contains(t, out, "you> hi\nassistant> You have no meetings tomorrow.\n")
}

func TestConsole_Commands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"help", "/help\n", "/configure"},
		{"setup", "/setup\n", "Google OAuth 2.0 Playground"},
		{"session", "/session\n", "This ID ensures your conversation context is maintained."},
		{"unknown", "/frobnicate\n", "Unknown command /frobnicate"},
		{"exit alias", "/exit\n", "Bye."},
		{"q alias", ":q\n", "Bye."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, sess := runConsole(t, tt.input)
			assert.Contains(t, out, tt.want)
			assert.Equal(t, 0, sess.Len())
		})
	}
}

func TestConsole_CanceledContext(t *testing.T) {
	client := fakeBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Config{
		In:          strings.NewReader("hi\n"),
		Out:         &bytes.Buffer{},
		Relay:       chat.NewRelay(client, nil, nil),
		Credentials: credentials.NewHandler(client, nil, nil),
	})

	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
	assert.Equal(t, 0, c.Session().Len())
}

func TestPromptCredentials_KeepsGivenValues(t *testing.T) {
	var out bytes.Buffer
	pr := NewPrompter(strings.NewReader("typed-secret\n"), &out)

	p, err := PromptCredentials(pr, credentials.Payload{RefreshToken: "rt", ClientID: "id"})
	require.NoError(t, err)

	assert.Equal(t, credentials.Payload{RefreshToken: "rt", ClientID: "id", ClientSecret: "typed-secret"}, p)
	assert.Equal(t, "Client Secret: ", out.String())
	assert.False(t, pr.Interactive())
}
