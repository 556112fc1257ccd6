package google

import (
	"fmt"
	"io"
)

// SetupSteps walks the user through creating an OAuth client and obtaining a
// refresh token with the calendar scope.
var SetupSteps = []string{
	"Go to the Google Cloud Console (https://console.cloud.google.com/).",
	"Create or select a project.",
	`Enable the "Google Calendar API".`,
	`Go to "APIs & Services" > "OAuth consent screen". Configure it (select "External", fill in the details, add the ` +
		CalendarScope + ` scope, add your testing Google account as a "Test user").`,
	`Go to "APIs & Services" > "Credentials". Create an "OAuth client ID" (select "Desktop app").`,
	"Download the JSON file for your credentials. Copy client_id and client_secret from there.",
	"Go to the Google OAuth 2.0 Playground (" + PlaygroundRedirectURL + ").\n" +
		"   - In \"Step 1\", enter " + CalendarScope + " and click \"Authorize APIs\".\n" +
		"   - Grant permissions with your test Google account.\n" +
		"   - In \"Step 2\", click \"Exchange authorization code for tokens\".\n" +
		"   - Copy the \"Refresh token\" displayed.",
}

// RunSteps explains how to start the backend and this front-end.
var RunSteps = []string{
	"Complete the Google Calendar setup above.",
	"Make sure the backend is running: in the directory containing main.py run\n" +
		"   uvicorn main:app --reload\n" +
		"   This starts the FastAPI backend, typically on http://127.0.0.1:8000.",
	"Start this front-end in a new terminal: `calassist chat` for the terminal UI or\n" +
		"   `calassist serve` for the browser UI.",
}

// WriteInstructions prints the setup and run guides to w.
func WriteInstructions(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Google Calendar Setup"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nFollow these steps to get your refresh_token, client_id and client_secret:"); err != nil {
		return err
	}
	if err := writeSteps(w, SetupSteps); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nHow to Run This App"); err != nil {
		return err
	}
	return writeSteps(w, RunSteps)
}

func writeSteps(w io.Writer, steps []string) error {
	for i, step := range steps {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, step); err != nil {
			return err
		}
	}
	return nil
}
