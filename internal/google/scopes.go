package google

import (
	calendar "google.golang.org/api/calendar/v3"
)

// CalendarScope grants read and write access to the user's calendars.
const CalendarScope = calendar.CalendarScope

// DefaultOAuthScopes are the scopes the backend needs the refresh token to carry.
var DefaultOAuthScopes = []string{
	CalendarScope,
}
