package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"linearcal/internal/models"
)

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service    *calendar.Service
	logger     *slog.Logger
	calendarID string
	timezone   string
}

// ClientOptions configures a CalendarClient.
type ClientOptions struct {
	ClientID        string
	ClientSecret    string
	CredentialsPath string // used when ClientID/ClientSecret are empty
	TokenPath       string
	CalendarID      string // e.g. "primary"
	Timezone        string // IANA name attached to created events
}

// NewClient creates an authorized Google Calendar client from a
// previously saved token (see the auth command). Refreshed tokens are
// written back to the token file so re-authorization is not needed when
// the access token expires.
func NewClient(ctx context.Context, logger *slog.Logger, opts ClientOptions) (*CalendarClient, error) {
	config, err := getOAuthConfig(opts.ClientID, opts.ClientSecret, opts.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	token, err := tokenFromFile(opts.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("could not load token from %s: %w. Please run the 'auth' command first", opts.TokenPath, err)
	}

	source := &savingTokenSource{
		path:   opts.TokenPath,
		source: config.TokenSource(ctx, token),
		logger: logger,
		last:   token,
	}
	httpClient := oauth2.NewClient(ctx, source)

	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarClient{
		service:    service,
		logger:     logger,
		calendarID: opts.CalendarID,
		timezone:   opts.Timezone,
	}, nil
}

// CreateEvent inserts an event into the configured calendar and sends
// invite emails to all attendees. It returns the created event's ID.
func (c *CalendarClient) CreateEvent(ctx context.Context, event *models.Event) (string, error) {
	c.logger.Debug("Creating calendar event", "title", event.Title, "start", event.StartTime)

	attendees := make([]*calendar.EventAttendee, 0, len(event.Attendees))
	for _, email := range event.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	gEvent := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start: &calendar.EventDateTime{
			DateTime: event.StartTime.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.EndTime.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		Attendees: attendees,
		Reminders: &calendar.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, gEvent).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}

	c.logger.Info("Created calendar event", "title", event.Title, "link", created.HtmlLink)
	return created.Id, nil
}

// savingTokenSource wraps an oauth2.TokenSource and persists refreshed
// tokens back to disk, mirroring the refresh handling of the auth flow.
type savingTokenSource struct {
	path   string
	source oauth2.TokenSource
	logger *slog.Logger

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		s.last = token
		if err := SaveToken(s.path, token); err != nil {
			s.logger.Warn("Failed to persist refreshed OAuth token", "error", err)
		} else {
			s.logger.Info("Refreshed Google OAuth token saved.", "file", s.path)
		}
	}
	return token, nil
}

// GetOAuthConfigForAuthFlow is used by the auth command to get the config for the web flow.
func GetOAuthConfigForAuthFlow(clientID, clientSecret, credentialsPath string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret, credentialsPath)
}

// getOAuthConfig reads credentials and returns an OAuth2 config.
// It prioritizes environment-provided client id/secret over a local
// credentials.json file.
func getOAuthConfig(clientID, clientSecret, credentialsPath string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{calendar.CalendarScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("%s not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the root directory", credentialsPath)
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // For desktop app flow
	return config, nil
}

// TokenFromWeb is called by the auth flow to retrieve a token.
func TokenFromWeb(config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(context.Background(), authCode)
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
