// Package googletasks reads tasks from a Google Tasks account for import.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskboard/internal/config"
	"taskboard/internal/session"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout bounds the walk of a single list.
	APITimeout = 30 * time.Second

	// Scope is the OAuth scope requested by google-login. Import only reads.
	Scope = tasks.TasksReadonlyScope

	statusCompleted = "completed"
)

// ErrNotLinked means google-login has not been run.
var ErrNotLinked = errors.New("google account not linked (run: taskboard google-login)")

// Item is one Google task, flattened with the title of its list.
type Item struct {
	ListTitle string
	Title     string
	Notes     string
	Completed bool
}

// Client reads task lists from Google Tasks.
type Client struct {
	svc *tasks.Service
}

// OAuthConfig loads oauth_client.json from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
	}
	return oauthConfig, nil
}

// New creates a client from oauth_client.json and google_token.json.
// The token is refreshed as needed.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := session.NewFileStore(cfg.GoogleTokenPath()).Load()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.GoogleTokenFile, err)
	}
	if token == nil {
		return nil, ErrNotLinked
	}

	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Point it at a fake server with option.WithEndpoint via opts.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListAll returns every task of every list, completed and hidden ones included,
// in API order.
func (c *Client) ListAll(ctx context.Context) ([]Item, error) {
	var lists []*tasks.TaskList
	listCtx, cancel := context.WithTimeout(ctx, APITimeout)
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(listCtx, func(resp *tasks.TaskLists) error {
		lists = append(lists, resp.Items...)
		return nil
	})
	cancel()
	if err != nil {
		return nil, wrapError(err)
	}

	items := []Item{}
	for _, list := range lists {
		found, err := c.listItems(ctx, list)
		if err != nil {
			return nil, err
		}
		items = append(items, found...)
	}
	return items, nil
}

func (c *Client) listItems(ctx context.Context, list *tasks.TaskList) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []Item
	err := c.svc.Tasks.List(list.Id).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if t.Deleted {
					continue
				}
				items = append(items, Item{
					ListTitle: list.Title,
					Title:     t.Title,
					Notes:     t.Notes,
					Completed: t.Status == statusCompleted,
				})
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return items, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: taskboard google-login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	return err
}
