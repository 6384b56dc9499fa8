package netclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"almostcircle/internal/filestore"
)

// SearchResult is a user returned by the search API
type SearchResult struct {
	ID   string
	Name string
}

func (r SearchResult) String() string {
	return fmt.Sprintf("[%s] %s", r.ID, r.Name)
}

// SearchUser posts q to a search endpoint. An empty JSON object is
// ErrNoResult and a body that is not JSON is ErrInvalidJSON.
func (c *Client) SearchUser(ctx context.Context, rawURL, q string) (*SearchResult, error) {
	resp, err := c.postForm(ctx, rawURL, url.Values{"q": {q}})
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := decodeJSON(resp.Body, &obj); err != nil {
		return nil, err
	}
	if len(obj) == 0 {
		return nil, ErrNoResult
	}

	return &SearchResult{ID: jsonText(obj["id"]), Name: jsonText(obj["name"])}, nil
}

// GitHubUserID authenticates with user and token against the GitHub API
// rooted at apiURL and returns the account id
func (c *Client) GitHubUserID(ctx context.Context, apiURL, user, token string) (int64, error) {
	endpoint, err := url.JoinPath(apiURL, "user")
	if err != nil {
		return 0, fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(user, token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}

	var body struct {
		ID *int64 `json:"id"`
	}
	if err := decodeJSON(resp.Body, &body); err != nil {
		return 0, err
	}
	if body.ID == nil {
		return 0, ErrNoResult
	}
	return *body.ID, nil
}

// FilmTitle returns the title of film id from the films API rooted at baseURL
func (c *Client) FilmTitle(ctx context.Context, baseURL string, id int) (string, error) {
	endpoint, err := url.JoinPath(baseURL, strconv.Itoa(id))
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	resp, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if resp.Status >= http.StatusBadRequest {
		return "", &HTTPError{Code: resp.Status, Body: string(resp.Body)}
	}

	var film struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(resp.Body, &film); err != nil {
		return "", err
	}
	return film.Title, nil
}

// CountCharacterFilms counts the films listed at rawURL whose character list
// includes the character with the given id
func (c *Client) CountCharacterFilms(ctx context.Context, rawURL string, characterID int) (int, error) {
	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return 0, err
	}

	var films struct {
		Results []struct {
			Characters []string `json:"characters"`
		} `json:"results"`
	}
	if err := decodeJSON(resp.Body, &films); err != nil {
		return 0, err
	}

	suffix := "/" + strconv.Itoa(characterID) + "/"
	count := 0
	for _, film := range films.Results {
		for _, ch := range film.Characters {
			if strings.HasSuffix(ch, suffix) {
				count++
				break
			}
		}
	}
	return count, nil
}

// StoreBody writes the body of rawURL to path and returns the number of
// characters written
func (c *Client) StoreBody(ctx context.Context, rawURL, path string) (int, error) {
	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	return filestore.WriteFile(path, string(resp.Body))
}

// CompletedTasks counts completed todos per user id
func (c *Client) CompletedTasks(ctx context.Context, rawURL string) (map[int]int, error) {
	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var tasks []struct {
		UserID    int  `json:"userId"`
		Completed bool `json:"completed"`
	}
	if err := decodeJSON(resp.Body, &tasks); err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for _, t := range tasks {
		if t.Completed {
			counts[t.UserID]++
		}
	}
	return counts, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// jsonText renders a decoded JSON scalar the way it appeared on the wire
func jsonText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	}
	return fmt.Sprint(v)
}
