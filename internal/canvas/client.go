// Package canvas talks to the Canvas LMS REST API. It is the content
// service used by the exporter: course, modules, module items, page and
// assignment bodies, and file attachments.
package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geocine/canvasdocs/internal/models"
)

// Client is a minimal Canvas API client scoped to one course
type Client struct {
	baseURL  *url.URL
	token    string
	courseID string
	perPage  int
	http     *http.Client
	log      *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithPerPage sets the page size used for list endpoints
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the course at endpoint
func NewClient(endpoint, token, courseID string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid canvas endpoint '%s': %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid canvas endpoint '%s': scheme and host required", endpoint)
	}

	c := &Client{
		baseURL:  u,
		token:    token,
		courseID: courseID,
		perPage:  100,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Course fetches the course this client is scoped to
func (c *Client) Course(ctx context.Context) (models.Course, error) {
	var raw apiCourse
	if err := c.getJSON(ctx, c.apiURL(nil, "courses", c.courseID), &raw); err != nil {
		return models.Course{}, fmt.Errorf("failed to get course %s: %w", c.courseID, err)
	}
	return models.Course{ID: strconv.FormatInt(raw.ID, 10), Name: raw.Name}, nil
}

// Modules lists the course modules in course order
func (c *Client) Modules(ctx context.Context) ([]models.Module, error) {
	raws, err := getAll[apiModule](ctx, c, c.apiURL(c.pageQuery(), "courses", c.courseID, "modules"))
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}

	modules := make([]models.Module, 0, len(raws))
	for i, raw := range raws {
		modules = append(modules, models.Module{
			ID:       strconv.FormatInt(raw.ID, 10),
			Name:     raw.Name,
			Position: i,
		})
	}
	return modules, nil
}

// ModuleItems lists the items of a module in module order
func (c *Client) ModuleItems(ctx context.Context, module models.Module) ([]models.ModuleItem, error) {
	u := c.apiURL(c.pageQuery(), "courses", c.courseID, "modules", module.ID, "items")
	raws, err := getAll[apiModuleItem](ctx, c, u)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of module '%s': %w", module.Name, err)
	}

	items := make([]models.ModuleItem, 0, len(raws))
	for _, raw := range raws {
		items = append(items, toModuleItem(raw))
	}
	return items, nil
}

// PageBody returns the HTML body of a wiki page
func (c *Client) PageBody(ctx context.Context, ref string) (string, error) {
	var raw apiPage
	if err := c.getJSON(ctx, c.apiURL(nil, "courses", c.courseID, "pages", ref), &raw); err != nil {
		return "", fmt.Errorf("failed to get page '%s': %w", ref, err)
	}
	return raw.Body, nil
}

// AssignmentDescription returns the HTML description of an assignment
func (c *Client) AssignmentDescription(ctx context.Context, ref string) (string, error) {
	var raw apiAssignment
	if err := c.getJSON(ctx, c.apiURL(nil, "courses", c.courseID, "assignments", ref), &raw); err != nil {
		return "", fmt.Errorf("failed to get assignment %s: %w", ref, err)
	}
	return raw.Description, nil
}

// File looks up an attachment by its numeric id
func (c *Client) File(ctx context.Context, id string) (models.Attachment, error) {
	var raw apiFile
	if err := c.getJSON(ctx, c.apiURL(nil, "files", id), &raw); err != nil {
		return models.Attachment{}, fmt.Errorf("failed to get file %s: %w", id, err)
	}
	return raw.attachment(), nil
}

// Download streams the attachment payload into w
func (c *Client) Download(ctx context.Context, att models.Attachment, w io.Writer) error {
	if att.URL == "" {
		return fmt.Errorf("file %s has no download url: %w", att.ID, models.ErrNotFound)
	}

	resp, err := c.do(ctx, att.URL)
	if err != nil {
		return fmt.Errorf("failed to download file %s: %w", att.ID, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to download file %s: %w", att.ID, err)
	}
	return nil
}

func (c *Client) pageQuery() url.Values {
	return url.Values{"per_page": {strconv.Itoa(c.perPage)}}
}

// apiURL builds {endpoint}/api/v1/{parts...}?{query}
func (c *Client) apiURL(query url.Values, parts ...string) string {
	u := c.baseURL.JoinPath(append([]string{"api", "v1"}, parts...)...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs an authenticated GET and maps error statuses onto the
// models error taxonomy. The caller closes the body on success.
func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	// Presigned download urls on other hosts must not receive the token
	if req.URL.Host == c.baseURL.Host {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("canvas request", "url", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, req.URL.Path)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d for %s", models.ErrUnauthorized, resp.StatusCode, req.URL.Path)
	default:
		return nil, fmt.Errorf("canvas returned status %d for %s: %s", resp.StatusCode, req.URL.Path, strings.TrimSpace(string(body)))
	}
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	_, err := c.getJSONPage(ctx, rawURL, out)
	return err
}

// getJSONPage decodes one response and returns the url of the next page, if any
func (c *Client) getJSONPage(ctx context.Context, rawURL string, out interface{}) (string, error) {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return "", fmt.Errorf("failed to decode response from %s: %w", resp.Request.URL.Path, err)
	}
	return nextLink(resp.Header.Get("Link")), nil
}

// getAll follows rel="next" pagination and concatenates every page
func getAll[T any](ctx context.Context, c *Client, rawURL string) ([]T, error) {
	var all []T
	for next := rawURL; next != ""; {
		var page []T
		n, err := c.getJSONPage(ctx, next, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		next = n
	}
	return all, nil
}

// nextLink extracts the rel="next" target from an RFC 8288 Link header
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		target := strings.TrimSpace(segs[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segs[1:] {
			param = strings.ReplaceAll(strings.TrimSpace(param), " ", "")
			if param == `rel="next"` || param == "rel=next" {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}
