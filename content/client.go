// Package content reads and writes site content through a source-hosting
// provider's repository contents API. JSON documents and images are
// committed directly to the repository; the only concurrency control is the
// revision sha each write must present.
package content

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/enki-verse/enkiverse-website/config"
)

const (
	defaultAPIBase = "https://api.github.com"
	acceptHeader   = "application/vnd.github.v3+json"
)

// Options configures a Client.
type Options struct {
	APIBase string
	Owner   string
	Repo    string
	Branch  string // Empty uses the repository default branch
	Timeout time.Duration
}

// OptionsFromConfig builds Options from the content config section.
func OptionsFromConfig(cfg config.ContentConfig) Options {
	return Options{
		APIBase: cfg.APIBase,
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		Branch:  cfg.Branch,
		Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
	}
}

// Client talks to the contents API with a bearer token.
type Client struct {
	token      string
	base       string
	owner      string
	repo       string
	branch     string
	httpClient *http.Client
}

// NewClient creates a client. Returns nil if token is empty; every method
// on a nil client returns ErrNoToken.
func NewClient(token string, opts Options) *Client {
	if token == "" {
		return nil
	}
	if opts.APIBase == "" {
		opts.APIBase = defaultAPIBase
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		token:  token,
		base:   strings.TrimRight(opts.APIBase, "/"),
		owner:  opts.Owner,
		repo:   opts.Repo,
		branch: opts.Branch,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Enabled returns true if the client has a token.
func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

// RepoPath returns "owner/repo".
func (c *Client) RepoPath() string {
	if c == nil {
		return ""
	}
	return c.owner + "/" + c.repo
}

// User is the authenticated account.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// Repository describes the content repository.
type Repository struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Permissions   struct {
		Admin bool `json:"admin"`
		Push  bool `json:"push"`
		Pull  bool `json:"pull"`
	} `json:"permissions"`
}

// File is a decoded file with the sha required to update or delete it.
type File struct {
	Path    string
	SHA     string
	Content []byte
}

// Commit is the commit created by a write.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	URL     string `json:"html_url"`
}

// WriteResult is the outcome of PutFile.
type WriteResult struct {
	SHA    string // New blob sha of the file
	Commit Commit
}

// Authenticate checks the token and returns the account it belongs to.
func (c *Client) Authenticate(ctx context.Context) (User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &u); err != nil {
		return User{}, fmt.Errorf("authenticating: %w", err)
	}
	return u, nil
}

// Repository fetches the content repository.
func (c *Client) Repository(ctx context.Context) (Repository, error) {
	var r Repository
	if err := c.do(ctx, http.MethodGet, c.repoURL(""), nil, &r); err != nil {
		return Repository{}, fmt.Errorf("getting repository: %w", err)
	}
	return r, nil
}

// CheckPermissions reports whether the token may push to the repository.
func (c *Client) CheckPermissions(ctx context.Context) (bool, error) {
	r, err := c.Repository(ctx)
	if err != nil {
		return false, err
	}
	return r.Permissions.Push, nil
}

type contentsResponse struct {
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFile downloads and decodes a file.
func (c *Client) GetFile(ctx context.Context, path string) (File, error) {
	var resp contentsResponse
	if err := c.do(ctx, http.MethodGet, c.contentsURL(path, true), nil, &resp); err != nil {
		return File{}, fmt.Errorf("getting %s: %w", path, err)
	}
	if resp.Encoding != "" && resp.Encoding != "base64" {
		return File{}, fmt.Errorf("getting %s: unsupported encoding %q", path, resp.Encoding)
	}
	// The API wraps base64 content at 60 columns
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return File{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return File{Path: resp.Path, SHA: resp.SHA, Content: data}, nil
}

// FileExists reports whether path exists.
func (c *Client) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := c.GetFile(ctx, path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
	Commit Commit `json:"commit"`
}

// PutFile creates path (empty sha) or updates it (sha of the current
// revision). A stale sha fails with ErrConflict.
func (c *Client) PutFile(ctx context.Context, path string, content []byte, message, sha string) (WriteResult, error) {
	req := writeRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
		Branch:  c.branchName(),
	}
	var resp writeResponse
	if err := c.do(ctx, http.MethodPut, c.contentsURL(path, false), req, &resp); err != nil {
		return WriteResult{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return WriteResult{SHA: resp.Content.SHA, Commit: resp.Commit}, nil
}

// DeleteFile removes path at revision sha.
func (c *Client) DeleteFile(ctx context.Context, path, message, sha string) (Commit, error) {
	req := writeRequest{Message: message, SHA: sha, Branch: c.branchName()}
	var resp writeResponse
	if err := c.do(ctx, http.MethodDelete, c.contentsURL(path, false), req, &resp); err != nil {
		return Commit{}, fmt.Errorf("deleting %s: %w", path, err)
	}
	return resp.Commit, nil
}

func (c *Client) branchName() string {
	if c == nil {
		return ""
	}
	return c.branch
}

func (c *Client) repoURL(suffix string) string {
	if c == nil {
		return suffix
	}
	return "/repos/" + url.PathEscape(c.owner) + "/" + url.PathEscape(c.repo) + suffix
}

// contentsURL escapes each path segment. withRef pins reads to the branch.
func (c *Client) contentsURL(path string, withRef bool) string {
	if c == nil {
		return ""
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	u := c.repoURL("/contents/" + strings.Join(segs, "/"))
	if withRef && c.branch != "" {
		u += "?ref=" + url.QueryEscape(c.branch)
	}
	return u
}

type errorResponse struct {
	Message string `json:"message"`
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if !c.Enabled() {
		return ErrNoToken
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", acceptHeader)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	slog.Debug("content api call", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(respBody, &er) == nil {
			apiErr.Message = er.Message
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
