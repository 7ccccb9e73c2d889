package content

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeRepo is an in-memory contents API for a single repository.
type fakeRepo struct {
	mu       sync.Mutex
	files    map[string]fakeFile
	next     int
	commits  []string // Commit messages in order
	push     bool
	lastAuth string
}

type fakeFile struct {
	sha  string
	data []byte
}

func newFakeRepo(t *testing.T) (*fakeRepo, *Client) {
	t.Helper()
	repo := &fakeRepo{files: make(map[string]fakeFile), push: true}
	srv := httptest.NewServer(repo)
	t.Cleanup(srv.Close)
	c := NewClient("secret", Options{APIBase: srv.URL, Owner: "enki-verse", Repo: "site"})
	return repo, c
}

func (r *fakeRepo) seed(path string, data []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	sha := fmt.Sprintf("sha%d", r.next)
	r.files[path] = fakeFile{sha: sha, data: data}
	return sha
}

func (r *fakeRepo) file(path string) (fakeFile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[path]
	return f, ok
}

func (r *fakeRepo) setPush(push bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.push = push
}

func (r *fakeRepo) auth() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastAuth
}

func (r *fakeRepo) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commits...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (r *fakeRepo) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastAuth = req.Header.Get("Authorization")

	if req.Header.Get("Authorization") != "token secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	const prefix = "/repos/enki-verse/site"
	switch {
	case req.URL.Path == "/user":
		writeJSON(w, http.StatusOK, map[string]string{"login": "curator", "name": "Site Curator"})
		return
	case req.URL.Path == prefix:
		writeJSON(w, http.StatusOK, map[string]any{
			"full_name":      "enki-verse/site",
			"default_branch": "main",
			"permissions":    map[string]bool{"push": r.push, "pull": true},
		})
		return
	case strings.HasPrefix(req.URL.Path, prefix+"/contents/"):
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	path := strings.TrimPrefix(req.URL.Path, prefix+"/contents/")
	cur, exists := r.files[path]

	switch req.Method {
	case http.MethodGet:
		if !exists {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		// Wrap like the real API does
		enc := base64.StdEncoding.EncodeToString(cur.data)
		var wrapped strings.Builder
		for len(enc) > 60 {
			wrapped.WriteString(enc[:60] + "\n")
			enc = enc[60:]
		}
		wrapped.WriteString(enc)
		writeJSON(w, http.StatusOK, map[string]string{
			"path": path, "sha": cur.sha, "content": wrapped.String(), "encoding": "base64",
		})

	case http.MethodPut, http.MethodDelete:
		var body writeRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		switch {
		case exists && body.SHA == "":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": `"sha" wasn't supplied.`})
			return
		case exists && body.SHA != cur.sha:
			writeJSON(w, http.StatusConflict, map[string]string{"message": "sha does not match"})
			return
		case !exists && req.Method == http.MethodDelete:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}

		r.next++
		commitSHA := fmt.Sprintf("commit%d", r.next)
		r.commits = append(r.commits, body.Message)
		if req.Method == http.MethodDelete {
			delete(r.files, path)
			writeJSON(w, http.StatusOK, map[string]any{"commit": map[string]string{"sha": commitSHA, "message": body.Message}})
			return
		}

		data, err := base64.StdEncoding.DecodeString(body.Content)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad base64"})
			return
		}
		sha := fmt.Sprintf("sha%d", r.next)
		r.files[path] = fakeFile{sha: sha, data: data}
		status := http.StatusOK
		if !exists {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]any{
			"content": map[string]string{"sha": sha, "path": path},
			"commit":  map[string]string{"sha": commitSHA, "message": body.Message},
		})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method"})
	}
}
