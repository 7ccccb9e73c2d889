package content

import (
	"context"
	"fmt"
	"log/slog"
)

// Action is the kind of change in a batch.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionUpload Action = "upload"
	ActionDelete Action = "delete"
)

// Change is a single file change.
type Change struct {
	Path    string
	Content []byte
	SHA     string // Current revision for update and delete
	Action  Action
}

// Result is the outcome of a single change.
type Result struct {
	Path   string
	OK     bool
	Commit Commit
	Err    error
}

// Batch applies changes one at a time, one commit each, all with the same
// message. A failed change is recorded and the rest still run. The contents
// API has no multi-file commit, so a batch is not atomic.
func Batch(ctx context.Context, c *Client, changes []Change, message string) []Result {
	results := make([]Result, 0, len(changes))
	for _, ch := range changes {
		res := Result{Path: ch.Path}
		if err := ctx.Err(); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		switch ch.Action {
		case ActionCreate, ActionUpload:
			w, err := c.PutFile(ctx, ch.Path, ch.Content, message, "")
			res.Commit, res.Err = w.Commit, err
		case ActionUpdate:
			w, err := c.PutFile(ctx, ch.Path, ch.Content, message, ch.SHA)
			res.Commit, res.Err = w.Commit, err
		case ActionDelete:
			res.Commit, res.Err = c.DeleteFile(ctx, ch.Path, message, ch.SHA)
		default:
			res.Err = fmt.Errorf("unknown action %q for %s", ch.Action, ch.Path)
		}

		res.OK = res.Err == nil
		if !res.OK {
			slog.Warn("batch change failed", "path", ch.Path, "action", ch.Action, "error", res.Err)
		}
		results = append(results, res)
	}
	return results
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
