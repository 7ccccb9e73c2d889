package content

import (
	"strings"
	"time"
)

// DefaultCommitPrefix tags commits made by the site tooling.
const DefaultCommitPrefix = "[ENKIVERSE Admin]"

// CommitMessage formats "<prefix> <action> - <RFC3339 UTC> - <details>".
// The details segment is omitted when empty.
func CommitMessage(prefix, action, details string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultCommitPrefix
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(" ")
	b.WriteString(action)
	b.WriteString(" - ")
	b.WriteString(now.UTC().Format(time.RFC3339))
	if details != "" {
		b.WriteString(" - ")
		b.WriteString(details)
	}
	return b.String()
}
