package imaging

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// ValidationError lists every problem found with an upload.
type ValidationError struct {
	Name     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid image %s: %s", e.Name, strings.Join(e.Problems, "; "))
}

// DetectType sniffs the MIME type of data.
func DetectType(data []byte) string {
	t := http.DetectContentType(data)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}

// Validate checks size and sniffed type. It returns a *ValidationError
// holding all problems, or nil.
func Validate(name string, data []byte, limits Limits) error {
	var problems []string
	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		problems = append(problems, fmt.Sprintf("file is %s, limit is %s",
			FormatFileSize(int64(len(data))), FormatFileSize(limits.MaxBytes)))
	}
	if t := DetectType(data); !slices.Contains(limits.AllowedTypes, t) {
		problems = append(problems, fmt.Sprintf("type %s is not one of %s", t, strings.Join(limits.AllowedTypes, ", ")))
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Name: name, Problems: problems}
}
