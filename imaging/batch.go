package imaging

import (
	"context"
	"log/slog"
)

// File is a named upload.
type File struct {
	Name string
	Data []byte
}

// BatchResult is the outcome of one file in a batch.
type BatchResult struct {
	Upload Upload
	Err    error
}

// Batch prepares files one at a time. onProgress, if set, receives the
// completed percentage after each file. A failing file is recorded and the
// rest still run; a cancelled ctx marks the remaining files failed.
func Batch(ctx context.Context, files []File, limits Limits, opts Options, base string, onProgress func(pct float64)) []BatchResult {
	results := make([]BatchResult, 0, len(files))
	for i, f := range files {
		var res BatchResult
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			res.Upload, res.Err = Prepare(f.Name, f.Data, limits, opts, base)
		}
		if res.Err != nil {
			slog.Warn("image rejected", "name", f.Name, "error", res.Err)
		}
		results = append(results, res)

		if onProgress != nil {
			onProgress(float64(i+1) / float64(len(files)) * 100)
		}
	}
	return results
}
