package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/enki-verse/enkiverse-website/content"
	"github.com/enki-verse/enkiverse-website/imaging"
)

var errUsage = errors.New("bad usage")

// admin runs siteadmin commands against one repository.
type admin struct {
	client    *content.Client
	prefix    string
	dataDir   string
	imagesDir string
	limits    imaging.Limits
	opts      imaging.Options
	out       io.Writer
	now       func() time.Time
}

func (a *admin) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "whoami":
		return a.whoami(ctx)
	case "check":
		return a.check(ctx)
	case "list":
		return a.list(ctx, rest)
	case "add-artist":
		return a.addArtist(ctx, rest)
	case "add-project":
		return a.addProject(ctx, rest)
	case "add-event":
		return a.addEvent(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "upload-image":
		return a.uploadImages(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *admin) message(action, details string) string {
	return content.CommitMessage(a.prefix, action, details, a.now())
}

func (a *admin) docPath(key string) string {
	if a.dataDir == "" {
		return "assets/data/" + key + ".json"
	}
	return path.Join(a.dataDir, key+".json")
}

func (a *admin) whoami(ctx context.Context) error {
	u, err := a.client.Authenticate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", u.Login, u.Name)
	return nil
}

func (a *admin) check(ctx context.Context) error {
	ok, err := a.client.CheckPermissions(ctx)
	if err != nil {
		return err
	}
	answer := "no"
	if ok {
		answer = "yes"
	}
	fmt.Fprintf(a.out, "push access to %s: %s\n", a.client.RepoPath(), answer)
	return nil
}

func (a *admin) list(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: list takes one kind", errUsage)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	var err error
	switch args[0] {
	case content.ArtistsKey:
		err = listItems(ctx, a, content.ArtistsKey, tw, func(v content.Artist) string {
			if v.Featured {
				return v.Name + " *"
			}
			return v.Name
		})
	case content.ProjectsKey:
		err = listItems(ctx, a, content.ProjectsKey, tw, func(v content.Project) string { return v.Title })
	case content.EventsKey:
		err = listItems(ctx, a, content.EventsKey, tw, func(v content.Event) string {
			return v.Title + "\t" + v.Date + "\t" + v.Location
		})
	default:
		return fmt.Errorf("%w: unknown kind %q", errUsage, args[0])
	}
	if err != nil {
		return err
	}
	return tw.Flush()
}

func listItems[T content.Item[T]](ctx context.Context, a *admin, key string, w io.Writer, describe func(T) string) error {
	col, err := content.LoadCollection[T](ctx, a.client, a.docPath(key), key)
	if err != nil {
		return err
	}
	for _, item := range col.List() {
		fmt.Fprintf(w, "%s\t%s\n", item.ItemID(), describe(item))
	}
	return nil
}

// addItem loads the collection, inserts item and commits it.
func addItem[T content.Item[T]](ctx context.Context, a *admin, key, action, details string, item T) error {
	col, err := content.LoadCollection[T](ctx, a.client, a.docPath(key), key)
	if err != nil {
		return err
	}
	saved := col.Upsert(item)
	commit, err := col.Save(ctx, a.client, a.message(action, details))
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	fmt.Fprintf(a.out, "added %s (%s)\n", saved.ItemID(), short(commit.SHA))
	return nil
}

func (a *admin) addArtist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-artist", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var v content.Artist
	fs.StringVar(&v.Name, "name", "", "Artist name")
	fs.StringVar(&v.Bio, "bio", "", "Short biography")
	fs.StringVar(&v.Website, "website", "", "Website URL")
	fs.BoolVar(&v.Featured, "featured", false, "Feature on the landing page")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if v.Name == "" {
		return fmt.Errorf("%w: -name is required", errUsage)
	}
	return addItem(ctx, a, content.ArtistsKey, "Add artist", v.Name, v)
}

func (a *admin) addProject(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-project", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var v content.Project
	fs.StringVar(&v.Title, "title", "", "Project title")
	fs.StringVar(&v.Description, "description", "", "Description")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if v.Title == "" {
		return fmt.Errorf("%w: -title is required", errUsage)
	}
	return addItem(ctx, a, content.ProjectsKey, "Add project", v.Title, v)
}

func (a *admin) addEvent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-event", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var v content.Event
	fs.StringVar(&v.Title, "title", "", "Event title")
	fs.StringVar(&v.Date, "date", "", "Event date")
	fs.StringVar(&v.Location, "location", "", "Venue")
	fs.StringVar(&v.Description, "description", "", "Description")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if v.Title == "" {
		return fmt.Errorf("%w: -title is required", errUsage)
	}
	return addItem(ctx, a, content.EventsKey, "Add event", v.Title, v)
}

func (a *admin) delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: delete takes a kind and an id", errUsage)
	}
	kind, id := args[0], args[1]
	switch kind {
	case content.ArtistsKey:
		return deleteItem[content.Artist](ctx, a, kind, id)
	case content.ProjectsKey:
		return deleteItem[content.Project](ctx, a, kind, id)
	case content.EventsKey:
		return deleteItem[content.Event](ctx, a, kind, id)
	default:
		return fmt.Errorf("%w: unknown kind %q", errUsage, kind)
	}
}

func deleteItem[T content.Item[T]](ctx context.Context, a *admin, key, id string) error {
	col, err := content.LoadCollection[T](ctx, a.client, a.docPath(key), key)
	if err != nil {
		return err
	}
	if !col.Delete(id) {
		return fmt.Errorf("%s %s: %w", key, id, content.ErrNotFound)
	}
	commit, err := col.Save(ctx, a.client, a.message("Delete "+key, id))
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	fmt.Fprintf(a.out, "deleted %s (%s)\n", id, short(commit.SHA))
	return nil
}

func (a *admin) uploadImages(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload-image", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	base := fs.String("base", a.imagesDir, "Repository image directory")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: upload-image needs at least one file", errUsage)
	}

	files := make([]imaging.File, 0, fs.NArg())
	for _, name := range fs.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		files = append(files, imaging.File{Name: filepath.Base(name), Data: data})
	}

	prepared := imaging.Batch(ctx, files, a.limits, a.opts, *base, func(pct float64) {
		fmt.Fprintf(a.out, "processed %3.0f%%\n", pct)
	})

	var changes []content.Change
	rejected := 0
	for _, res := range prepared {
		if res.Err != nil {
			rejected++
			fmt.Fprintf(a.out, "rejected: %v\n", res.Err)
			continue
		}
		up := res.Upload
		for _, f := range []struct {
			path string
			data []byte
		}{{up.LargePath, up.Large.Data}, {up.ThumbPath, up.Thumb.Data}} {
			ch, err := a.changeFor(ctx, f.path, f.data)
			if err != nil {
				return err
			}
			changes = append(changes, ch)
		}
		fmt.Fprintf(a.out, "%s: %dx%d %s, thumbnail %dx%d %s\n", up.Name,
			up.Large.Width, up.Large.Height, humanize.IBytes(uint64(len(up.Large.Data))),
			up.Thumb.Width, up.Thumb.Height, humanize.IBytes(uint64(len(up.Thumb.Data))))
	}
	if len(changes) == 0 {
		return fmt.Errorf("no images to upload (%d rejected)", rejected)
	}

	results := content.Batch(ctx, a.client, changes, a.message("Upload images", fmt.Sprintf("%d files", len(changes)/2)))
	for _, r := range results {
		if r.OK {
			fmt.Fprintf(a.out, "uploaded %s (%s)\n", r.Path, short(r.Commit.SHA))
		}
	}
	if failed := content.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d uploads failed: %w", len(failed), len(results), failed[0].Err)
	}
	return nil
}

// changeFor creates path, or updates it at its current revision.
func (a *admin) changeFor(ctx context.Context, p string, data []byte) (content.Change, error) {
	existing, err := a.client.GetFile(ctx, p)
	switch {
	case errors.Is(err, content.ErrNotFound):
		return content.Change{Path: p, Content: data, Action: content.ActionUpload}, nil
	case err != nil:
		return content.Change{}, fmt.Errorf("checking %s: %w", p, err)
	}
	return content.Change{Path: p, Content: data, SHA: existing.SHA, Action: content.ActionUpdate}, nil
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
