package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Document paths and keys of the site data files.
const (
	ArtistsPath  = "assets/data/artists.json"
	ProjectsPath = "assets/data/projects.json"
	EventsPath   = "assets/data/events.json"

	ArtistsKey  = "artists"
	ProjectsKey = "projects"
	EventsKey   = "events"
)

// Image is an image reference on an artist or project.
// Older documents store a bare path string instead of an object.
type Image struct {
	Path   string `json:"path"`
	IsHero bool   `json:"isHero,omitempty"`
}

// UnmarshalJSON accepts either a path string or an object.
func (img *Image) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var p string
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*img = Image{Path: p}
		return nil
	}
	type plain Image
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	*img = Image(v)
	return nil
}

// Extra holds item fields this package does not model. They are written
// back unchanged so rewriting a document keeps them.
type Extra map[string]json.RawMessage

// unknownFields returns the members of the JSON object data not named in known.
func unknownFields(data []byte, known ...string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return Extra(all), nil
}

// withExtra adds extra members to the encoded object base. Modelled
// fields win over extras of the same name.
func withExtra(base []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return base, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(base, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

var (
	artistFields  = []string{"id", "name", "bio", "website", "featured", "images"}
	projectFields = []string{"id", "title", "description", "images"}
	eventFields   = []string{"id", "title", "description", "date", "location"}
)

// Artist is an entry of artists.json.
type Artist struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Bio      string  `json:"bio,omitempty"`
	Website  string  `json:"website,omitempty"`
	Featured bool    `json:"featured,omitempty"`
	Images   []Image `json:"images,omitempty"`
	Extra    Extra   `json:"-"`
}

func (a *Artist) UnmarshalJSON(data []byte) error {
	type plain Artist
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding artist: %w", err)
	}
	extra, err := unknownFields(data, artistFields...)
	if err != nil {
		return fmt.Errorf("decoding artist: %w", err)
	}
	v.Extra = extra
	*a = Artist(v)
	return nil
}

func (a Artist) MarshalJSON() ([]byte, error) {
	type plain Artist
	base, err := json.Marshal(plain(a))
	if err != nil {
		return nil, err
	}
	return withExtra(base, a.Extra)
}

func (a Artist) ItemID() string           { return a.ID }
func (a Artist) WithID(id string) Artist { a.ID = id; return a }

// Project is an entry of projects.json.
type Project struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Images      []Image `json:"images,omitempty"`
	Extra       Extra   `json:"-"`
}

func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding project: %w", err)
	}
	extra, err := unknownFields(data, projectFields...)
	if err != nil {
		return fmt.Errorf("decoding project: %w", err)
	}
	v.Extra = extra
	*p = Project(v)
	return nil
}

func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	base, err := json.Marshal(plain(p))
	if err != nil {
		return nil, err
	}
	return withExtra(base, p.Extra)
}

func (p Project) ItemID() string            { return p.ID }
func (p Project) WithID(id string) Project { p.ID = id; return p }

// Event is an entry of events.json.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Location    string `json:"location,omitempty"`
	Extra       Extra  `json:"-"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding event: %w", err)
	}
	extra, err := unknownFields(data, eventFields...)
	if err != nil {
		return fmt.Errorf("decoding event: %w", err)
	}
	v.Extra = extra
	*e = Event(v)
	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	base, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	return withExtra(base, e.Extra)
}

func (e Event) ItemID() string          { return e.ID }
func (e Event) WithID(id string) Event { e.ID = id; return e }

// FeaturedArtist returns the first artist flagged featured, else the first
// artist. ok is false for an empty list.
func FeaturedArtist(artists []Artist) (a Artist, ok bool) {
	if len(artists) == 0 {
		return Artist{}, false
	}
	for _, a := range artists {
		if a.Featured {
			return a, true
		}
	}
	return artists[0], true
}

// HeroImage returns the first image flagged hero, else the first image.
func HeroImage(images []Image) (img Image, ok bool) {
	if len(images) == 0 {
		return Image{}, false
	}
	for _, img := range images {
		if img.IsHero {
			return img, true
		}
	}
	return images[0], true
}

// LargePath maps a thumbnail path to its full-size counterpart.
func LargePath(path string) string {
	return strings.Replace(path, "/thumbnails/", "/large/", 1)
}

// PublicURL returns the raw download URL of a repository file.
func PublicURL(owner, repo, branch, path string) string {
	if branch == "" {
		branch = "main"
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, branch, strings.TrimLeft(path, "/"))
}
