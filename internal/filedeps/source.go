package filedeps

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/activecode/internal/exercise"
	"github.com/programme-lv/activecode/internal/javascan"
)

// File is one (name, content) pair to be placed next to the program.
type File struct {
	Name    string
	Content string
	// Base64 is set when Content is already base64 encoded.
	Base64 bool
}

// Contents returns the base64 payload sent to the sandbox.
func (f File) Contents() string {
	if f.Base64 {
		return f.Content
	}
	return base64.StdEncoding.EncodeToString([]byte(f.Content))
}

type Kind int

const (
	Text Kind = iota
	Archive
	Image
)

var (
	archiveExts = mapset.NewSet("jar")
	imageExts   = mapset.NewSet("jpg", "jpeg", "png", "gif")
)

// Classify picks the handling of a file from its extension.
func Classify(name string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	switch {
	case archiveExts.Contains(ext):
		return Archive
	case imageExts.Contains(ext):
		return Image
	}
	return Text
}

// load produces the files a single reference expands to.
func (r *Resolver) load(ctx context.Context, name string) ([]File, error) {
	kind := Classify(name)

	if el, ok := r.doc.Lookup(name); ok {
		if kind == Image {
			b64, err := r.imagePayload(ctx, el)
			if err != nil {
				return nil, err
			}
			return []File{{Name: name, Content: b64, Base64: true}}, nil
		}
		return expand(name, kind, el.Text)
	}

	for _, s := range r.stores {
		b, err := s.Open(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if kind == Image {
			return []File{{Name: name, Content: base64.StdEncoding.EncodeToString(b), Base64: true}}, nil
		}
		return expand(name, kind, string(b))
	}
	return nil, ErrNotFound
}

func expand(name string, kind Kind, text string) ([]File, error) {
	if kind != Archive {
		return []File{{Name: name, Content: text}}, nil
	}
	units, err := javascan.Split(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split %s: %w", name, err)
	}
	files := make([]File, 0, len(units))
	for _, u := range units {
		files = append(files, File{Name: u.Filename(), Content: u.Source})
	}
	return files, nil
}

func (r *Resolver) imagePayload(ctx context.Context, el exercise.Element) (string, error) {
	if el.DataURL != "" {
		_, payload, ok := strings.Cut(el.DataURL, "base64,")
		if !ok {
			return "", fmt.Errorf("element %s: data URL is not base64", el.ID)
		}
		return payload, nil
	}
	if el.Src == "" {
		return "", fmt.Errorf("element %s: image has neither data URL nor src", el.ID)
	}

	var b []byte
	var err error
	if strings.HasPrefix(el.Src, "http://") || strings.HasPrefix(el.Src, "https://") {
		b, err = r.fetch(ctx, el.Src)
	} else {
		b, err = os.ReadFile(el.Src)
	}
	if err != nil {
		return "", fmt.Errorf("element %s: %w", el.ID, err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
