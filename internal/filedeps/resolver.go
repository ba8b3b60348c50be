// Package filedeps makes sure every data file a program references is
// present on the sandbox before the program is submitted.
package filedeps

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/activecode/api"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

// FileStore is the sandbox's file resource.
type FileStore interface {
	CheckFile(ctx context.Context, id string) (bool, error)
	PutFile(ctx context.Context, id, contents string) error
}

// DependencyUploadError aborts a run when a file cannot be confirmed present.
type DependencyUploadError struct {
	Name string
	ID   string
	Err  error
}

func (e *DependencyUploadError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("data file %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("data file %s (%s): %v", e.Name, e.ID, e.Err)
}

func (e *DependencyUploadError) Unwrap() error {
	return e.Err
}

// FileID is the content address of a file on the sandbox.
func FileID(name, content string) string {
	h := sha256.Sum256([]byte(name + "\x00" + content))
	return "rs" + hex.EncodeToString(h[:])
}

type Resolver struct {
	files  FileStore
	doc    *Document
	stores []Store

	// present holds ids confirmed on the sandbox. It only grows.
	present *xsync.MapOf[string, struct{}]

	httpClient  *http.Client
	concurrency int
	logger      *slog.Logger
}

type Option func(*Resolver)

func WithStores(stores ...Store) Option {
	return func(r *Resolver) { r.stores = append(r.stores, stores...) }
}

func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.httpClient = c }
}

func WithConcurrency(n int) Option {
	return func(r *Resolver) { r.concurrency = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func NewResolver(files FileStore, doc *Document, opts ...Option) *Resolver {
	r := &Resolver{
		files:       files,
		doc:         doc,
		present:     xsync.NewMapOf[string, struct{}](),
		httpClient:  http.DefaultClient,
		concurrency: 8,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve loads the named data files plus extra, uploads whatever the
// sandbox lacks and returns the file list for the run. Any failure fails
// the whole call.
func (r *Resolver) Resolve(ctx context.Context, names []string, extra ...File) ([]api.FileRef, error) {
	seen := mapset.NewThreadUnsafeSet[string]()
	var files []File
	for _, name := range names {
		if !seen.Add(name) {
			continue
		}
		loaded, err := r.load(ctx, name)
		if err != nil {
			return nil, &DependencyUploadError{Name: name, Err: err}
		}
		files = append(files, loaded...)
	}
	files = append(files, extra...)

	ids := mapset.NewThreadUnsafeSet[string]()
	refs := make([]api.FileRef, 0, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, f := range files {
		id := FileID(f.Name, f.Content)
		if !ids.Add(id) {
			continue
		}
		refs = append(refs, api.FileRef{ID: id, Name: f.Name})
		g.Go(func() error {
			return r.ensure(gctx, id, f)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *Resolver) ensure(ctx context.Context, id string, f File) error {
	if _, ok := r.present.Load(id); ok {
		return nil
	}

	ok, err := r.files.CheckFile(ctx, id)
	if err != nil {
		return &DependencyUploadError{Name: f.Name, ID: id, Err: err}
	}
	if !ok {
		r.logger.Info("uploading data file", "name", f.Name, "id", id)
		if err := r.files.PutFile(ctx, id, f.Contents()); err != nil {
			return &DependencyUploadError{Name: f.Name, ID: id, Err: err}
		}
	}
	r.present.Store(id, struct{}{})
	return nil
}

// Cached reports whether id is known to be present on the sandbox.
func (r *Resolver) Cached(id string) bool {
	_, ok := r.present.Load(id)
	return ok
}
