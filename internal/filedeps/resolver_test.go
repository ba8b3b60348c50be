package filedeps_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/activecode/internal/exercise"
	"github.com/programme-lv/activecode/internal/filedeps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSandbox struct {
	mu      sync.Mutex
	files   map[string]string
	checks  int
	puts    int
	failPut error
}

func newFakeSandbox() *fakeSandbox {
	return &fakeSandbox{files: map[string]string{}}
}

func (f *fakeSandbox) CheckFile(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	_, ok := f.files[id]
	return ok, nil
}

func (f *fakeSandbox) PutFile(_ context.Context, id, contents string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failPut != nil {
		return f.failPut
	}
	f.files[id] = contents
	return nil
}

func TestFileIDIsContentAddressed(t *testing.T) {
	a := filedeps.FileID("data.txt", "1 2 3")
	assert.Equal(t, a, filedeps.FileID("data.txt", "1 2 3"))
	assert.NotEqual(t, a, filedeps.FileID("data.txt", "1 2 4"))
	assert.NotEqual(t, a, filedeps.FileID("other.txt", "1 2 3"))
	assert.Len(t, a, 2+64)
	assert.Equal(t, "rs", a[:2])
}

func TestResolveUploadsOnce(t *testing.T) {
	sb := newFakeSandbox()
	doc := filedeps.NewDocument([]exercise.Element{
		{ID: "data.txt", Tag: "pre", Text: "hello"},
	})
	r := filedeps.NewResolver(sb, doc)
	ctx := context.Background()

	refs, err := r.Resolve(ctx, []string{"data.txt"})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "data.txt", refs[0].Name)
	assert.Equal(t, filedeps.FileID("data.txt", "hello"), refs[0].ID)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), sb.files[refs[0].ID])
	assert.Equal(t, 1, sb.puts)

	again, err := r.Resolve(ctx, []string{"data.txt", "data.txt"})
	require.NoError(t, err)
	assert.Equal(t, refs, again)
	assert.Equal(t, 1, sb.puts)
	assert.Equal(t, 1, sb.checks)
	assert.True(t, r.Cached(refs[0].ID))
}

func TestResolveChangedContentUploadsAgain(t *testing.T) {
	sb := newFakeSandbox()
	mem := filedeps.NewMemoryStore()
	r := filedeps.NewResolver(sb, nil, filedeps.WithStores(mem))
	ctx := context.Background()

	mem.Put("in.txt", []byte("v1"))
	first, err := r.Resolve(ctx, []string{"in.txt"})
	require.NoError(t, err)

	mem.Put("in.txt", []byte("v2"))
	second, err := r.Resolve(ctx, []string{"in.txt"})
	require.NoError(t, err)

	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.Equal(t, 2, sb.puts)
}

func TestResolveSkipsFilesAlreadyOnSandbox(t *testing.T) {
	sb := newFakeSandbox()
	sb.files[filedeps.FileID("a.txt", "x")] = "eA=="
	r := filedeps.NewResolver(sb, nil)

	_, err := r.Resolve(context.Background(), nil, filedeps.File{Name: "a.txt", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, sb.checks)
	assert.Zero(t, sb.puts)
}

func TestResolveFailureAbortsAll(t *testing.T) {
	sb := newFakeSandbox()
	sb.failPut = errors.New("status 403")
	r := filedeps.NewResolver(sb, nil)

	refs, err := r.Resolve(context.Background(), nil,
		filedeps.File{Name: "A.java", Content: "class A {}"},
		filedeps.File{Name: "B.java", Content: "class B {}"},
	)
	assert.Nil(t, refs)

	var uerr *filedeps.DependencyUploadError
	require.True(t, errors.As(err, &uerr))
	assert.NotEmpty(t, uerr.ID)
	assert.ErrorIs(t, err, sb.failPut)
}

func TestResolveMissingFile(t *testing.T) {
	r := filedeps.NewResolver(newFakeSandbox(), nil, filedeps.WithStores(filedeps.NewMemoryStore()))
	_, err := r.Resolve(context.Background(), []string{"nope.txt"})

	var uerr *filedeps.DependencyUploadError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "nope.txt", uerr.Name)
	assert.ErrorIs(t, err, filedeps.ErrNotFound)
}

func TestResolveByDataFilename(t *testing.T) {
	sb := newFakeSandbox()
	doc := filedeps.NewDocument([]exercise.Element{
		{ID: "datafile-1", DataFilename: "numbers.txt", Text: "1\n2\n"},
	})
	r := filedeps.NewResolver(sb, doc)

	refs, err := r.Resolve(context.Background(), []string{"numbers.txt"})
	require.NoError(t, err)
	assert.Equal(t, filedeps.FileID("numbers.txt", "1\n2\n"), refs[0].ID)
}

func TestResolveExpandsJar(t *testing.T) {
	sb := newFakeSandbox()
	doc := filedeps.NewDocument([]exercise.Element{
		{ID: "shapes.jar", Text: "class Square { }\nclass Circle extends Square { }\n"},
	})
	r := filedeps.NewResolver(sb, doc)

	refs, err := r.Resolve(context.Background(), []string{"shapes.jar"})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Square.java", refs[0].Name)
	assert.Equal(t, "Circle.java", refs[1].Name)
	assert.Equal(t, 2, sb.puts)
}

func TestResolveCanvasImage(t *testing.T) {
	sb := newFakeSandbox()
	doc := filedeps.NewDocument([]exercise.Element{
		{ID: "pic.png", Tag: "canvas", DataURL: "data:image/png;base64,iVBORw0KGgo="},
	})
	r := filedeps.NewResolver(sb, doc)

	refs, err := r.Resolve(context.Background(), []string{"pic.png"})
	require.NoError(t, err)
	assert.Equal(t, "iVBORw0KGgo=", sb.files[refs[0].ID])
}

func TestResolveImageFromPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cat.gif")
	require.NoError(t, os.WriteFile(p, []byte("GIF89a"), 0o644))

	sb := newFakeSandbox()
	doc := filedeps.NewDocument([]exercise.Element{{ID: "cat.gif", Tag: "img", Src: p}})
	refs, err := filedeps.NewResolver(sb, doc).Resolve(context.Background(), []string{"cat.gif"})
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("GIF89a")), sb.files[refs[0].ID])
}

func TestResolveImageOverHTTP(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("GIF89a"))
	}))
	defer srv.Close()

	sb := newFakeSandbox()
	doc := filedeps.NewDocument([]exercise.Element{{ID: "cat.gif", Tag: "img", Src: srv.URL + "/cat.gif"}})
	r := filedeps.NewResolver(sb, doc, filedeps.WithHTTPClient(srv.Client()), filedeps.WithConcurrency(1))

	refs, err := r.Resolve(context.Background(), []string{"cat.gif"})
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("GIF89a")), sb.files[refs[0].ID])
}

func TestResolveDeduplicatesByID(t *testing.T) {
	sb := newFakeSandbox()
	doc := filedeps.NewDocument([]exercise.Element{
		{ID: "Util.java", Tag: "pre", Text: "class Util { }"},
	})
	r := filedeps.NewResolver(sb, doc)

	refs, err := r.Resolve(context.Background(), []string{"Util.java"},
		filedeps.File{Name: "Util.java", Content: "class Util { }"},
		filedeps.File{Name: "Main.java", Content: "class Main { }"},
	)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Util.java", refs[0].Name)
	assert.Equal(t, "Main.java", refs[1].Name)
	assert.Equal(t, 2, sb.checks)
	assert.Equal(t, 2, sb.puts)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, filedeps.Archive, filedeps.Classify("lib.jar"))
	assert.Equal(t, filedeps.Image, filedeps.Classify("a.JPG"))
	assert.Equal(t, filedeps.Image, filedeps.Classify("a.jpeg"))
	assert.Equal(t, filedeps.Image, filedeps.Classify("a.gif"))
	assert.Equal(t, filedeps.Text, filedeps.Classify("data.csv"))
	assert.Equal(t, filedeps.Text, filedeps.Classify("README"))
}

func TestDirStoreDecompressesZst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.txt"), []byte("plain"), 0o644))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte("315941512 -119267504\n"), nil)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt.zst"), compressed, 0o644))

	s := filedeps.NewDirStore(dir)
	ctx := context.Background()

	b, err := s.Open(ctx, "plain.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(b))

	b, err = s.Open(ctx, "big.txt")
	require.NoError(t, err)
	assert.Equal(t, "315941512 -119267504\n", string(b))

	_, err = s.Open(ctx, "missing.txt")
	assert.ErrorIs(t, err, filedeps.ErrNotFound)

	_, err = s.Open(ctx, "../etc/passwd")
	assert.Error(t, err)
}
