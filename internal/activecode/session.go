package activecode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/programme-lv/activecode/api"
	"github.com/programme-lv/activecode/internal/assemble"
	"github.com/programme-lv/activecode/internal/exercise"
	"github.com/programme-lv/activecode/internal/filedeps"
	"github.com/programme-lv/activecode/internal/telemetry"
)

// Widget is anything that can run student code.
type Widget interface {
	Run(ctx context.Context, code string) Status
}

// Sandbox is the Jobe API surface a session needs.
type Sandbox interface {
	filedeps.FileStore
	Run(ctx context.Context, spec api.RunSpec) (*api.RunResult, error)
}

// UIFactory provides the run control and output panel for an exercise.
type UIFactory func(ex *exercise.Exercise) (Control, Panel)

type SessionConfig struct {
	Exercises []*exercise.Exercise
	Sandbox   Sandbox
	Stores    []filedeps.Store
	Sink      telemetry.Sink
	UI        UIFactory
	Config    Config
	Logger    *slog.Logger

	// HTTPClient fetches remote image data files.
	HTTPClient *http.Client
	// UploadConcurrency bounds parallel data file uploads per run.
	UploadConcurrency int
}

// Session owns the widgets of one host page.
type Session struct {
	ID  string
	cfg SessionConfig

	mu      sync.RWMutex
	widgets map[string]Widget
	ready   bool
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	id := uuid.NewString()
	cfg.Logger = cfg.Logger.With("session", id)
	return &Session{ID: id, cfg: cfg, widgets: make(map[string]Widget)}
}

func (s *Session) RegisterWidget(id string, w Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.widgets[id]; ok {
		return fmt.Errorf("widget %s already registered", id)
	}
	s.widgets[id] = w
	return nil
}

func (s *Session) Widget(id string) (Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.widgets[id]
	return w, ok
}

// WidgetIDs lists registered widgets in sorted order.
func (s *Session) WidgetIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.widgets))
	for id := range s.widgets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Init builds one controller per exercise. The host calls it once, after
// the user is known. A failed Init registers nothing and may be retried.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return fmt.Errorf("session %s already initialised", s.ID)
	}
	s.ready = true
	s.mu.Unlock()

	built, err := s.build(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		for id := range built {
			if _, ok := s.widgets[id]; ok {
				err = fmt.Errorf("widget %s already registered", id)
				break
			}
		}
	}
	if err != nil {
		s.ready = false
		return err
	}
	for id, w := range built {
		s.widgets[id] = w
	}
	s.cfg.Logger.Info("session initialised", "widgets", len(built))
	return nil
}

func (s *Session) build(ctx context.Context) (map[string]Widget, error) {
	opts := []filedeps.Option{
		filedeps.WithStores(s.cfg.Stores...),
		filedeps.WithLogger(s.cfg.Logger),
	}
	if s.cfg.HTTPClient != nil {
		opts = append(opts, filedeps.WithHTTPClient(s.cfg.HTTPClient))
	}
	if s.cfg.UploadConcurrency > 0 {
		opts = append(opts, filedeps.WithConcurrency(s.cfg.UploadConcurrency))
	}

	asm := assemble.New(s.cfg.Logger)
	built := make(map[string]Widget, len(s.cfg.Exercises))
	for _, ex := range s.cfg.Exercises {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := built[ex.ID]; ok {
			return nil, fmt.Errorf("widget %s already registered", ex.ID)
		}
		control, panel := s.cfg.UI(ex)
		resolver := filedeps.NewResolver(s.cfg.Sandbox, filedeps.NewDocument(ex.Elements), opts...)
		c, err := NewController(ex, Deps{
			Assembler: asm,
			Resolver:  resolver,
			Submitter: s.cfg.Sandbox,
			Sink:      s.cfg.Sink,
			Logger:    s.cfg.Logger,
		}, control, panel, s.cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to create widget %s: %w", ex.ID, err)
		}
		built[ex.ID] = c
	}
	return built, nil
}
