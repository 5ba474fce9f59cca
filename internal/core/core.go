package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trailhead-app/trailhead/internal/action"
	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/registry"
	"github.com/trailhead-app/trailhead/internal/store"
)

// Mode is the core's lifecycle state.
type Mode int

const (
	// ModeLoading is the initial state before the first load completes.
	ModeLoading Mode = iota + 1
	// ModeHealthy means a real database is active and the last flush (if
	// any) succeeded.
	ModeHealthy
	// ModeVolatile means no persistent database backs the session; all
	// mutations live only in memory. Demo sessions run volatile too.
	ModeVolatile
	// ModeDegraded means a real database is active but the last flush
	// failed; pending actions accumulate until a flush succeeds.
	ModeDegraded
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeHealthy:
		return "healthy"
	case ModeVolatile:
		return "volatile"
	case ModeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// DefaultSyncDelay is the debounce interval between a queue change and the
// flush attempt it triggers.
const DefaultSyncDelay = 500 * time.Millisecond

// Cover image constraints handed to the injected resizer.
const (
	coverMaxDim  = 1280
	coverQuality = 80
)

// Resizer produces a resized encoded copy of a raw image. It is an opaque
// collaborator of the add/update-event path; the core never inspects image
// bytes itself.
type Resizer func(src []byte, maxDim, quality int) ([]byte, error)

// Core owns the active database pointer, the in-memory snapshot, and the
// pending-action queue. All public methods are safe for concurrent use;
// internally a single mutex serializes every read-modify-write.
type Core struct {
	mu sync.Mutex

	logger   *slog.Logger
	manager  *store.Manager
	registry *registry.Registry
	settings *store.SettingsStore
	idGen    model.IDGenerator
	now      func() time.Time
	resize   Resizer
	notify   StatusFunc

	syncDelay time.Duration

	mode       Mode
	activeName string
	baseline   model.Snapshot // last persisted state of the active database
	snapshot   model.Snapshot // baseline + queued actions, what the UI sees
	queue      *action.Queue

	// baselineDirty marks in-memory baseline edits that no queued action
	// covers (template merges from an import); the next flush must write
	// even when the queue is empty.
	baselineDirty bool

	userSettings  model.Settings
	settingsDirty bool

	flushTimer    *time.Timer
	settingsTimer *time.Timer
	closed        bool
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Core) { c.logger = l }
}

// WithIDGenerator sets the id generator. Default: UUIDv7.
func WithIDGenerator(g model.IDGenerator) Option {
	return func(c *Core) { c.idGen = g }
}

// WithClock sets the time source. Used by tests to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Core) { c.now = now }
}

// WithSyncDelay sets the flush debounce interval.
// Use a short value in tests; zero keeps the default.
func WithSyncDelay(d time.Duration) Option {
	return func(c *Core) {
		if d > 0 {
			c.syncDelay = d
		}
	}
}

// WithResizer sets the image resizing collaborator. Without one, image
// payloads are stored as provided and the cover is the original bytes.
func WithResizer(r Resizer) Option {
	return func(c *Core) { c.resize = r }
}

// WithStatusFunc sets the status notification sink.
func WithStatusFunc(f StatusFunc) Option {
	return func(c *Core) { c.notify = f }
}

// New creates a Core over the given store manager. The settings database is
// opened eagerly; everything else waits for Start.
func New(m *store.Manager, opts ...Option) (*Core, error) {
	c := &Core{
		logger:    slog.Default(),
		manager:   m,
		registry:  registry.New(m),
		idGen:     model.UUIDv7Generator{},
		now:       time.Now,
		syncDelay: DefaultSyncDelay,
		mode:      ModeLoading,
		baseline:  model.EmptySnapshot(),
		snapshot:  model.EmptySnapshot(),
		queue:     action.NewQueue(),
	}
	for _, opt := range opts {
		opt(c)
	}

	settings, err := store.OpenSettings(m)
	if err != nil {
		return nil, newError(CodeStorageUnavailable, "", "open settings database", err)
	}
	c.settings = settings
	return c, nil
}

// Start performs the initial load: read settings, resolve the active
// database by precedence, and load its snapshot. Storage failures demote
// the core to volatile mode instead of returning an error; only settings
// database failures surface.
func (c *Core) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status(StatusLoading, "loading")

	loaded, err := c.settings.Load(ctx)
	if err != nil {
		return newError(CodeStorageUnavailable, "", "load settings", err)
	}
	c.userSettings = loaded

	preferred, err := c.settings.ActiveDatabase(ctx)
	if err != nil {
		return newError(CodeStorageUnavailable, "", "load active database preference", err)
	}

	discovered, err := c.registry.Discover()
	if err != nil {
		c.enterVolatileLocked("storage unavailable, running in temporary mode")
		c.logger.Error("discover databases", "error", err)
		return nil
	}

	// First run: nothing on disk yet. Create and seed the default
	// database so the app starts with tutorial content.
	if len(discovered) == 0 && preferred != registry.DemoName {
		if err := c.registry.Create(registry.DefaultName); err != nil {
			c.enterVolatileLocked("could not create default database, running in temporary mode")
			c.logger.Error("create default database", "error", err)
			return nil
		}
		discovered = []string{registry.DefaultName}
	}

	target := registry.Resolve(preferred, discovered)
	if err := c.activateLocked(ctx, target); err != nil {
		c.enterVolatileLocked("could not open " + target + ", running in temporary mode")
		c.logger.Error("initial load", "database", target, "error", err)
		return nil
	}

	c.status(StatusSuccess, "loaded "+target)
	return nil
}

// Snapshot returns a deep copy of the effective in-memory state.
func (c *Core) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot.Clone()
}

// Mode returns the current lifecycle state.
func (c *Core) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// ActiveDatabase returns the active database name ("temporary" while
// volatile).
func (c *Core) ActiveDatabase() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeName
}

// PendingActions returns the number of queued unsynced actions.
func (c *Core) PendingActions() int {
	return c.queue.Len()
}

// HasUnsyncedChanges reports whether pending actions exist that only live
// in memory. While true, the UI must warn before the user navigates away.
func (c *Core) HasUnsyncedChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return (c.mode == ModeDegraded || c.mode == ModeVolatile) && c.queue.Len() > 0
}

// Databases lists the names of all databases on disk, sorted.
func (c *Core) Databases() ([]string, error) {
	names, err := c.registry.Discover()
	if err != nil {
		return nil, newError(CodeStorageUnavailable, "", "discover databases", err)
	}
	return names, nil
}

// NewID returns a fresh identifier from the configured generator.
func (c *Core) NewID() string {
	return c.idGen.NewID()
}

// Now returns the current time from the configured clock.
func (c *Core) Now() time.Time {
	return c.now()
}

// Submit records one mutation. The action is appended to the pending queue
// (with replacement filtering) and applied to the in-memory snapshot in the
// same critical section, then a debounced flush is scheduled if the active
// database can absorb one. Image payloads on add/update are run through the
// resizer to produce the cover copy; the original bytes ride with the
// queued action until flush persists them to the image side collection.
func (c *Core) Submit(a action.Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := c.prepareImageLocked(a)
	if err != nil {
		return err
	}

	c.queue.Enqueue(a)
	c.snapshot = action.Apply(c.snapshot, []action.Action{a})
	c.scheduleFlushLocked()
	return nil
}

// prepareImageLocked runs the resizer for add/update actions that carry an
// image payload and stores the resized copy on the event as its cover.
func (c *Core) prepareImageLocked(a action.Action) (action.Action, error) {
	resizeCover := func(e *model.Event, data []byte) error {
		cover := data
		if c.resize != nil {
			resized, err := c.resize(data, coverMaxDim, coverQuality)
			if err != nil {
				return fmt.Errorf("resize image: %w", err)
			}
			cover = resized
		}
		e.CoverImage = base64.StdEncoding.EncodeToString(cover)
		e.HasOriginalImage = true
		return nil
	}

	switch v := a.(type) {
	case action.AddEvent:
		if len(v.ImageData) > 0 {
			if err := resizeCover(&v.Event, v.ImageData); err != nil {
				return nil, err
			}
		}
		return v, nil
	case action.UpdateEvent:
		if len(v.ImageData) > 0 {
			if err := resizeCover(&v.Event, v.ImageData); err != nil {
				return nil, err
			}
		} else if v.RemoveImage {
			v.Event.CoverImage = ""
			v.Event.HasOriginalImage = false
		}
		return v, nil
	default:
		return a, nil
	}
}

// Settings returns the current global settings.
func (c *Core) Settings() model.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userSettings
}

// UpdateSettings replaces the global settings and schedules a debounced
// save to the settings database. After Close the settings store is gone,
// so the call fails instead of dropping the change on the floor.
func (c *Core) UpdateSettings(s model.Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return newError(CodeStorageUnavailable, "", "core is closed", nil)
	}
	c.userSettings = s
	c.settingsDirty = true
	if c.settingsTimer == nil {
		c.settingsTimer = time.AfterFunc(c.syncDelay, c.saveSettingsNow)
	} else {
		c.settingsTimer.Reset(c.syncDelay)
	}
	return nil
}

func (c *Core) saveSettingsNow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveSettingsLocked()
}

func (c *Core) saveSettingsLocked() {
	if !c.settingsDirty {
		return
	}
	if err := c.settings.Save(context.Background(), c.userSettings); err != nil {
		c.logger.Error("save settings", "error", err)
		return
	}
	c.settingsDirty = false
}

// Close flushes pending work synchronously (a final flush attempt and any
// dirty settings), stops the timers, and closes every cached store handle.
func (c *Core) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.flushTimer != nil {
		c.flushTimer.Stop()
	}
	if c.settingsTimer != nil {
		c.settingsTimer.Stop()
	}
	c.flushLocked(context.Background())
	c.saveSettingsLocked()
	c.mu.Unlock()

	return c.manager.CloseAll()
}

// status emits a notification and mirrors it to the logger. Callers hold
// the mutex; StatusFunc implementations must not call back into the core.
func (c *Core) status(kind StatusKind, message string) {
	c.logger.Debug("status", "kind", kind.String(), "message", message)
	if c.notify != nil {
		c.notify(Status{Kind: kind, Message: message})
	}
}

// enterVolatileLocked drops into non-persistent mode with empty state.
// The active-name preference is cleared - volatile is never recorded as
// the last active database.
func (c *Core) enterVolatileLocked(message string) {
	c.mode = ModeVolatile
	c.activeName = registry.VolatileName
	c.baseline = model.EmptySnapshot()
	c.baselineDirty = false
	c.snapshot = model.EmptySnapshot()
	c.queue.Clear()
	if err := c.settings.SetActiveDatabase(context.Background(), ""); err != nil {
		c.logger.Error("clear active database preference", "error", err)
	}
	c.status(StatusInfo, message)
}
