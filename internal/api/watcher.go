package api

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/amterp/teams/internal/engine"
	"github.com/amterp/teams/internal/roster"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// NamesChangeType indicates what happened to the names file.
type NamesChangeType string

const (
	NamesCreated  NamesChangeType = "created"
	NamesModified NamesChangeType = "modified"
	NamesDeleted  NamesChangeType = "deleted"
	NamesLoaded   NamesChangeType = "loaded" // initial read at startup
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// NamesChange is emitted when the watched names file has new content.
type NamesChange struct {
	Type  NamesChangeType `json:"type"`
	Path  string          `json:"path"`
	Count int             `json:"count"` // Number of names in the new text
	Text  string          `json:"-"`
}

// NamesSubscriber receives names file change notifications.
type NamesSubscriber interface {
	OnNamesChange(change NamesChange)
}

// NamesWatcher watches one names file and notifies subscribers when its
// content changes. The parent directory is watched rather than the file,
// since editors often save by writing a new file and renaming it over the old one.
type NamesWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	dir         string
	logger      *zap.Logger
	delay       time.Duration
	mu          sync.RWMutex
	subscribers []NamesSubscriber
	lastText    string
	debounce    *time.Timer
	debounceMu  sync.Mutex
	stopCh      chan struct{}
	doneCh      chan struct{}
	stopped     bool // Once stopped, cannot restart
	running     bool
}

// NewNamesWatcher creates a watcher for the names file at path.
func NewNamesWatcher(path string, logger *zap.Logger) (*NamesWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &NamesWatcher{
		watcher: watcher,
		path:    abs,
		dir:     filepath.Dir(abs),
		logger:  logger,
		delay:   DefaultDebounce,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Path returns the absolute path of the watched file.
func (nw *NamesWatcher) Path() string {
	return nw.path
}

// Subscribe adds a subscriber to receive change notifications.
// Subscribers are called in registration order.
func (nw *NamesWatcher) Subscribe(sub NamesSubscriber) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	nw.subscribers = append(nw.subscribers, sub)
}

// Load reads the file now and notifies subscribers, without waiting for a change.
func (nw *NamesWatcher) Load() error {
	data, err := os.ReadFile(nw.path)
	if err != nil {
		return fmt.Errorf("failed to read names file: %w", err)
	}
	nw.publish(NamesLoaded, string(data))
	return nil
}

// Start begins watching for changes.
func (nw *NamesWatcher) Start() error {
	nw.mu.Lock()
	if nw.running {
		nw.mu.Unlock()
		return nil
	}
	if nw.stopped {
		nw.mu.Unlock()
		return fmt.Errorf("names watcher cannot be restarted after stop")
	}
	nw.running = true
	nw.mu.Unlock()

	if err := nw.watcher.Add(nw.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", nw.dir, err)
	}

	go nw.run()
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (nw *NamesWatcher) Stop() error {
	nw.mu.Lock()
	if nw.stopped {
		nw.mu.Unlock()
		return nil
	}
	wasRunning := nw.running
	nw.running = false
	nw.stopped = true
	nw.mu.Unlock()

	// Cancel a pending debounce so it can't fire after stop
	nw.debounceMu.Lock()
	if nw.debounce != nil {
		nw.debounce.Stop()
		nw.debounce = nil
	}
	nw.debounceMu.Unlock()

	close(nw.stopCh)
	err := nw.watcher.Close()
	if wasRunning {
		<-nw.doneCh
	}
	return err
}

func (nw *NamesWatcher) run() {
	defer close(nw.doneCh)
	for {
		select {
		case event, ok := <-nw.watcher.Events:
			if !ok {
				return
			}
			nw.handleEvent(event)

		case err, ok := <-nw.watcher.Errors:
			if !ok {
				return
			}
			nw.logger.Warn("names watcher error", zap.Error(err))

		case <-nw.stopCh:
			return
		}
	}
}

func (nw *NamesWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != nw.path {
		return
	}

	changeType, ok := classifyOp(event.Op)
	if !ok {
		return
	}

	// Debounce: wait before reading to coalesce rapid changes
	nw.debounceMu.Lock()
	if nw.debounce != nil {
		nw.debounce.Stop()
	}
	nw.debounce = time.AfterFunc(nw.delay, func() {
		nw.emit(changeType)
	})
	nw.debounceMu.Unlock()
}

// classifyOp maps an fsnotify operation to a change type.
func classifyOp(op fsnotify.Op) (NamesChangeType, bool) {
	switch {
	case op&fsnotify.Create != 0:
		return NamesCreated, true
	case op&fsnotify.Write != 0:
		return NamesModified, true
	case op&fsnotify.Remove != 0, op&fsnotify.Rename != 0:
		return NamesDeleted, true
	default:
		return "", false
	}
}

func (nw *NamesWatcher) emit(changeType NamesChangeType) {
	// Check if watcher was stopped (debounce timer may fire after Stop)
	nw.mu.RLock()
	stopped := nw.stopped
	nw.mu.RUnlock()
	if stopped {
		return
	}

	if changeType == NamesDeleted {
		// A rename-over save shows up as delete then create; only the create matters.
		if _, err := os.Stat(nw.path); err != nil {
			nw.logger.Info("names file removed, keeping current roster", zap.String("path", nw.path))
			return
		}
		changeType = NamesModified
	}

	data, err := os.ReadFile(nw.path)
	if err != nil {
		nw.logger.Warn("failed to read names file", zap.String("path", nw.path), zap.Error(err))
		return
	}
	nw.publish(changeType, string(data))
}

// publish notifies subscribers unless the text is blank or unchanged.
func (nw *NamesWatcher) publish(changeType NamesChangeType, text string) {
	if roster.IsBlank(text) {
		nw.logger.Warn("names file is empty, keeping current roster", zap.String("path", nw.path))
		return
	}

	nw.mu.Lock()
	if text == nw.lastText {
		nw.mu.Unlock()
		return
	}
	nw.lastText = text
	subs := make([]NamesSubscriber, len(nw.subscribers))
	copy(subs, nw.subscribers)
	nw.mu.Unlock()

	change := NamesChange{
		Type:  changeType,
		Path:  nw.path,
		Count: len(roster.Build(text)),
		Text:  text,
	}
	for _, sub := range subs {
		sub.OnNamesChange(change)
	}
}

// RosterLoader rebuilds the roster from every names file change.
type RosterLoader struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewRosterLoader creates a subscriber that feeds names into eng.
func NewRosterLoader(eng *engine.Engine, logger *zap.Logger) *RosterLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterLoader{engine: eng, logger: logger}
}

// OnNamesChange implements NamesSubscriber.
func (l *RosterLoader) OnNamesChange(change NamesChange) {
	l.engine.Dispatch(engine.BuildRoster{Text: change.Text})
	l.logger.Info("roster reloaded",
		zap.String("path", change.Path),
		zap.String("change", string(change.Type)),
		zap.Int("names", change.Count))
}
