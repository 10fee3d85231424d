package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/tasklist-go/internal/cue"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/taskdir"
)

// Notifier receives cue events emitted by the store. Implementations must
// return promptly; cue.Dispatcher does.
type Notifier interface {
	Notify(kind cue.Kind)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind cue.Kind)

// Notify calls f.
func (f NotifierFunc) Notify(kind cue.Kind) {
	f(kind)
}

type nopNotifier struct{}

func (nopNotifier) Notify(cue.Kind) {}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage key. The default is taskdir.DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithNotifier sets the cue receiver.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store holds the ordered task list and mirrors it to a storage backend.
// A Store is not safe for concurrent use; it is driven by one UI loop.
type Store struct {
	backend   storage.Backend
	key       string
	now       func() time.Time
	newID     func() string
	notifier  Notifier
	logger    *log.Logger
	tasks     []Task
	recovered error
}

// New creates an empty store over backend. Call Load to read persisted state.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		key:      taskdir.DefaultKey,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		notifier: nopNotifier{},
		logger:   log.New(io.Discard),
		tasks:    []Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key the list is persisted under.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory list with the persisted one. A missing key
// leaves the list empty. Unreadable or corrupt state also leaves it empty:
// the cause is logged and available from Recovered, and Load returns nil.
// Load only fails when ctx is done.
func (s *Store) Load(ctx context.Context) error {
	s.tasks = []Task{}
	s.recovered = nil

	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.recover(fmt.Errorf("%w: %w", ErrCorruptPersistedState, err))
		return nil
	}

	loaded, err := Decode(data)
	if err != nil {
		s.recover(err)
		return nil
	}

	s.tasks = s.assignMissingIDs(loaded)
	s.logger.Debug("Loaded tasks", "key", s.key, "count", len(s.tasks))
	return nil
}

func (s *Store) recover(err error) {
	s.recovered = err
	s.logger.Warn("Discarding persisted tasks", "key", s.key, "err", err)
}

// Recovered returns the reason the last Load discarded persisted state,
// or nil if it did not.
func (s *Store) Recovered() error {
	return s.recovered
}

// assignMissingIDs gives legacy records and duplicates a fresh id.
func (s *Store) assignMissingIDs(tasks []Task) []Task {
	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		if tasks[i].ID == "" || seen[tasks[i].ID] {
			tasks[i].ID = s.newID()
		}
		seen[tasks[i].ID] = true
	}
	return tasks
}

// Tasks returns a copy of the list in display order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// At returns the task at pos. ok is false when pos is out of range.
func (s *Store) At(pos int) (Task, bool) {
	if pos < 0 || pos >= len(s.tasks) {
		return Task{}, false
	}
	return s.tasks[pos], true
}

// IDAt returns the id of the task at pos, or "" when out of range.
func (s *Store) IDAt(pos int) string {
	t, ok := s.At(pos)
	if !ok {
		return ""
	}
	return t.ID
}

// Get returns the task with id.
func (s *Store) Get(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Position returns the display position of id, or -1.
func (s *Store) Position(id string) int {
	return s.index(id)
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a task with text unless text is blank. text is stored as
// given, untrimmed. ok reports whether a task was added.
func (s *Store) Add(ctx context.Context, text string) (Task, bool, error) {
	if strings.TrimSpace(text) == "" {
		return Task{}, false, nil
	}

	task := Task{
		ID:        s.newID(),
		Text:      text,
		Completed: false,
		Timestamp: s.now().UnixMilli(),
	}
	next := make([]Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	s.tasks = append(next, task)

	s.notifier.Notify(cue.Add)
	return task, true, s.persist(ctx, "add")
}

// Toggle flips the completion flag of id. The complete cue fires on every
// toggle, including un-completing.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	next := s.Tasks()
	next[i].Completed = !next[i].Completed
	s.tasks = next

	s.notifier.Notify(cue.Complete)
	return true, s.persist(ctx, "toggle")
}

// Edit replaces the text of id verbatim. Empty text is accepted.
func (s *Store) Edit(ctx context.Context, id, text string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	next := s.Tasks()
	next[i].Text = text
	s.tasks = next

	return true, s.persist(ctx, "edit")
}

// Delete removes id. Later tasks move up one position.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next

	return true, s.persist(ctx, "delete")
}

// ClearCompleted removes every completed task and returns how many were
// removed. Nothing is written when none were completed.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	next := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			next = append(next, t)
		}
	}
	removed := len(s.tasks) - len(next)
	if removed == 0 {
		return 0, nil
	}
	s.tasks = next
	return removed, s.persist(ctx, "clear")
}

// persist writes the full list. Failures are logged and returned; the
// in-memory list is not rolled back.
func (s *Store) persist(ctx context.Context, op string) error {
	data, err := Encode(s.tasks)
	if err == nil {
		err = s.backend.Set(ctx, s.key, data)
	}
	if err != nil {
		s.logger.Error("Failed to persist tasks", "op", op, "key", s.key, "err", err)
		return fmt.Errorf("%w: %s: %w", ErrPersist, op, err)
	}
	return nil
}
