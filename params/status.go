package params

// MaxHistoryLen is the default number of historical values a StatusStore
// retains per parameter. Older values are evicted first.
const MaxHistoryLen = 100

// StatusStore is a Store whose parameters additionally record a bounded
// history of their values. It is meant for observation-only status values
// (loss, iteration count) updated by the training loop and inspected, never
// edited, by the operator.
type StatusStore struct {
	Store
	limit   int
	history map[string][]any
}

// NewStatusStore creates an empty StatusStore with the default history
// limit.
func NewStatusStore() *StatusStore {
	return NewStatusStoreWithLimit(MaxHistoryLen)
}

// NewStatusStoreWithLimit creates an empty StatusStore that keeps at most
// limit historical values per parameter. limit must be at least 1.
func NewStatusStoreWithLimit(limit int) *StatusStore {
	if limit < 1 {
		limit = 1
	}
	return &StatusStore{
		Store:   *NewStore(),
		limit:   limit,
		history: make(map[string][]any),
	}
}

// Add registers a new status parameter, marks it dirty, and seeds its
// history with the initial value.
func (s *StatusStore) Add(name string, value any) error {
	if err := s.Store.Add(name, value); err != nil {
		return err
	}
	s.appendHistory(name, value)
	return nil
}

// AddIfAbsent registers a new status parameter exactly like Add, but does
// nothing if the name is already registered.
func (s *StatusStore) AddIfAbsent(name string, value any) {
	if s.has(name) {
		return
	}
	s.Store.AddIfAbsent(name, value)
	s.appendHistory(name, value)
}

// Update overwrites the current value and appends it to the parameter's
// history, evicting the oldest entry once the history limit is reached.
// The history records every sample, including updates that repeat the
// current value; the dirty flag follows the Store rules.
func (s *StatusStore) Update(name string, value any) error {
	if err := s.Store.Update(name, value); err != nil {
		return err
	}
	s.appendHistory(name, value)
	return nil
}

// History returns the recorded values for a parameter, oldest first. The
// last entry is always the current value. It returns an UnknownNameError if
// the name was never added.
func (s *StatusStore) History(name string) ([]any, error) {
	if !s.has(name) {
		return nil, &UnknownNameError{Name: name}
	}
	return s.history[name], nil
}

func (s *StatusStore) appendHistory(name string, value any) {
	h := append(s.history[name], value)
	if len(h) > s.limit {
		h = h[len(h)-s.limit:]
	}
	s.history[name] = h
}
