package roster

import "errors"

// ErrNotFound is returned when no record carries the requested id.
var ErrNotFound = errors.New("record not found")

// Store keeps records in insertion order. It is not safe for concurrent use.
type Store struct {
	records []Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a validated record.
func (s *Store) Add(rec Record) {
	s.records = append(s.records, rec)
}

// Update replaces the fields of the record with id, keeping its position.
func (s *Store) Update(id string, f Fields) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.records[i] = Record{ID: id, Fields: f}
	return nil
}

// Remove deletes the record with id. Removing an absent id does nothing.
func (s *Store) Remove(id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
}

// Get returns the record with id.
func (s *Store) Get(id string) (Record, bool) {
	i := s.index(id)
	if i < 0 {
		return Record{}, false
	}
	return s.records[i], true
}

// List returns a snapshot of all records in insertion order.
func (s *Store) List() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports the number of records.
func (s *Store) Len() int { return len(s.records) }

func (s *Store) index(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
