package roster

import (
	"errors"
	"fmt"
)

var (
	ErrDraftOpen    = errors.New("a draft is already open")
	ErrNoDraft      = errors.New("no draft is open")
	ErrUnknownField = errors.New("unknown field")
)

// Field names accepted by SetField.
type Field string

const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldIDNumber Field = "idNumber"
)

// State is the draft controller state.
type State string

const (
	Closed   State = "closed"
	Creating State = "creating"
	Editing  State = "editing"
)

// Draft is the uncommitted form state. It is treated as a value: every
// edit produces a new Draft.
type Draft struct {
	Fields
	// EditingID is empty when creating a new record.
	EditingID string
	Err       *ValidationError
}

func (d Draft) with(field Field, value string) (Draft, error) {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldIDNumber:
		d.IDNumber = value
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return d, nil
}

// ChangeKind names a committed store mutation.
type ChangeKind string

const (
	RecordCreated ChangeKind = "record.created"
	RecordUpdated ChangeKind = "record.updated"
	RecordDeleted ChangeKind = "record.deleted"
)

// Change describes one committed mutation.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Record Record     `json:"record"`
}

// Notifier receives every committed change. Implementations must not block.
type Notifier interface {
	Notify(Change)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Change) {}

// Controller owns the single in-flight draft and is the only writer of the
// store.
type Controller struct {
	store    *Store
	notifier Notifier
	state    State
	draft    Draft
}

// NewController wires a controller to store. notifier may be nil.
func NewController(store *Store, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Controller{store: store, notifier: notifier, state: Closed}
}

// State reports the current state.
func (c *Controller) State() State { return c.state }

// Draft returns the open draft and whether one is open.
func (c *Controller) Draft() (Draft, bool) {
	d := c.draft
	if d.Err != nil {
		e := *d.Err
		d.Err = &e
	}
	return d, c.state != Closed
}

// Records returns the store snapshot.
func (c *Controller) Records() []Record { return c.store.List() }

// OpenForCreate opens an empty draft.
func (c *Controller) OpenForCreate() error {
	if c.state != Closed {
		return ErrDraftOpen
	}
	c.draft = Draft{}
	c.state = Creating
	return nil
}

// OpenForEdit loads the record with id into a new draft. The controller
// stays closed if the record is absent.
func (c *Controller) OpenForEdit(id string) error {
	if c.state != Closed {
		return ErrDraftOpen
	}
	rec, ok := c.store.Get(id)
	if !ok {
		return ErrNotFound
	}
	c.draft = Draft{Fields: rec.Fields, EditingID: rec.ID}
	c.state = Editing
	return nil
}

// SetField replaces the draft with one carrying the new value. Nothing is
// validated until Submit.
func (c *Controller) SetField(field Field, value string) error {
	if c.state == Closed {
		return ErrNoDraft
	}
	d, err := c.draft.with(field, value)
	if err != nil {
		return err
	}
	c.draft = d
	return nil
}

// Submit validates the draft and commits it. On a validation failure the
// draft stays open with the error attached and the store is untouched.
func (c *Controller) Submit() (Record, error) {
	if c.state == Closed {
		return Record{}, ErrNoDraft
	}
	if err := Validate(c.draft.Fields); err != nil {
		var verr *ValidationError
		errors.As(err, &verr)
		e := *verr
		c.draft.Err = &e
		return Record{}, err
	}

	var (
		rec  Record
		kind ChangeKind
	)
	switch c.state {
	case Creating:
		rec = Record{ID: NewID(), Fields: c.draft.Fields}
		c.store.Add(rec)
		kind = RecordCreated
	case Editing:
		rec = Record{ID: c.draft.EditingID, Fields: c.draft.Fields}
		if err := c.store.Update(rec.ID, rec.Fields); err != nil {
			// The record was deleted while being edited.
			c.close()
			return Record{}, fmt.Errorf("update %s: %w", rec.ID, err)
		}
		kind = RecordUpdated
	}
	c.close()
	c.notifier.Notify(Change{Kind: kind, Record: rec})
	return rec, nil
}

// Cancel discards the draft. Cancelling with no draft open is a no-op.
func (c *Controller) Cancel() {
	c.close()
}

// Delete removes the record with id regardless of the draft state.
func (c *Controller) Delete(id string) {
	rec, ok := c.store.Get(id)
	if !ok {
		return
	}
	c.store.Remove(id)
	c.notifier.Notify(Change{Kind: RecordDeleted, Record: rec})
}

func (c *Controller) close() {
	c.draft = Draft{}
	c.state = Closed
}
