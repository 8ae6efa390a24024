package roster

import (
	"fmt"

	"github.com/google/uuid"
)

// Fields holds the operator-editable values of a student record.
type Fields struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	IDNumber string `json:"id_number"`
}

// Record is a committed student entry.
type Record struct {
	ID string `json:"id"`
	Fields
}

// String renders the record the way the list view shows it.
func (r Record) String() string {
	return fmt.Sprintf("%s - %s - %s", r.Name, r.Email, r.IDNumber)
}

// NewID returns a fresh record id. Every id is unique.
func NewID() string {
	return uuid.NewString()
}
