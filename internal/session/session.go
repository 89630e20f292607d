// Package session implements the operations a bill-splitting form performs on
// its state: mode selection, field edits, people and item registration, and
// running the split for the active mode.
//
// Every function mutates the *models.Session it is given and nothing else.
// Persisting the result is the caller's job.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/warikan/internal/calculator"
	"github.com/mmynk/warikan/internal/models"
)

// ShareItemName names the item a computed share is recorded as.
const ShareItemName = "share"

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrItemNotFound   = errors.New("item not found")
	ErrEmptyName      = errors.New("name must not be empty")
	ErrWrongMode      = errors.New("operation not available in this mode")
)

var now = func() int64 { return time.Now().Unix() }

// New creates an empty session in the given mode.
func New(mode calculator.Mode) *models.Session {
	ts := now()
	return &models.Session{
		ID:        uuid.New().String(),
		Mode:      string(mode),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// SelectMode switches the session to mode. Switching to a different mode clears
// every field, person, item and result so that partial state from one mode never
// leaks into another. Selecting the current mode changes nothing.
func SelectMode(s *models.Session, mode calculator.Mode) {
	if s.Mode == string(mode) {
		return
	}
	Reset(s)
	s.Mode = string(mode)
}

// Reset clears all entered data but keeps the mode.
func Reset(s *models.Session) {
	s.TotalAmount = ""
	s.PeopleCount = ""
	s.People = nil
	s.Result = nil
	s.UpdatedAt = now()
}

// SetTotalAmount stores the raw total amount field. It is validated when the
// split is calculated, not here.
func SetTotalAmount(s *models.Session, raw string) {
	s.TotalAmount = raw
	s.UpdatedAt = now()
}

// SetPeopleCount stores the raw people count field.
func SetPeopleCount(s *models.Session, raw string) {
	s.PeopleCount = raw
	s.UpdatedAt = now()
}

// AddPerson registers a new person and returns their generated ID.
func AddPerson(s *models.Session, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if calculator.Mode(s.Mode) == calculator.ModeEqual {
		return "", fmt.Errorf("%w: equal split uses a people count", ErrWrongMode)
	}
	p := models.Person{ID: uuid.New().String(), Name: name}
	s.People = append(s.People, p)
	s.UpdatedAt = now()
	return p.ID, nil
}

// RenamePerson changes a person's display name.
func RenamePerson(s *models.Session, personID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	i := s.FindPerson(personID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPersonNotFound, personID)
	}
	s.People[i].Name = name
	s.UpdatedAt = now()
	return nil
}

// RemovePerson deletes a person and their items.
func RemovePerson(s *models.Session, personID string) error {
	i := s.FindPerson(personID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPersonNotFound, personID)
	}
	s.People = append(s.People[:i], s.People[i+1:]...)
	s.UpdatedAt = now()
	return nil
}

// AddItem attributes a new charge to a person and returns the item ID.
func AddItem(s *models.Session, personID, name string, amount float64) (string, error) {
	if !calculator.ValidAmount(amount) {
		return "", fmt.Errorf("%w: item amount %v", calculator.ErrInvalidInput, amount)
	}
	i := s.FindPerson(personID)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrPersonNotFound, personID)
	}
	item := models.Item{ID: uuid.New().String(), Name: strings.TrimSpace(name), Amount: amount}
	s.People[i].Items = append(s.People[i].Items, item)
	s.UpdatedAt = now()
	return item.ID, nil
}

// UpdateItem replaces the name and amount of an existing item.
func UpdateItem(s *models.Session, personID, itemID, name string, amount float64) error {
	if !calculator.ValidAmount(amount) {
		return fmt.Errorf("%w: item amount %v", calculator.ErrInvalidInput, amount)
	}
	p, j, err := locateItem(s, personID, itemID)
	if err != nil {
		return err
	}
	p.Items[j].Name = strings.TrimSpace(name)
	p.Items[j].Amount = amount
	s.UpdatedAt = now()
	return nil
}

// RemoveItem deletes an item from a person.
func RemoveItem(s *models.Session, personID, itemID string) error {
	p, j, err := locateItem(s, personID, itemID)
	if err != nil {
		return err
	}
	p.Items = append(p.Items[:j], p.Items[j+1:]...)
	s.UpdatedAt = now()
	return nil
}

func locateItem(s *models.Session, personID, itemID string) (*models.Person, int, error) {
	i := s.FindPerson(personID)
	if i < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrPersonNotFound, personID)
	}
	p := &s.People[i]
	j := p.FindItem(itemID)
	if j < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return p, j, nil
}
