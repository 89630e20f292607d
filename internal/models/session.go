package models

// Session represents one bill-splitting form.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Mode is the active split mode: "equal", "random" or "registered".
	Mode string

	// TotalAmount is the raw value of the total amount field.
	TotalAmount string

	// PeopleCount is the raw value of the people count field (equal mode only).
	PeopleCount string

	// People are the registered or synthesized participants, in entry order.
	People []Person

	// Result is the last computed split, or nil when nothing has been computed
	// or the last computation had invalid input.
	Result *Result

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// Person represents one participant in a session.
type Person struct {
	// ID is the stable identifier for the person (UUID format).
	ID string

	// Name is the display name. Two people may share a name.
	Name string

	// Items are the charges or shares attributed to this person.
	Items []Item
}

// Item represents a single charge or share attributed to a person.
type Item struct {
	ID     string
	Name   string
	Amount float64
}

// Result is a computed split as shown to the user.
type Result struct {
	Mode      string  `json:"mode"`
	Total     int64   `json:"total"`
	Remainder int64   `json:"remainder"`
	Shares    []Share `json:"shares"`
}

// Share is one person's settled amount in a Result.
type Share struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
}

// FindPerson returns the index of the person with the given ID, or -1.
func (s *Session) FindPerson(id string) int {
	for i := range s.People {
		if s.People[i].ID == id {
			return i
		}
	}
	return -1
}

// FindItem returns the index of the item with the given ID, or -1.
func (p *Person) FindItem(id string) int {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return i
		}
	}
	return -1
}
