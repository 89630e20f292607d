// Package api defines the warikan.v1 Connect services: message types,
// procedure names, and handler and client constructors.
package api

// Item is a single charge or share attributed to a person.
type Item struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Person is one participant with their items.
type Person struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Items []Item `json:"items,omitempty"`
}

// Share is one person's settled amount.
type Share struct {
	PersonID string `json:"person_id,omitempty"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	// Display is Amount rendered with the currency unit, e.g. "33 円".
	Display string `json:"display"`
}

// Result is a computed split.
type Result struct {
	Mode         string  `json:"mode"`
	Total        int64   `json:"total"`
	TotalDisplay string  `json:"total_display"`
	Remainder    int64   `json:"remainder"`
	Shares       []Share `json:"shares"`
}

// Session is the full state of one bill-splitting form.
type Session struct {
	ID          string   `json:"id"`
	Mode        string   `json:"mode"`
	TotalAmount string   `json:"total_amount"`
	PeopleCount string   `json:"people_count"`
	People      []Person `json:"people"`
	Result      *Result  `json:"result,omitempty"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

// SplitResponse is returned by every SplitService procedure and by
// SessionService.Calculate. Computed is false when the input could not be used;
// Reason then says why and Result is empty.
type SplitResponse struct {
	Computed bool    `json:"computed"`
	Reason   string  `json:"reason,omitempty"`
	Result   *Result `json:"result,omitempty"`
}

// Amounts and counts are the raw strings typed into the form.

type ComputeEqualSplitRequest struct {
	TotalAmount string `json:"total_amount"`
	PeopleCount string `json:"people_count"`
}

type ComputeRandomSplitRequest struct {
	TotalAmount string   `json:"total_amount"`
	People      []Person `json:"people"`
}

type ComputeRegisteredSplitRequest struct {
	People []Person `json:"people"`
}

type CreateSessionRequest struct {
	Mode string `json:"mode"`
}

type CreateSessionResponse struct {
	Session *Session `json:"session"`
	// Token must be sent as a bearer token on every other SessionService call.
	Token string `json:"token"`
}

type GetSessionRequest struct {
	SessionID string `json:"session_id"`
}

type SessionResponse struct {
	Session *Session `json:"session"`
}

type SelectModeRequest struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
}

// SetFieldsRequest updates the numeric form fields. Nil fields are left alone.
type SetFieldsRequest struct {
	SessionID   string  `json:"session_id"`
	TotalAmount *string `json:"total_amount,omitempty"`
	PeopleCount *string `json:"people_count,omitempty"`
}

type AddPersonRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

type AddPersonResponse struct {
	PersonID string   `json:"person_id"`
	Session  *Session `json:"session"`
}

type RenamePersonRequest struct {
	SessionID string `json:"session_id"`
	PersonID  string `json:"person_id"`
	Name      string `json:"name"`
}

type RemovePersonRequest struct {
	SessionID string `json:"session_id"`
	PersonID  string `json:"person_id"`
}

type AddItemRequest struct {
	SessionID string  `json:"session_id"`
	PersonID  string  `json:"person_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
}

type AddItemResponse struct {
	ItemID  string   `json:"item_id"`
	Session *Session `json:"session"`
}

type UpdateItemRequest struct {
	SessionID string  `json:"session_id"`
	PersonID  string  `json:"person_id"`
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
}

type RemoveItemRequest struct {
	SessionID string `json:"session_id"`
	PersonID  string `json:"person_id"`
	ItemID    string `json:"item_id"`
}

type CalculateRequest struct {
	SessionID string `json:"session_id"`
}

type CalculateResponse struct {
	Split   *SplitResponse `json:"split"`
	Session *Session       `json:"session"`
}

type ResetSessionRequest struct {
	SessionID string `json:"session_id"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"session_id"`
}

type DeleteSessionResponse struct{}
