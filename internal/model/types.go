package model

import "time"

// User represents an owner principal. Saved searches reference owners by id
// only; no back-references are held.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	DisplayName  *string   `json:"displayName,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// SavedSearch is one named, reorderable search expression belonging to a
// single owner. Position is maintained by the position engine and is dense
// per owner: for n records the positions are exactly {0..n-1}.
type SavedSearch struct {
	SearchID     string    `json:"searchId"`
	OwnerID      string    `json:"ownerId"`
	Name         string    `json:"name"`
	Query        string    `json:"query"`
	Position     int       `json:"position"`
	CreationTime time.Time `json:"creationTime"`
}

// UpdateSearchRequest carries a partial update for a saved search. Nil fields
// are left unchanged. Position, when set, must be in [0, n-1] for the owner's
// current record count n.
type UpdateSearchRequest struct {
	OwnerID  string
	SearchID string
	Name     *string
	Query    *string
	Position *int
}
