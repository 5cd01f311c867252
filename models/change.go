package models

import (
	"encoding/json"
	"time"
)

// Change is one entry of the server's versioned change log. Replaying every
// change with a version greater than a client's cursor brings that client up
// to date.
type Change struct {
	// Version is the server version the change was stamped with. Unique and
	// strictly increasing within one log.
	Version int64 `json:"version"`

	// Path is the slash-delimited location that was written.
	Path string `json:"path"`

	// Data is the raw JSON value written at Path.
	Data json.RawMessage `json:"data"`

	// CreatedAt is when the change was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table associated with Change.
func (c Change) TableName() string {
	return "changes"
}

// Frame converts the change into the update frame clients receive.
func (c Change) Frame() UpdateFrame {
	return UpdateFrame{Version: c.Version, Path: c.Path, Data: c.Data}
}
