// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// Frame types carried in the "type" discriminant of every sync frame.
const (
	// FrameTypeUpdate marks a versioned path update (inbound) or a write
	// request (outbound).
	FrameTypeUpdate = "u"

	// FrameTypeNotice marks a server-to-user text message.
	FrameTypeNotice = "s"
)

// Frame is the envelope of every inbound frame. Only the fields relevant to
// Type are populated; the rest stay at their zero values.
type Frame struct {
	// Type is the frame discriminant, one of FrameTypeUpdate or FrameTypeNotice.
	Type string `json:"type"`

	// Version is the server-assigned version of an update frame.
	Version int64 `json:"version,omitempty"`

	// Path is the slash-delimited location an update frame writes to.
	Path string `json:"path,omitempty"`

	// Data is the raw JSON value of an update frame.
	Data json.RawMessage `json:"data,omitempty"`

	// Message is the human-readable text of a notice frame.
	Message string `json:"message,omitempty"`
}

// UpdateFrame is a server-originated update: the value at Path became Data as
// of Version.
type UpdateFrame struct {
	Version int64           `json:"version"`
	Path    string          `json:"path"`
	Data    json.RawMessage `json:"data"`
}

// MarshalJSON encodes the frame together with its "u" type discriminant.
func (f UpdateFrame) MarshalJSON() ([]byte, error) {
	type plain UpdateFrame
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{
		Type:  FrameTypeUpdate,
		plain: plain(f),
	})
}

// NoticeFrame is a server-to-user text message.
type NoticeFrame struct {
	Message string `json:"message"`
}

// MarshalJSON encodes the notice together with its "s" type discriminant.
func (f NoticeFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{
		Type:    FrameTypeNotice,
		Message: f.Message,
	})
}

// WriteFrame is a client write request. It carries no version: the server is
// authoritative on ordering and assigns one when it echoes the update back.
type WriteFrame struct {
	Type  string `json:"type"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// NewWriteFrame builds an outbound write request for path.
func NewWriteFrame(path string, value any) WriteFrame {
	return WriteFrame{Type: FrameTypeUpdate, Path: path, Value: value}
}

// IncomingWrite is the server-side decoding of a [WriteFrame]; the value is
// kept raw so it can be stored and rebroadcast untouched.
type IncomingWrite struct {
	Type  string          `json:"type"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}
