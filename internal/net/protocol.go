package net

import "SketchBoard/internal/state"

// Message types exchanged with the browser client.
const (
	// client -> server
	MsgDown     = "down"
	MsgMove     = "move"
	MsgUp       = "up"
	MsgUndo     = "undo"
	MsgRedo     = "redo"
	MsgWipe     = "clear"
	MsgSettings = "settings"
	MsgExport   = "export"
	MsgResize   = "resize"

	// server -> client
	MsgHello    = "hello"
	MsgFrame    = "frame"
	MsgStatus   = "status"
	MsgDownload = "download"
	MsgError    = "error"
)

// Message is the single JSON envelope used in both directions.
type Message struct {
	Type string `json:"type"`

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	Color       string  `json:"color,omitempty"`
	PenWidth    float64 `json:"penWidth,omitempty"`
	EraserWidth float64 `json:"eraserWidth,omitempty"`
	Erase       *bool   `json:"erase,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Filename string        `json:"filename,omitempty"`
	MIME     string        `json:"mime,omitempty"`
	Data     string        `json:"data,omitempty"` // base64
	Status   *state.Status `json:"status,omitempty"`
	Session  string        `json:"session,omitempty"`
	Error    string        `json:"error,omitempty"`
}
