package net

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"SketchBoard/internal/config"
	"SketchBoard/internal/export"
	"SketchBoard/internal/raster"
	"SketchBoard/internal/state"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 4096
)

// session is one browser tab and the private board it draws on.
type session struct {
	id         string
	conn       *websocket.Conn
	surface    *raster.Surface
	board      *state.Board
	exportName string
	log        *slog.Logger

	dirty chan struct{}
	out   chan Message
	done  chan struct{}
}

func newSession(conn *websocket.Conn, cfg config.Config, logger *slog.Logger) (*session, error) {
	surface, err := raster.New(cfg.Width, cfg.Height, state.Background)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	logger = logger.With("session", id)
	s := &session{
		id:         id,
		conn:       conn,
		surface:    surface,
		board:      state.NewBoard(surface, cfg.Settings(), cfg.MaxHistory, logger),
		exportName: cfg.ExportName,
		log:        logger,
		dirty:      make(chan struct{}, 1),
		out:        make(chan Message, 16),
		done:       make(chan struct{}),
	}
	surface.SetLogger(logger.With("component", "surface"))
	surface.OnChange = s.markDirty
	s.board.History.OnChange = func(state.Status) { s.markDirty() }
	s.board.History.OnRender = func(e state.Entry, err error) {
		if err != nil && !errors.Is(err, state.ErrSuperseded) {
			s.send(Message{Type: MsgError, Error: err.Error()})
		}
	}
	return s, nil
}

// markDirty schedules a frame push. Calls coalesce while one is pending.
func (s *session) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *session) send(m Message) {
	select {
	case s.out <- m:
	case <-s.done:
	default:
		s.log.Warn("dropping message for slow client", "type", m.Type)
	}
}

func (s *session) hello() Message {
	st := s.board.History.Status()
	w, h := s.surface.Size()
	erasing := s.board.Settings.Erasing()
	return Message{
		Type:        MsgHello,
		Session:     s.id,
		Width:       w,
		Height:      h,
		Color:       state.ColorHex(s.board.Settings.PenColor()),
		PenWidth:    s.board.Settings.PenWidth(),
		EraserWidth: s.board.Settings.EraserWidth(),
		Erase:       &erasing,
		Filename:    s.exportName,
		Status:      &st,
	}
}

// readLoop applies client messages to the board until the connection drops.
func (s *session) readLoop() error {
	s.conn.SetReadLimit(maxMessage)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var m Message
		if err := s.conn.ReadJSON(&m); err != nil {
			return err
		}
		if err := s.handle(m); err != nil {
			s.log.Debug("message rejected", "type", m.Type, "error", err)
			s.send(Message{Type: MsgError, Error: err.Error()})
		}
	}
}

func (s *session) handle(m Message) error {
	b := s.board
	p := state.Point{X: m.X, Y: m.Y}
	switch m.Type {
	case MsgDown:
		return b.Recorder.PointerDown(p)
	case MsgMove:
		b.Recorder.PointerMove(p)
	case MsgUp:
		return b.Recorder.PointerUp(p)
	case MsgUndo:
		b.History.Undo()
	case MsgRedo:
		b.History.Redo()
	case MsgWipe:
		return b.Wipe()
	case MsgSettings:
		return s.applySettings(m)
	case MsgExport:
		return s.export(m.Filename)
	case MsgResize:
		if err := s.surface.Resize(m.Width, m.Height); err != nil {
			return err
		}
		b.Refit()
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
	return nil
}

func (s *session) applySettings(m Message) error {
	st := s.board.Settings
	if m.Color != "" {
		c, err := state.ParseColor(m.Color)
		if err != nil {
			return err
		}
		st.SetPenColor(c)
	}
	if m.PenWidth > 0 {
		st.SetPenWidth(m.PenWidth)
	}
	if m.EraserWidth > 0 {
		st.SetEraserWidth(m.EraserWidth)
	}
	if m.Erase != nil {
		st.SetErasing(*m.Erase)
	}
	return nil
}

func (s *session) export(filename string) error {
	if filename == "" {
		filename = s.exportName
	}
	f, err := export.FormatFor(filename)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.Encode(&buf, s.surface.Image(), f); err != nil {
		return err
	}
	s.log.Info("exported board", "file", filename, "bytes", buf.Len())
	s.send(Message{
		Type:     MsgDownload,
		Filename: filename,
		MIME:     f.MIMEType(),
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	return nil
}

// writeLoop is the only goroutine writing to the connection.
func (s *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case m := <-s.out:
			if err := s.write(m); err != nil {
				s.log.Debug("write failed", "error", err)
				return
			}
		case <-s.dirty:
			if err := s.pushFrame(); err != nil {
				s.log.Debug("frame push failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) pushFrame() error {
	png, err := s.surface.Snapshot()
	if err != nil {
		return err
	}
	st := s.board.History.Status()
	if err := s.write(Message{Type: MsgFrame, Data: base64.StdEncoding.EncodeToString(png)}); err != nil {
		return err
	}
	return s.write(Message{Type: MsgStatus, Status: &st})
}

func (s *session) write(m Message) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(m)
}
