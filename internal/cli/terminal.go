package cli

import (
	"bytes"
	"io"
	"sync"

	"proctor-quiz-service/internal/session"
)

const (
	focusReportingOn  = "\x1b[?1004h"
	focusReportingOff = "\x1b[?1004l"
	clearScreen       = "\x1b[H\x1b[2J"
)

type inputKind int

const (
	inputKey inputKind = iota
	inputFocusIn
	inputFocusOut
	inputLeft
	inputRight
)

type inputEvent struct {
	kind inputKind
	key  byte
}

// inputDecoder splits raw terminal bytes into keys, arrow keys and xterm
// focus reports (ESC [ I / ESC [ O). Partial sequences are held until the
// next chunk.
type inputDecoder struct {
	pending []byte
}

func (d *inputDecoder) feed(p []byte) []inputEvent {
	buf := append(d.pending, p...)
	d.pending = nil

	var events []inputEvent
	for len(buf) > 0 {
		if buf[0] != 0x1b {
			events = append(events, inputEvent{kind: inputKey, key: buf[0]})
			buf = buf[1:]
			continue
		}
		if len(buf) < 3 {
			if len(buf) == 2 && buf[1] != '[' {
				events = append(events, inputEvent{kind: inputKey, key: 0x1b})
				buf = buf[1:]
				continue
			}
			d.pending = append([]byte(nil), buf...)
			break
		}
		if buf[1] != '[' {
			events = append(events, inputEvent{kind: inputKey, key: 0x1b})
			buf = buf[1:]
			continue
		}
		switch buf[2] {
		case 'I':
			events = append(events, inputEvent{kind: inputFocusIn})
		case 'O':
			events = append(events, inputEvent{kind: inputFocusOut})
		case 'C':
			events = append(events, inputEvent{kind: inputRight})
		case 'D':
			events = append(events, inputEvent{kind: inputLeft})
		}
		buf = buf[3:]
	}
	return events
}

// focusSource turns terminal focus reports into session events while a
// quiz is running.
type focusSource struct {
	mu   sync.Mutex
	emit func(session.Event)
}

func (f *focusSource) Subscribe(emit func(session.Event)) func() {
	f.mu.Lock()
	f.emit = emit
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.emit = nil
		f.mu.Unlock()
	}
}

func (f *focusSource) report(ev session.Event) {
	f.mu.Lock()
	emit := f.emit
	f.mu.Unlock()
	if emit != nil {
		emit(ev)
	}
}

// crlfWriter translates \n to \r\n for terminals in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
