package cli

import (
	"bytes"
	"testing"

	"proctor-quiz-service/internal/session"
)

func TestInputDecoderFocusAndArrows(t *testing.T) {
	d := &inputDecoder{}
	events := d.feed([]byte("1\x1b[O\x1b[Is\x1b[C\x1b[D"))

	want := []inputEvent{
		{kind: inputKey, key: '1'},
		{kind: inputFocusOut},
		{kind: inputFocusIn},
		{kind: inputKey, key: 's'},
		{kind: inputRight},
		{kind: inputLeft},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: want %+v got %+v", i, want[i], events[i])
		}
	}
}

func TestInputDecoderHoldsSplitSequence(t *testing.T) {
	d := &inputDecoder{}
	if events := d.feed([]byte("\x1b[")); len(events) != 0 {
		t.Fatalf("partial sequence should be held, got %+v", events)
	}
	events := d.feed([]byte("Oq"))
	if len(events) != 2 || events[0].kind != inputFocusOut || events[1].key != 'q' {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestInputDecoderLoneEscape(t *testing.T) {
	d := &inputDecoder{}
	events := d.feed([]byte("\x1bq"))
	if len(events) != 2 || events[0].key != 0x1b || events[1].key != 'q' {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestKeyEventPerStep(t *testing.T) {
	opts := playOptions{name: "Ada"}
	landing := session.New(nil, false)
	quiz := session.State{Step: session.StepQuiz}
	result := session.State{Step: session.StepResult}

	if _, ev := keyEvent(landing, inputEvent{kind: inputKey, key: '\r'}, opts); ev != (session.Start{Name: "Ada"}) {
		t.Fatalf("enter on landing should start, got %#v", ev)
	}
	if _, ev := keyEvent(quiz, inputEvent{kind: inputKey, key: '3'}, opts); ev != (session.Select{Option: 2}) {
		t.Fatalf("digit should select, got %#v", ev)
	}
	if _, ev := keyEvent(quiz, inputEvent{kind: inputRight}, opts); ev != (session.Next{}) {
		t.Fatalf("right arrow should advance, got %#v", ev)
	}
	if _, ev := keyEvent(quiz, inputEvent{kind: inputKey, key: 'q'}, opts); ev != nil {
		t.Fatalf("q must not quit mid-quiz, got %#v", ev)
	}
	if _, ev := keyEvent(result, inputEvent{kind: inputKey, key: '\n'}, opts); ev != (session.Restart{}) {
		t.Fatalf("enter on result should restart, got %#v", ev)
	}
	if quit, _ := keyEvent(quiz, inputEvent{kind: inputKey, key: keyCtrlC}, opts); !quit {
		t.Fatalf("ctrl-c should quit")
	}
}

func TestFocusSourceDropsAfterCancel(t *testing.T) {
	src := &focusSource{}
	var got []session.Event
	cancel := src.Subscribe(func(ev session.Event) { got = append(got, ev) })
	src.report(session.FocusLost{Signal: session.SignalBlur})
	cancel()
	src.report(session.FocusRegained{})

	if len(got) != 1 {
		t.Fatalf("expected one delivered event, got %+v", got)
	}
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := crlfWriter{w: &buf}.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("write: n=%d err=%v", n, err)
	}
	if buf.String() != "a\r\nb\r\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
