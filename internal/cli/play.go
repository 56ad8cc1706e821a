package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"proctor-quiz-service/internal/client"
	"proctor-quiz-service/internal/logger"
	"proctor-quiz-service/internal/session"
)

const keyCtrlC = 0x03

type playOptions struct {
	name    string
	email   string
	server  string
	logFile string
}

// NewPlayCmd runs a proctored quiz session in the terminal.
func NewPlayCmd() *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "candidate name (prompted when empty)")
	cmd.Flags().StringVar(&opts.email, "email", "", "candidate email")
	cmd.Flags().StringVar(&opts.server, "server", serverFromEnv(), "quiz server base URL")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write session debug logs to this file")
	return cmd
}

func serverFromEnv() string {
	if v := os.Getenv("QUIZ_SERVER"); v != "" {
		return v
	}
	return "http://127.0.0.1:5000"
}

func runPlay(ctx context.Context, opts playOptions) error {
	log := zerolog.Nop()
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = logger.Setup(f, "debug", "json")
	}

	api := client.NewHTTPClient(opts.server, nil)
	questions, hidden, err := api.Questions(ctx)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	in := bufio.NewReader(os.Stdin)
	if strings.TrimSpace(opts.name) == "" {
		fmt.Print("Name: ")
		line, _ := in.ReadString('\n')
		opts.name = strings.TrimSpace(line)
		if opts.email == "" {
			fmt.Print("Email (optional): ")
			line, _ = in.ReadString('\n')
			opts.email = strings.TrimSpace(line)
		}
	}

	var out io.Writer = os.Stdout
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		prev, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(fd, prev)
		out = crlfWriter{w: os.Stdout}
		_, _ = io.WriteString(os.Stdout, focusReportingOn)
		defer io.WriteString(os.Stdout, focusReportingOff)
	}

	focus := &focusSource{}
	ctl := session.NewController(session.New(questions, hidden), api,
		session.WithSignalSources(focus),
		session.WithOnChange(func(s session.State) { renderState(out, s) }),
		session.WithOnError(func(err error) { fmt.Fprintf(out, "\nerror: %v\n", err) }),
		session.WithControllerLogger(log),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := make(chan []byte)
	go readInput(in, input)

	renderState(out, ctl.State())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctl.Run(gctx); err != nil && gctx.Err() == nil {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		decoder := &inputDecoder{}
		for {
			select {
			case <-gctx.Done():
				return nil
			case chunk, ok := <-input:
				if !ok {
					return nil
				}
				for _, ev := range decoder.feed(chunk) {
					if ev.kind == inputFocusIn {
						focus.report(session.FocusRegained{})
						continue
					}
					if ev.kind == inputFocusOut {
						focus.report(session.FocusLost{Signal: session.SignalBlur})
						continue
					}
					quit, event := keyEvent(ctl.State(), ev, opts)
					if quit {
						return nil
					}
					if event != nil {
						ctl.Dispatch(event)
					}
				}
			}
		}
	})
	return g.Wait()
}

func readInput(r io.Reader, out chan<- []byte) {
	defer close(out)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out <- append([]byte(nil), buf[:n]...)
		}
		if err != nil {
			return
		}
	}
}

// keyEvent maps a key press to a session event for the current screen.
func keyEvent(s session.State, ev inputEvent, opts playOptions) (quit bool, event session.Event) {
	if ev.kind == inputKey && ev.key == keyCtrlC {
		return true, nil
	}
	enter := ev.kind == inputKey && (ev.key == '\r' || ev.key == '\n')

	switch s.Step {
	case session.StepLanding:
		switch {
		case enter:
			return false, session.Start{Name: opts.name, Email: opts.email}
		case ev.key == 'a':
			return false, session.OpenAdmin{}
		case ev.key == 'q':
			return true, nil
		}
	case session.StepQuiz:
		switch {
		case ev.kind == inputRight || ev.key == 'n':
			return false, session.Next{}
		case ev.kind == inputLeft || ev.key == 'p':
			return false, session.Prev{}
		case ev.key == 's':
			return false, session.Submit{}
		case ev.kind == inputKey && ev.key >= '1' && ev.key <= '9':
			return false, session.Select{Option: int(ev.key - '1')}
		}
	case session.StepResult:
		switch {
		case ev.key == 'r':
			return false, session.Review{}
		case enter:
			return false, session.Restart{}
		case ev.key == 'q':
			return true, nil
		}
	case session.StepReview:
		if ev.key == 'b' {
			return false, session.Back{}
		}
	case session.StepAdmin:
		switch ev.key {
		case 'a':
			return false, session.OpenAdmin{}
		case 'b':
			return false, session.Back{}
		}
	}
	return false, nil
}
