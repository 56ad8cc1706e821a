package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"proctor-quiz-service/internal/domain"
	"proctor-quiz-service/internal/session"
)

func renderState(w io.Writer, s session.State) {
	var b strings.Builder
	switch s.Step {
	case session.StepLanding:
		fmt.Fprintf(&b, "Proctored quiz: %d questions\n\n", s.Total())
		fmt.Fprintln(&b, "Leaving this terminal window during the quiz is recorded.")
		fmt.Fprintln(&b, "[enter] start   [a] results   [q] quit")

	case session.StepQuiz:
		q, _ := s.Question()
		fmt.Fprintf(&b, "%s   question %d/%d   answered %d   time %s   switches %d\n\n",
			s.Candidate.Name, s.Current+1, s.Total(), s.Answered(), formatClock(s.Elapsed), s.TabSwitches)
		fmt.Fprintf(&b, "%s\n\n", q.Prompt)
		selected, answered := s.Selected(s.Current)
		for i, opt := range q.Options {
			marker := " "
			if answered && selected == i {
				marker = "x"
			}
			fmt.Fprintf(&b, "  [%s] %d. %s\n", marker, i+1, opt)
		}
		fmt.Fprintln(&b, "\n[1-9] answer   [p/n or arrows] move   [s] submit")
		if s.Alert {
			fmt.Fprintln(&b, "\n!! Focus loss detected. This has been recorded.")
		}

	case session.StepLoading:
		fmt.Fprintln(&b, "Submitting...")

	case session.StepResult:
		fmt.Fprintf(&b, "Thanks, %s.\n\n", s.Candidate.Name)
		fmt.Fprintf(&b, "Score:        %d/%d\n", s.Score(), s.Total())
		fmt.Fprintf(&b, "Time taken:   %s\n", formatClock(s.Elapsed))
		fmt.Fprintf(&b, "Tab switches: %d\n", s.TabSwitches)
		if s.Receipt != nil {
			fmt.Fprintf(&b, "Reference:    %d\n", s.Receipt.ID)
		}
		fmt.Fprintln(&b, "\n[r] review answers   [enter] restart   [q] quit")

	case session.StepReview:
		for i, q := range s.Questions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q.Prompt)
			if opt, ok := s.Selected(i); ok {
				fmt.Fprintf(&b, "   your answer: %s\n", q.Options[opt])
			} else {
				fmt.Fprintln(&b, "   your answer: -")
			}
			if !s.AnswersHidden {
				fmt.Fprintf(&b, "   correct:     %s\n", q.Options[q.Answer])
			}
		}
		fmt.Fprintln(&b, "\n[b] back")

	case session.StepAdmin:
		writeResults(&b, s.Results)
		fmt.Fprintln(&b, "\n[a] refresh   [b] back")
	}

	if s.LastError != "" {
		fmt.Fprintf(&b, "\nerror: %s\n", s.LastError)
	}
	_, _ = io.WriteString(w, clearScreen+b.String())
}

func writeResults(w io.Writer, results []domain.Submission) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSCORE\tTAB SWITCHES\tTIME\tSUBMITTED")
	for _, r := range results {
		fmt.Fprintln(tw, resultRow(r))
	}
	_ = tw.Flush()
}

func resultRow(r domain.Submission) string {
	email := r.Email
	if email == "" {
		email = "-"
	}
	return fmt.Sprintf("%d\t%s\t%s\t%d\t%d\t%s\t%s",
		r.ID, r.Name, email, r.Score, r.TabSwitches,
		formatClock(r.TimeTaken), r.Timestamp.Local().Format(time.DateTime))
}

// formatClock renders seconds as m:ss for on-screen timers.
func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
