// Package console drives a wizard from a line-oriented terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"property-wizard/internal/domain"
	"property-wizard/internal/wizard"
)

// SkipCommand asks the wizard to skip the current question.
const SkipCommand = ":skip"

// ErrAborted is returned when input ends before the wizard completes.
var ErrAborted = errors.New("console: input closed before the wizard completed")

// Run starts w and feeds it one line of in per turn, printing every new
// transcript entry to out. It returns the final state.
func Run(ctx context.Context, w *wizard.Wizard, in io.Reader, out io.Writer) (wizard.State, error) {
	state := w.Start()
	printed, err := printEntries(out, state.Transcript, 0)
	if err != nil {
		return state, err
	}

	scanner := bufio.NewScanner(in)
	for !state.Completed {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return state, fmt.Errorf("console: read input: %w", err)
			}
			return state, ErrAborted
		}
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), SkipCommand) {
			state = w.SkipCurrent()
		} else {
			state = w.Submit(line)
		}
		// The user's own line is already on screen.
		printed = skipUserEntry(state.Transcript, printed)
		if printed, err = printEntries(out, state.Transcript, printed); err != nil {
			return state, err
		}
	}
	return state, nil
}

func skipUserEntry(transcript []domain.TranscriptEntry, from int) int {
	if from < len(transcript) && transcript[from].Role == domain.RoleUser {
		return from + 1
	}
	return from
}

func printEntries(out io.Writer, transcript []domain.TranscriptEntry, from int) (int, error) {
	for i := from; i < len(transcript); i++ {
		if _, err := fmt.Fprintln(out, format(transcript[i])); err != nil {
			return i, fmt.Errorf("console: write output: %w", err)
		}
	}
	return len(transcript), nil
}

func format(e domain.TranscriptEntry) string {
	switch e.Role {
	case domain.RoleSummary:
		return "\n" + e.Text
	case domain.RoleUser:
		return "> " + e.Text
	default:
		return e.Text
	}
}
