// Package speech shells out to an external program to pronounce terms.
// It never synthesizes audio itself; the user points speech.command at
// whatever their platform provides (espeak-ng, say, festival).
package speech

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// speakTimeout bounds a single pronunciation so a hung player cannot
// pile up goroutines behind the study view.
const speakTimeout = 10 * time.Second

// Speaker pronounces a piece of text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// NewSpeaker returns a Speaker for the configured command.
// An empty command yields a NopSpeaker.
func NewSpeaker(command string) Speaker {
	if strings.TrimSpace(command) == "" {
		return NopSpeaker{}
	}
	return &CommandSpeaker{
		command: command,
		runner:  NewRunner(),
	}
}

// CommandSpeaker runs a configured command with the text as the final
// argument, e.g. "espeak-ng -v es" becomes `espeak-ng -v es <text>`.
type CommandSpeaker struct {
	command string
	runner  CommandRunner
}

// NewCommandSpeaker creates a CommandSpeaker with an explicit runner.
func NewCommandSpeaker(command string, runner CommandRunner) *CommandSpeaker {
	if runner == nil {
		runner = NewRunner()
	}
	return &CommandSpeaker{command: command, runner: runner}
}

// Speak runs the command with text appended. Output is discarded.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	parts := strings.Fields(s.command)
	if len(parts) == 0 {
		return nil
	}

	args := append(parts[1:], text)

	ctx, cancel := context.WithTimeout(ctx, speakTimeout)
	defer cancel()

	if _, err := s.runner.Run(ctx, parts[0], args...); err != nil {
		return fmt.Errorf("speech command %q: %w", parts[0], err)
	}
	return nil
}

// NopSpeaker silently ignores every request. Used when no speech
// command is configured.
type NopSpeaker struct{}

// Speak does nothing.
func (NopSpeaker) Speak(ctx context.Context, text string) error {
	return nil
}

var (
	_ Speaker = (*CommandSpeaker)(nil)
	_ Speaker = NopSpeaker{}
)
