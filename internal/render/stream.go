package render

import (
	"context"
	"io"
	"strings"
	"time"
)

// Pacing sets the delays used when streaming an answer
type Pacing struct {
	Line time.Duration // after each table line
	Word time.Duration // after each prose word
	Icon time.Duration // after words carrying chart or trend glyphs
}

// TypingPacing mimics a typed-out answer in the terminal
var TypingPacing = Pacing{
	Line: 50 * time.Millisecond,
	Word: 30 * time.Millisecond,
	Icon: 20 * time.Millisecond,
}

// Stream writes text to w, tables line by line and prose word by word.
// It stops early when ctx is cancelled.
func Stream(ctx context.Context, w io.Writer, text string, p Pacing) error {
	for _, line := range strings.Split(text, "\n") {
		if IsTableLine(line) {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
			if err := pause(ctx, p.Line); err != nil {
				return err
			}
			continue
		}

		for i, word := range strings.Fields(line) {
			prefix := ""
			if i > 0 && !strings.HasPrefix(word, "▇") {
				prefix = " "
			}
			if _, err := io.WriteString(w, prefix+word); err != nil {
				return err
			}
			delay := p.Word
			if strings.ContainsAny(word, "▇→↑↓") {
				delay = p.Icon
			}
			if err := pause(ctx, delay); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Lines splits an answer into the frames sent over a streaming connection
func Lines(text string) []string {
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
