package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// TerminalChannel prints notifications to the terminal. It stands in for
// the device notification tray when the monitor runs in the foreground.
type TerminalChannel struct {
	out          io.Writer
	colorEnabled bool
}

// NewTerminalChannel creates a terminal notification channel.
func NewTerminalChannel(colorEnabled bool) *TerminalChannel {
	return &TerminalChannel{
		out:          os.Stdout,
		colorEnabled: colorEnabled,
	}
}

func (t *TerminalChannel) Name() string { return "terminal" }

func (t *TerminalChannel) IsEnabled() bool { return true }

func (t *TerminalChannel) Send(_ context.Context, n Notification) error {
	icon := "•"
	color := ""
	reset := ""
	switch n.Type {
	case NotificationAlert:
		icon = "🔔"
		color, reset = "\033[33m", "\033[0m"
	case NotificationError:
		icon = "✗"
		color, reset = "\033[31m", "\033[0m"
	}
	if !t.colorEnabled {
		color, reset = "", ""
	}

	_, err := fmt.Fprintf(t.out, "%s%s %s [%s]%s\n%s\n",
		color, icon, n.Title, n.Timestamp.Format("15:04:05"), reset, n.Message)
	return err
}
