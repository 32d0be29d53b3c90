// ABOUTME: Notification delivery for daily mood reminders.
// ABOUTME: Writes a styled reminder line and terminal bell to a writer.
package reminders

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WriterNotifier prints reminders to a terminal or log stream.
type WriterNotifier struct {
	mu   sync.Mutex
	out  io.Writer
	bell bool
	now  func() time.Time
}

// NewWriterNotifier creates a notifier writing to out. When bell is set a
// BEL character precedes each reminder.
func NewWriterNotifier(out io.Writer, bell bool) *WriterNotifier {
	return &WriterNotifier{out: out, bell: bell, now: time.Now}
}

// Notify writes one reminder line.
func (n *WriterNotifier) Notify(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	prefix := ""
	if n.bell {
		prefix = "\a"
	}
	_, err := fmt.Fprintf(n.out, "%s%s %s %s\n",
		prefix,
		timeStyle.Render(n.now().Format("15:04")),
		titleStyle.Render(title),
		body,
	)
	return err
}
