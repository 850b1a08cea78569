package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"mealcheck/internal/compliance"
)

// Notifier sends system notifications.
type Notifier struct {
	Enabled bool
}

// Send sends a system notification.
// On macOS, uses osascript to display notifications.
// On other platforms, this is a no-op.
func (n *Notifier) Send(title, message string) error {
	if n == nil || !n.Enabled {
		return nil
	}

	if runtime.GOOS != "darwin" {
		return nil
	}

	return sendMacOSNotification(title, message)
}

func sendMacOSNotification(title, message string) error {
	cmd := exec.Command("osascript", "-e", script(title, message))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func script(title, message string) string {
	title = strings.ReplaceAll(title, `"`, `\"`)
	message = strings.ReplaceAll(message, `"`, `\"`)
	return fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
}

// FormatCheck formats the notification for a finished check.
// ok is false when nothing needs attention.
func FormatCheck(s compliance.Summary) (title, message string, ok bool) {
	switch {
	case len(s.Over) > 0:
		title = "⚠️ Meal plan over a limit"
		message = "Over: " + strings.Join(s.Over, ", ")
		return title, message, true
	case s.Warn > 0:
		title = "📊 Meal plan needs balancing"
		message = fmt.Sprintf("%d nutrients are close to a limit or below target", s.Warn)
		return title, message, true
	default:
		return "", "", false
	}
}
