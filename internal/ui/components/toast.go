// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/diffly-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast (cyan color)
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast (rose/red color)
	ToastKindError
	// ToastKindWarning is a warning toast (amber color)
	ToastKindWarning
	// ToastKindSuccess is a success toast (emerald color)
	ToastKindSuccess
)

const (
	// DefaultToastDuration is the auto-dismiss duration for status and success toasts.
	DefaultToastDuration = 4 * time.Second
	// ErrorToastDuration is longer so failures can be read.
	ErrorToastDuration = 8 * time.Second
	// WarningToastDuration is the auto-dismiss duration for warnings.
	WarningToastDuration = 6 * time.Second
	// MaxToasts is the number of toasts kept at once.
	MaxToasts = 4
	// ToastTickInterval is how often expired toasts are removed.
	ToastTickInterval = 250 * time.Millisecond
)

// Toast is a non-blocking notice that dismisses itself.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// durationFor returns the display duration for a kind.
func durationFor(kind ToastKind) time.Duration {
	switch kind {
	case ToastKindError:
		return ErrorToastDuration
	case ToastKindWarning:
		return WarningToastDuration
	default:
		return DefaultToastDuration
	}
}

// IsExpired reports whether the toast should be dismissed at now.
func (t Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// TimeRemaining returns how long the toast stays visible after now.
func (t Toast) TimeRemaining(now time.Time) time.Duration {
	remaining := t.Duration - now.Sub(t.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts, newest first.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
	now    func() time.Time
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, now: time.Now}
}

// Add shows a message and returns its toast ID.
func (m *ToastManager) Add(kind ToastKind, message string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: m.now(),
		Duration:  durationFor(kind),
	}
	m.nextID++

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > MaxToasts {
		m.toasts = m.toasts[:MaxToasts]
	}
	return t.ID
}

// AddError shows an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.Add(ToastKindError, message)
}

// AddWarning shows a warning toast.
func (m *ToastManager) AddWarning(message string) int {
	return m.Add(ToastKindWarning, message)
}

// AddStatus shows an informational toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.Add(ToastKindStatus, message)
}

// AddSuccess shows a success toast.
func (m *ToastManager) AddSuccess(message string) int {
	return m.Add(ToastKindSuccess, message)
}

// Dismiss removes the newest toast. It reports whether one was removed.
func (m *ToastManager) Dismiss() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) == 0 {
		return false
	}
	m.toasts = m.toasts[1:]
	return true
}

// Tick drops expired toasts and returns the remaining ones.
func (m *ToastManager) Tick() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return m.snapshot()
}

// Toasts returns a copy of the visible toasts.
func (m *ToastManager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *ToastManager) snapshot() []Toast {
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Len returns the number of visible toasts.
func (m *ToastManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// Clear removes every toast.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically to expire toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next toast tick.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(ToastTickInterval, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToast renders a single toast for a screen of the given width.
func RenderToast(t Toast, width int, now time.Time) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var color lipgloss.AdaptiveColor
	var icon string
	switch t.Kind {
	case ToastKindError:
		color, icon = styles.Rose, styles.StatusIndicators.Error
	case ToastKindWarning:
		color, icon = styles.Amber, styles.StatusIndicators.Warning
	case ToastKindSuccess:
		color, icon = styles.Emerald, styles.StatusIndicators.Success
	default:
		color, icon = styles.Cyan, styles.StatusIndicators.Info
	}

	iconStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	messageStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	content := iconStyle.Render(icon+" ") + messageStyle.Render(wrapToastText(t.Message, maxWidth-8))

	hint := "[x] dismiss"
	if secs := int(t.TimeRemaining(now).Seconds()); secs > 0 {
		hint += "  " + strconv.Itoa(secs) + "s"
	}
	content += "\n" + hintStyle.Render(hint)

	box := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		MaxWidth(maxWidth)

	return box.Render(content)
}

// RenderToastStack renders toasts stacked vertically, right aligned.
func RenderToastStack(toasts []Toast, width int, now time.Time) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, RenderToast(t, width, now))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return stack
}

// wrapToastText wraps text on word boundaries at maxWidth columns.
func wrapToastText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	for _, word := range words {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case line.Len()+1+len(word) <= maxWidth:
			line.WriteString(" ")
			line.WriteString(word)
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}
