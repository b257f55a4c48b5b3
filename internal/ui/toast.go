package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastInfo
	toastError
)

// toast is a transient notification. seq identifies it so that an expiry
// timer for an older toast does not dismiss a newer one.
type toast struct {
	kind        toastKind
	title       string
	description string
	seq         int
}

type toastExpiredMsg struct {
	seq int
}

// notify replaces the current toast and schedules its expiry.
func (m *model) notify(kind toastKind, title, description string) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.toast = &toast{kind: kind, title: title, description: description, seq: seq}
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *model) expireToast(seq int) {
	if m.toast != nil && m.toast.seq == seq {
		m.toast = nil
	}
}
