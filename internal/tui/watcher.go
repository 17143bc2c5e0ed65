package tui

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type sourceChangedMsg struct {
	path string
}

// watchSource replaces the active watcher with one on path and returns a
// command that delivers the next change event. Watch failures are logged
// and tolerated: the editor works fine without change notifications.
func (m *model) watchSource(path string) tea.Cmd {
	m.closeWatcher()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[watch] watcher unavailable: %v", err)
		return nil
	}
	if err := w.Add(path); err != nil {
		log.Printf("[watch] cannot watch %s: %v", path, err)
		w.Close()
		return nil
	}
	m.watcher = w
	return waitForSourceChange(w)
}

func (m *model) closeWatcher() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
}

func waitForSourceChange(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					return sourceChangedMsg{path: ev.Name}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}
