// Package ui provides the system tray menu: playback transport controls,
// queue status, and indexing controls.
package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
	"github.com/trimdeck/trimdeck-agent/internal/library"
	"github.com/trimdeck/trimdeck-agent/internal/playback"
)

type Tray struct {
	queue  *playback.Manager
	queueM *sync.Mutex
	runner *library.Runner
	logger *slog.Logger

	statusItem *systray.MenuItem
	trackItem  *systray.MenuItem
	playItem   *systray.MenuItem
	nextItem   *systray.MenuItem
	pauseItem  *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Queue *playback.Manager
	// QueueMu is the same mutex the API server uses for the queue.
	QueueMu *sync.Mutex
	Runner  *library.Runner
	Logger  *slog.Logger
	OnQuit  func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		queue:  cfg.Queue,
		queueM: cfg.QueueMu,
		runner: cfg.Runner,
		logger: cfg.Logger,
		onQuit: cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Trimdeck")
	systray.SetTooltip("Trimdeck Agent")

	t.statusItem = systray.AddMenuItem("Playback: Empty", "Playback state")
	t.statusItem.Disable()

	t.trackItem = systray.AddMenuItem("No item", "Current queue item")
	t.trackItem.Disable()

	systray.AddSeparator()

	t.playItem = systray.AddMenuItem("Play", "Start or pause playback")
	t.nextItem = systray.AddMenuItem("Next", "Skip to the next item")

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem("Pause Indexing", "Pause library scans")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Trimdeck Agent")

	go func() {
		for {
			select {
			case <-t.playItem.ClickedCh:
				t.togglePlayback()
			case <-t.nextItem.ClickedCh:
				t.skipNext()
			case <-t.pauseItem.ClickedCh:
				t.toggleIndexing()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) togglePlayback() {
	t.queueM.Lock()
	defer t.queueM.Unlock()

	switch t.queue.State() {
	case playback.StatePlaying:
		t.queue.Pause()
	default:
		t.queue.Start()
	}
	t.refreshLocked()
}

func (t *Tray) skipNext() {
	t.queueM.Lock()
	defer t.queueM.Unlock()

	t.queue.PlayNext()
	t.refreshLocked()
}

func (t *Tray) toggleIndexing() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner == nil {
		return
	}

	if t.runner.IsPaused() {
		t.runner.Resume()
		t.pauseItem.SetTitle("Pause Indexing")
	} else {
		t.runner.Pause()
		t.pauseItem.SetTitle("Resume Indexing")
	}
}

// Refresh re-renders the playback items from queue state. Safe to call from
// the managers' change listeners.
func (t *Tray) Refresh() {
	t.queueM.Lock()
	defer t.queueM.Unlock()
	t.refreshLocked()
}

func (t *Tray) refreshLocked() {
	if t.statusItem == nil {
		return
	}

	state := t.queue.State()
	t.statusItem.SetTitle("Playback: " + titleCase(state.String()))

	if cur := t.queue.Current(); cur != nil {
		name := cur.Title
		if name == "" {
			name = cur.Path
		}
		t.trackItem.SetTitle(fmt.Sprintf("%d/%d  %s", t.queue.CurrentIndex()+1, t.queue.Len(), name))
	} else {
		t.trackItem.SetTitle("No item")
	}

	if state == playback.StatePlaying {
		t.playItem.SetTitle("Pause")
	} else {
		t.playItem.SetTitle("Play")
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
