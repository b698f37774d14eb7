package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findItem(t *testing.T, menu *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	require.Failf(t, "menu item not found", "label %q", label)
	return nil
}

func TestMenuItemsInvokeCallbacks(t *testing.T) {
	calls := map[string]int{}
	record := func(name string) func() {
		return func() { calls[name]++ }
	}
	manager := New(nil, Callbacks{
		OnShow:        record("show"),
		OnToggle:      record("toggle"),
		OnReset:       record("reset"),
		OnIncrease:    record("increase"),
		OnDecrease:    record("decrease"),
		OnPreferences: record("preferences"),
		OnQuit:        record("quit"),
	})

	menu := manager.Menu()
	for _, label := range []string{"Show metronome", "Start", "Reset", "Tempo +5", "Tempo -5", "Preferences", "Quit"} {
		findItem(t, menu, label).Action()
	}

	assert.Equal(t, map[string]int{
		"show": 1, "toggle": 1, "reset": 1, "increase": 1,
		"decrease": 1, "preferences": 1, "quit": 1,
	}, calls)
}

func TestSetActiveAndStatus(t *testing.T) {
	manager := New(nil, Callbacks{})

	manager.SetActive(true)
	findItem(t, manager.Menu(), "Stop")

	manager.SetStatus("120 BPM, elapsed 0:04")
	status := manager.Menu().Items[0]
	assert.Equal(t, "Status: 120 BPM, elapsed 0:04", status.Label)
	assert.True(t, status.Disabled)

	manager.SetActive(false)
	findItem(t, manager.Menu(), "Start")
}

func TestMissingCallbacksAreIgnored(t *testing.T) {
	manager := New(nil, Callbacks{})
	assert.NotPanics(t, func() {
		for _, item := range manager.Menu().Items {
			if item.Action != nil {
				item.Action()
			}
		}
	})
}
