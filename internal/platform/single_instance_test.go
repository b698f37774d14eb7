package platform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleInstanceGuard(t *testing.T) {
	name := "metronome-test-" + t.Name()

	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.NotEmpty(t, guard.Address())

	_, err = AcquireSingleInstance(name)
	assert.True(t, errors.Is(err, ErrAlreadyRunning))

	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	assert.Equal(t, guard.Address(), again.Address())
	require.NoError(t, again.Release())
}

func TestSecondLaunchAsksRunningInstanceToShow(t *testing.T) {
	name := "metronome-test-" + t.Name()

	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Release() })

	shown := make(chan struct{}, 1)
	guard.Listen(func() { shown <- struct{}{} })

	_, err = AcquireSingleInstance(name)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	select {
	case <-shown:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "running instance was not asked to show")
	}
}

func TestReleaseStopsListening(t *testing.T) {
	guard, err := AcquireSingleInstance("metronome-test-" + t.Name())
	require.NoError(t, err)

	guard.Listen(func() {})
	require.NoError(t, guard.Release())
	assert.NoError(t, guard.Release())
}

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("Metronome")
	assert.Equal(t, port, portFromName("Metronome"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestNilGuard(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
}
