package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/orgclips/internal/config"
	"github.com/mrlokans/orgclips/internal/entities"
)

type memoryState struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryState() *memoryState {
	return &memoryState{values: map[string]string{}}
}

func (m *memoryState) GetSettingValue(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func (m *memoryState) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func writeClippings(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatchScheduler_RunsOnlyOnChange(t *testing.T) {
	dir := t.TempDir()
	clippings := filepath.Join(dir, "My Clippings.txt")
	writeClippings(t, clippings, "first export")

	state := newMemoryState()
	runs := 0
	s := NewWatchScheduler(config.Watch{}, state, func(ctx context.Context) (string, error) {
		runs++
		return "Imported 1 book", nil
	}, filepath.Join(dir, "absent.txt"), clippings)

	assert.Equal(t, StatusSuccess, s.RunNow(context.Background()))
	assert.Equal(t, 1, runs)
	assert.NotEmpty(t, state.GetSettingValue(entities.SettingKeyWatchClippingsDigest))
	assert.Contains(t, state.GetSettingValue(entities.SettingKeyWatchLastMessage), "Imported 1 book")

	assert.Equal(t, StatusUnchanged, s.RunNow(context.Background()))
	assert.Equal(t, 1, runs)

	writeClippings(t, clippings, "second export")
	assert.Equal(t, StatusSuccess, s.RunNow(context.Background()))
	assert.Equal(t, 2, runs)
}

func TestWatchScheduler_FailureKeepsDigest(t *testing.T) {
	clippings := filepath.Join(t.TempDir(), "My Clippings.txt")
	writeClippings(t, clippings, "export")

	state := newMemoryState()
	fail := true
	s := NewWatchScheduler(config.Watch{}, state, func(ctx context.Context) (string, error) {
		if fail {
			return "", errors.New("ebook-meta not installed")
		}
		return "ok", nil
	}, clippings)

	assert.Equal(t, StatusFailed, s.RunNow(context.Background()))
	assert.Empty(t, state.GetSettingValue(entities.SettingKeyWatchClippingsDigest))
	assert.Equal(t, StatusFailed, state.GetSettingValue(entities.SettingKeyWatchLastStatus))
	assert.Contains(t, state.GetSettingValue(entities.SettingKeyWatchLastMessage), "ebook-meta not installed")

	// The unchanged file is retried after a failure.
	fail = false
	assert.Equal(t, StatusSuccess, s.RunNow(context.Background()))
}

func TestWatchScheduler_NoClippings(t *testing.T) {
	s := NewWatchScheduler(config.Watch{}, newMemoryState(), func(ctx context.Context) (string, error) {
		t.Fatal("sync must not run without clippings")
		return "", nil
	}, filepath.Join(t.TempDir(), "absent.txt"))

	assert.Equal(t, StatusUnchanged, s.RunNow(context.Background()))
}

func TestWatchScheduler_StartStop(t *testing.T) {
	noop := func(ctx context.Context) (string, error) { return "", nil }

	disabled := NewWatchScheduler(config.Watch{Enabled: false, Schedule: "* * * * *"}, newMemoryState(), noop)
	require.NoError(t, disabled.Start(context.Background()))
	assert.False(t, disabled.IsRunning())

	invalid := NewWatchScheduler(config.Watch{Enabled: true, Schedule: "whenever"}, newMemoryState(), noop)
	assert.Error(t, invalid.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	s := NewWatchScheduler(config.Watch{Enabled: true, Schedule: "*/5 * * * *"}, newMemoryState(), noop)
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
	assert.Nil(t, s.GetNextRunTime())
}
