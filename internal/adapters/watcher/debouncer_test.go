package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/moor/internal/adapters/watcher"
)

func TestDebouncer_SingleEvent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var received []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			received = paths
		})

		d.Add("/workspace/moorfile.yaml")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, received, 1)
		assert.Equal(t, "/workspace/moorfile.yaml", received[0])
	})
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var received []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			received = paths
		})

		// A published revision touches several files in quick succession.
		d.Add("/repo/acme/core/1.1.0/module.yaml")
		d.Add("/repo/acme/core/1.1.0/core.jar")
		d.Add("/repo/acme/core/1.1.0/core-sources.jar")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, received, 3)
		assert.Contains(t, received, "/repo/acme/core/1.1.0/module.yaml")
		assert.Contains(t, received, "/repo/acme/core/1.1.0/core.jar")
		assert.Contains(t, received, "/repo/acme/core/1.1.0/core-sources.jar")
	})
}

func TestDebouncer_DedupesRepeatedPath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var received []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			received = paths
		})

		d.Add("/workspace/moorfile.yaml")
		d.Add("/workspace/moorfile.yaml")
		d.Add("/workspace/moorfile.yaml")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		require.Len(t, received, 1)
	})
}

func TestDebouncer_EventExtendsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("/repo/acme/core/1.1.0/module.yaml")
		time.Sleep(30 * time.Millisecond)

		// A second event inside the window restarts it.
		d.Add("/repo/acme/core/1.1.0/core.jar")
		time.Sleep(30 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count := callCount
		mu.Unlock()
		assert.Equal(t, 0, count)

		time.Sleep(30 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count = callCount
		mu.Unlock()
		require.Equal(t, 1, count)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var received []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			received = paths
		})

		d.Add("/workspace/moorfile.yaml")
		d.Add("/repo/acme/core/1.1.0/module.yaml")

		d.Flush()

		require.Equal(t, 1, callCount)
		require.Len(t, received, 2)
	})
}

func TestDebouncer_FlushWithNothingPending(t *testing.T) {
	var callCount int

	d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_FlushAfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/workspace/moorfile.yaml")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)

		d.Flush()

		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_AddAfterFlushStartsNewBatch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var received []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			received = paths
		})

		d.Add("/workspace/moorfile.yaml")
		d.Flush()

		require.Equal(t, 1, callCount)

		d.Add("/repo/acme/core/1.1.0/module.yaml")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 2, callCount)
		require.Len(t, received, 1)
		assert.Equal(t, "/repo/acme/core/1.1.0/module.yaml", received[0])
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/workspace/moorfile.yaml")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}
