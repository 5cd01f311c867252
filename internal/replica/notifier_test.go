package replica

import (
	"bytes"
	"testing"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestNotifier() (*notifier, *registry, *manualScheduler) {
	reg := &registry{}
	s := newManualScheduler()
	return newNotifier(reg, s, logger.Nop()), reg, s
}

func TestNotifier_DeliversAfterTick(t *testing.T) {
	n, reg, s := newTestNotifier()
	rec := &recorder{}
	reg.watch("data", rec.cb)

	n.markDirty("data/lines")
	assert.Empty(t, rec.paths, "delivery must not be synchronous")
	assert.Equal(t, 1, s.pendingDeferred())

	s.Tick()
	assert.Equal(t, []string{"data/lines"}, rec.paths)
}

func TestNotifier_Coalesces(t *testing.T) {
	n, reg, s := newTestNotifier()
	rec := &recorder{}
	reg.watch("data", rec.cb)

	n.markDirty("data/at")
	n.markDirty("data/at")
	assert.Equal(t, 1, s.pendingDeferred(), "one flush per cycle")

	s.Tick()
	assert.Equal(t, []string{"data/at"}, rec.paths)
}

func TestNotifier_Order(t *testing.T) {
	n, reg, s := newTestNotifier()

	var calls []string
	reg.watch("data", func(p string) { calls = append(calls, "first:"+p) })
	reg.watch("", func(p string) { calls = append(calls, "second:"+p) })

	n.markDirty("data/b")
	n.markDirty("users")
	n.markDirty("data/a")
	s.Tick()

	assert.Equal(t, []string{
		"first:data/b", "second:data/b",
		"second:users",
		"first:data/a", "second:data/a",
	}, calls)
}

func TestNotifier_DirtyFromCallbackGetsNewFlush(t *testing.T) {
	n, reg, s := newTestNotifier()

	var calls []string
	reg.watch("a", func(p string) {
		calls = append(calls, p)
		if p == "a" {
			n.markDirty("ab")
			// the new path is not delivered inside the running flush
			assert.Equal(t, []string{"a"}, calls)
		}
	})

	n.markDirty("a")
	s.Tick()

	assert.Equal(t, []string{"a", "ab"}, calls)
}

func TestNotifier_PanicIsContained(t *testing.T) {
	reg := &registry{}
	s := newManualScheduler()
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}
	n := newNotifier(reg, s, log)

	rec := &recorder{}
	reg.watch("data", func(string) { panic("boom") })
	reg.watch("data", rec.cb)

	n.markDirty("data/at")
	assert.NotPanics(t, s.Tick)

	assert.Equal(t, []string{"data/at"}, rec.paths)
	assert.Contains(t, buf.String(), ErrWatcher.Error())
	assert.Contains(t, buf.String(), `"prefix":"data"`)
}

func TestNotifier_UnsubscribedWatcherNotCalled(t *testing.T) {
	n, reg, s := newTestNotifier()
	rec := &recorder{}
	unsub := reg.watch("data", rec.cb)

	n.markDirty("data/at")
	unsub()
	s.Tick()

	assert.Empty(t, rec.paths)
}

func TestNotifier_UnsubscribeInsideCallback(t *testing.T) {
	n, reg, s := newTestNotifier()

	var (
		calls                   []string
		unsubSelf, unsubSibling Unsubscribe
	)
	unsubSelf = reg.watch("data", func(p string) {
		calls = append(calls, "self:"+p)
		unsubSelf()
		unsubSibling()
	})
	unsubSibling = reg.watch("data", func(p string) { calls = append(calls, "sibling:"+p) })

	n.markDirty("data/a")
	n.markDirty("data/b")
	assert.NotPanics(t, s.Tick)

	// the running flush keeps the watchers it started with
	assert.Equal(t, []string{
		"self:data/a", "sibling:data/a",
		"self:data/b", "sibling:data/b",
	}, calls)
	assert.Equal(t, 0, reg.len())

	calls = nil
	n.markDirty("data/a")
	s.Tick()
	assert.Empty(t, calls)
}

func TestNotifier_EmptyFlushIsNoop(t *testing.T) {
	n, reg, _ := newTestNotifier()
	rec := &recorder{}
	reg.watch("", rec.cb)

	n.flush()
	assert.Empty(t, rec.paths)
}
