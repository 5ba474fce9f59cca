package action

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead-app/trailhead/internal/model"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	q.Enqueue(AddTag{Name: "a"})
	q.Enqueue(AddTag{Name: "b"})
	q.Enqueue(AddTag{Name: "c"})

	got := q.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].(AddTag).Name)
	assert.Equal(t, "b", got[1].(AddTag).Name)
	assert.Equal(t, "c", got[2].(AddTag).Name)
}

func TestQueue_UpdateEventReplacesPriorUpdate(t *testing.T) {
	q := NewQueue()
	q.Enqueue(UpdateEvent{Event: model.Event{ID: "x", Title: "first"}})
	q.Enqueue(AddTag{Name: "between"})
	q.Enqueue(UpdateEvent{Event: model.Event{ID: "x", Title: "latest"}})

	got := q.Snapshot()
	require.Len(t, got, 2, "exactly one queued update per event id")
	assert.Equal(t, "between", got[0].(AddTag).Name)
	assert.Equal(t, "latest", got[1].(UpdateEvent).Event.Title)
}

func TestQueue_ReplacementScopedToKindAndID(t *testing.T) {
	q := NewQueue()
	q.Enqueue(UpdateEvent{Event: model.Event{ID: "x"}})
	q.Enqueue(UpdateEventSteps{EventID: "x"})
	q.Enqueue(UpdateEvent{Event: model.Event{ID: "y"}})

	assert.Equal(t, 3, q.Len(), "different kinds and ids never replace each other")
}

func TestQueue_DropFirst_KeepsMidFlushArrivals(t *testing.T) {
	q := NewQueue()
	q.Enqueue(AddTag{Name: "flushed-1"})
	q.Enqueue(AddTag{Name: "flushed-2"})

	batch := q.Snapshot()
	// New action arrives while the batch is in flight.
	q.Enqueue(AddTag{Name: "late"})

	remaining := q.DropFirst(len(batch))
	assert.Equal(t, 1, remaining)
	got := q.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "late", got[0].(AddTag).Name)
}

func TestQueue_DropFirst_MoreThanLength(t *testing.T) {
	q := NewQueue()
	q.Enqueue(AddTag{Name: "only"})
	assert.Equal(t, 0, q.DropFirst(10))
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.Enqueue(AddTag{Name: "a"})
	q.Enqueue(AddTag{Name: "b"})
	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestQueue_UpdateReplacementCarriesImagePayload(t *testing.T) {
	q := NewQueue()
	e := model.Event{ID: "x", Title: "first", HasOriginalImage: true}
	q.Enqueue(UpdateEvent{Event: e, ImageData: []byte("original bytes")})

	// A later text-only edit supersedes the queued update but the event
	// still claims an original image; the blob must survive to the flush.
	e.Title = "latest"
	q.Enqueue(UpdateEvent{Event: e})

	got := q.Snapshot()
	require.Len(t, got, 1)
	u := got[0].(UpdateEvent)
	assert.Equal(t, "latest", u.Event.Title)
	assert.Equal(t, []byte("original bytes"), u.ImageData)
}

func TestQueue_UpdateReplacementHonorsNewImageAndRemoval(t *testing.T) {
	q := NewQueue()
	e := model.Event{ID: "x", HasOriginalImage: true}

	q.Enqueue(UpdateEvent{Event: e, ImageData: []byte("old")})
	q.Enqueue(UpdateEvent{Event: e, ImageData: []byte("new")})
	got := q.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, []byte("new"), got[0].(UpdateEvent).ImageData)

	e.HasOriginalImage = false
	q.Enqueue(UpdateEvent{Event: e, RemoveImage: true})
	got = q.Snapshot()
	require.Len(t, got, 1)
	u := got[0].(UpdateEvent)
	assert.Nil(t, u.ImageData)
	assert.True(t, u.RemoveImage)
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q.Enqueue(AddTag{Name: "t"})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, q.Len())
}
