package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogTrackerWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewLogTracker(zerolog.New(&buf))
	tr.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, tr.TrackPage(context.Background(), PageView{Page: "/preprints/discover", Title: "discover"}))

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "/preprints/discover", ev["page"])
	assert.Equal(t, "discover", ev["title"])
	assert.Equal(t, "metrics", ev["component"])
	assert.NotEmpty(t, ev["event_id"])
}

func TestMemoryTrackerCopies(t *testing.T) {
	var tr MemoryTracker
	_ = tr.TrackPage(context.Background(), PageView{Page: "/", Title: "index"})
	views := tr.Views()
	views[0].Title = "changed"
	assert.Equal(t, "index", tr.Views()[0].Title)
}
