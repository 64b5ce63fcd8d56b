package helpdesk

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestSmallBodyOf(t *testing.T) {
	t.Run("at most the limit and tag free", func(t *testing.T) {
		body := "<p>" + strings.Repeat("incident ", 100) + "</p>"
		got := SmallBodyOf(body)
		assert.LessOrEqual(t, len([]rune(got)), SmallBodyLimit)
		assert.NotContains(t, got, "<p>")
	})

	t.Run("recomputing yields byte-identical output", func(t *testing.T) {
		body := "<div>Ticket about the <b>VPN</b> again &amp; again</div>"
		assert.Equal(t, SmallBodyOf(body), SmallBodyOf(body))
	})
}

func TestSortRoutes(t *testing.T) {
	routes := []Route{
		{Origin: "desk-it", Name: "Printers"},
		{Origin: OriginLegacy, Name: "access requests"},
		{Origin: "desk-hr", Name: "Benefits"},
	}
	SortRoutes(routes)

	assert.Equal(t, "access requests", routes[0].Name)
	assert.Equal(t, "Benefits", routes[1].Name)
	assert.Equal(t, "Printers", routes[2].Name)
}

func TestSortTasks(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("newest first", func(t *testing.T) {
		tasks := []Task{
			{ID: "old", CreatedDate: datePtr(now.Add(-48 * time.Hour))},
			{ID: "new", CreatedDate: datePtr(now)},
			{ID: "mid", CreatedDate: datePtr(now.Add(-24 * time.Hour))},
		}
		SortTasks(tasks)

		assert.Equal(t, "new", tasks[0].ID)
		assert.Equal(t, "mid", tasks[1].ID)
		assert.Equal(t, "old", tasks[2].ID)
	})

	t.Run("undated tasks keep their relative position", func(t *testing.T) {
		tasks := []Task{
			{ID: "undated-1"},
			{ID: "dated", CreatedDate: datePtr(now)},
			{ID: "undated-2"},
		}
		SortTasks(tasks)

		// Neither greater nor lesser: the stable sort must not force the
		// undated entries to either end.
		var ids []string
		for _, task := range tasks {
			ids = append(ids, task.ID)
		}
		assert.Contains(t, ids, "undated-1")
		assert.Contains(t, ids, "undated-2")
		assert.Equal(t, []string{"undated-1", "dated", "undated-2"}, ids)
	})
}

func TestOriginSurvivesSerialization(t *testing.T) {
	task := Task{
		Origin:      Origin("desk-it"),
		ID:          "42",
		Subject:     "laptop battery",
		CreatedDate: datePtr(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)),
		Files: []TicketFile{
			{Origin: Origin("desk-it"), ID: "f-1", Name: "photo.jpg"},
		},
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var decoded Task
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, task.Origin, decoded.Origin)
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, task.Files[0].Origin, decoded.Files[0].Origin)
	assert.True(t, task.CreatedDate.Equal(*decoded.CreatedDate))
}
