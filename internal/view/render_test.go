package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobdash/internal/selector"
)

func TestRenderTextFetching(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Page{Fetching: true}, DefaultStyles()))

	out := buf.String()
	assert.Contains(t, out, FetchingText)
	assert.NotContains(t, out, LabelRunCount)
	assert.NotContains(t, out, "Definition")
}

func TestRenderText(t *testing.T) {
	page, err := JobSpecPage(selector.Select(scenarioState(), "42", 5), opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, page, DefaultStyles()))

	out := buf.String()
	assert.NotContains(t, out, FetchingText)
	for _, s := range []string{"Job Spec Detail", LabelRunCount, "Definition", "Last Run", "r6", "r2"} {
		assert.Contains(t, out, s)
	}
	assert.NotContains(t, out, "r1 ")
	assert.Less(t, strings.Index(out, LabelID), strings.Index(out, LabelRunCount))
}

func TestRenderDetailsText(t *testing.T) {
	run := baseRun()
	run.Error = strPtr("timeout")

	var buf bytes.Buffer
	require.NoError(t, RenderDetailsText(&buf, JobRunDetails(run, "node-a", opts), DefaultStyles()))

	out := buf.String()
	finished := strings.Index(out, LabelFinishedAt)
	errRow := strings.Index(out, LabelError)
	tasks := strings.Index(out, LabelTasks)
	require.NotEqual(t, -1, finished)
	assert.Less(t, finished, errRow)
	assert.Less(t, errRow, tasks)
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "1. httpget")
	assert.Contains(t, out, "0xbeef")
}

func TestRenderDetailsTextWithoutError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDetailsText(&buf, JobRunDetails(baseRun(), "node-a", opts), DefaultStyles()))
	assert.NotContains(t, buf.String(), LabelError)
}

func TestRenderHTMLFetching(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Page{Fetching: true}))

	out := buf.String()
	assert.Contains(t, out, "Fetching...")
	assert.Contains(t, out, `http-equiv="refresh"`)
	assert.NotContains(t, out, `class="summary"`)
	assert.NotContains(t, out, `class="definition"`)
}

func TestRenderHTML(t *testing.T) {
	page, err := JobSpecPage(selector.Select(scenarioState(), "42", 5), opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, page))

	out := buf.String()
	assert.NotContains(t, out, "Fetching...")
	assert.NotContains(t, out, `http-equiv="refresh"`)
	assert.Contains(t, out, `class="summary"`)
	assert.Contains(t, out, `<a href="/job_runs/r6">r6</a>`)
	assert.Equal(t, 5, strings.Count(out, `href="/job_runs/`))
}

func TestRenderDetailsHTML(t *testing.T) {
	run := baseRun()
	finished := time.Date(2020, 1, 2, 10, 5, 0, 0, time.UTC)
	run.FinishedAt = &finished
	run.Error = strPtr("<timeout>")

	var buf bytes.Buffer
	require.NoError(t, RenderDetailsHTML(&buf, JobRunDetails(run, "node-a", opts)))

	out := buf.String()
	assert.Contains(t, out, "2020-01-02T10:05:00Z")
	assert.Contains(t, out, "&lt;timeout&gt;")
	assert.Contains(t, out, `href="https://etherscan.io/tx/0xbeef"`)
	assert.Less(t, strings.Index(out, ">Finished At<"), strings.Index(out, ">Error<"))
}

func TestRenderDetailsHTMLWithoutError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDetailsHTML(&buf, JobRunDetails(baseRun(), "node-a", opts)))
	assert.NotContains(t, buf.String(), ">Error<")
}
