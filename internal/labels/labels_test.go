package labels

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<div id="sheets-viewport">
<table class="waffle">
<thead><tr><th></th><th>A</th><th>B</th></tr></thead>
<tbody>
<tr><th>1</th><td>Timestamp</td><td>Message</td></tr>
<tr><th>2</th><td>2024-05-01</td><td>☁ golang</td></tr>
<tr><th>3</th><td>2024-05-01</td><td>hello there</td></tr>
<tr><th>4</th><td>2024-05-02</td><td>  ☁  rust!!  </td></tr>
<tr><th>5</th><td>2024-05-02</td><td>☁ golang</td></tr>
<tr><th>6</th><td>only one cell</td></tr>
<tr><th>7</th><td>2024-05-03</td><td>☁ <b>مرحبا</b>, world</td></tr>
</tbody>
</table>
</div>
</body></html>`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseMessages(t *testing.T) {
	messages, err := ParseMessages(strings.NewReader(samplePage))
	require.NoError(t, err)

	// the first row (column letters) is skipped
	assert.Equal(t, []string{
		"Message",
		"☁ golang",
		"hello there",
		"☁  rust!!",
		"☁ golang",
		"",
		"☁ مرحبا, world",
	}, messages)
}

func TestParseMessages_NoTable(t *testing.T) {
	messages, err := ParseMessages(strings.NewReader("<p>nothing here</p>"))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestExtractCloudWords(t *testing.T) {
	words := ExtractCloudWords([]string{
		"☁ golang",
		"plain message",
		"☁  rust!!",
		"☁ golang",
		"☁",
		"☁ ",
		"☁ ...",
		"☁ مرحبا, world",
		"☁️ sunny day",
		"x☁ not first",
		"☁\u00a0foo\u00a0bar",
		"☁ a\u2003b!",
		"☁ zig\ufeff",
	})
	assert.Equal(t, []string{"golang", "rust", "مرحبا world", "sunny day", "foo\u00a0bar", "a\u2003b", "zig"}, words)
}

func TestMerge(t *testing.T) {
	merged := Merge([]string{"a", " b ", ""}, nil, []string{"b", "c", "a"})
	assert.Equal(t, []string{"a", "b", "c"}, merged)
	assert.Empty(t, Merge())
}

func TestFetchSheet(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("t")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, samplePage)
	}))
	defer srv.Close()

	body, err := FetchSheet(context.Background(), srv.Client(), srv.URL+"/pubhtml")
	require.NoError(t, err)
	assert.Contains(t, string(body), "waffle")
	assert.NotEmpty(t, gotQuery)

	_, err = FetchSheet(context.Background(), srv.Client(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestSheetSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, samplePage)
	}))
	defer srv.Close()

	source := &SheetSource{URL: srv.URL, Client: srv.Client()}
	words, err := source.Labels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "rust", "مرحبا world"}, words)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{name: "yaml list", content: "- go\n- rust\n", want: []string{"go", "rust"}},
		{name: "yaml object", content: "labels:\n  - zig\n  - odin\n", want: []string{"zig", "odin"}},
		{name: "json list", content: `["a", "b"]`, want: []string{"a", "b"}},
		{name: "object without labels", content: "other: 1\n", wantErr: true},
		{name: "scalar", content: "just text\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := LoadFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := LoadFile(filepath.Join(dir, "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }

func (failingSource) Labels(context.Context) ([]string, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- go\n- wasm\n"), 0o644))

	got, err := Collect(context.Background(), quietLogger(),
		StaticSource{"wasm", "tinygo"},
		&FileSource{Path: path},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"wasm", "tinygo", "go"}, got)

	_, err = Collect(context.Background(), quietLogger(), StaticSource{"x"}, failingSource{})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.ErrorContains(t, err, "broken")
}
