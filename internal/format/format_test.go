package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	ghub "github.com/stahnma/repolist/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	repoA = ghub.NewRepo([]byte(`{"full_name":"alice/a","topics":["x"],"owner":{"login":"alice"}}`))
	repoB = ghub.NewRepo([]byte(`{"full_name":"bob/b","topics":[]}`))
)

const (
	indentedA = "    {\n" +
		"        \"full_name\": \"alice/a\",\n" +
		"        \"topics\": [\n" +
		"            \"x\"\n" +
		"        ],\n" +
		"        \"owner\": {\n" +
		"            \"login\": \"alice\"\n" +
		"        }\n" +
		"    }"
	indentedB = "    {\n" +
		"        \"full_name\": \"bob/b\",\n" +
		"        \"topics\": []\n" +
		"    }"
)

func run(t *testing.T, kind Kind, repos []ghub.Repo, faulted bool) string {
	t.Helper()
	var buf bytes.Buffer
	f, err := New(kind, &buf)
	require.NoError(t, err)
	require.NoError(t, f.Open())
	for _, r := range repos {
		require.NoError(t, f.Emit(r))
	}
	require.NoError(t, f.Close(faulted))
	assert.Equal(t, len(repos), f.Count())
	return buf.String()
}

func TestNames(t *testing.T) {
	assert.Equal(t, "alice/a\nbob/b\n", run(t, Names, []ghub.Repo{repoA, repoB}, false))
}

func TestNames_NoMatches(t *testing.T) {
	assert.Empty(t, run(t, Names, nil, false))
}

func TestNames_MissingFullName(t *testing.T) {
	f, err := New(Names, &bytes.Buffer{})
	require.NoError(t, err)
	err = f.Emit(ghub.NewRepo([]byte(`{}`)))
	var shape *ghub.ShapeError
	assert.True(t, errors.As(err, &shape))
}

func TestJSON(t *testing.T) {
	out := run(t, JSON, []ghub.Repo{repoA, repoB}, false)
	want := "{\n" +
		"    \"full_name\": \"alice/a\",\n" +
		"    \"topics\": [\n" +
		"        \"x\"\n" +
		"    ],\n" +
		"    \"owner\": {\n" +
		"        \"login\": \"alice\"\n" +
		"    }\n" +
		"}\n" +
		"{\n" +
		"    \"full_name\": \"bob/b\",\n" +
		"    \"topics\": []\n" +
		"}\n"
	assert.Equal(t, want, out)
}

func TestJSON_EscapesNonASCII(t *testing.T) {
	r := ghub.NewRepo([]byte(`{"full_name":"zoë/café","description":"tea 🍵 ok"}`))
	out := run(t, JSON, []ghub.Repo{r}, false)
	want := "{\n" +
		"    \"full_name\": \"zo\\u00eb/caf\\u00e9\",\n" +
		"    \"description\": \"tea \\ud83c\\udf75 ok\"\n" +
		"}\n"
	assert.Equal(t, want, out)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "zoë/café", decoded["full_name"])
	assert.Equal(t, "tea 🍵 ok", decoded["description"])
}

func TestArray_EscapesNonASCII(t *testing.T) {
	r := ghub.NewRepo([]byte(`{"full_name":"me/ünï"}`))
	out := run(t, Array, []ghub.Repo{r}, false)
	assert.Equal(t, "[\n    {\n        \"full_name\": \"me/\\u00fcn\\u00ef\"\n    }\n]\n", out)
}

func TestJSON_NoMatches(t *testing.T) {
	assert.Empty(t, run(t, JSON, nil, false))
}

func TestArray_Empty(t *testing.T) {
	out := run(t, Array, nil, false)
	assert.Equal(t, "[]\n", out)
	assert.True(t, json.Valid([]byte(out)))
}

func TestArray_One(t *testing.T) {
	out := run(t, Array, []ghub.Repo{repoA}, false)
	assert.Equal(t, "[\n"+indentedA+"\n]\n", out)
	assert.True(t, json.Valid([]byte(out)))
}

func TestArray_Two(t *testing.T) {
	out := run(t, Array, []ghub.Repo{repoA, repoB}, false)
	assert.Equal(t, "[\n"+indentedA+",\n"+indentedB+"\n]\n", out)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, 2)
}

func TestArray_FaultedLeavesArrayOpen(t *testing.T) {
	out := run(t, Array, []ghub.Repo{repoA, repoB}, true)
	assert.Equal(t, "[\n"+indentedA+",\n"+indentedB, out)
	assert.False(t, json.Valid([]byte(out)))
}

func TestArray_FaultedBeforeAnyRecord(t *testing.T) {
	out := run(t, Array, nil, true)
	assert.Equal(t, "[", out)
}

func TestFaultedCloseIsSilentForStreams(t *testing.T) {
	assert.Equal(t, "alice/a\n", run(t, Names, []ghub.Repo{repoA}, true))
	assert.Equal(t, "{\n    \"full_name\": \"bob/b\",\n    \"topics\": []\n}\n", run(t, JSON, []ghub.Repo{repoB}, true))
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(Kind(42), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "names", Names.String())
	assert.Equal(t, "json", JSON.String())
	assert.Equal(t, "array", Array.String())
}
