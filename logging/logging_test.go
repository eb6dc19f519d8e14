package logging_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/katalvlaran/kinfit/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, b *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	s := bufio.NewScanner(b)
	for s.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(s.Bytes(), &m))
		out = append(out, m)
	}

	return out
}

func TestNewWriter_Verbosity(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWriter(&buf, logging.Options{Level: logging.INFO}).WithName("tree")
	log.Info("initialized", "permutations", 15)
	log.V(logging.DEBUG).Info("fit done")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "initialized", got[0]["msg"])
	assert.Equal(t, "tree", got[0]["logger"])
	assert.EqualValues(t, 15, got[0]["permutations"])

	buf.Reset()
	log = logging.NewWriter(&buf, logging.Options{Level: logging.DEBUG})
	log.V(logging.DEBUG).Info("fit done", "chi2", 1.5)
	log.V(logging.TRACE).Info("hidden")
	got = lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "fit done", got[0]["msg"])
}

func TestNew(t *testing.T) {
	log, err := logging.New(logging.Options{Development: true, Level: logging.DEBUG})
	require.NoError(t, err)
	assert.True(t, log.V(logging.DEBUG).Enabled())
	assert.False(t, log.V(logging.TRACE).Enabled())
}

func TestNewTestLogger(t *testing.T) {
	log := logging.NewTestLogger(t)
	assert.True(t, log.V(logging.TRACE).Enabled())
	log.Info("visible with -v")
}
