package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndAppend(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "nested", "out.txt")
	require.NoError(t, WriteToFile(savePath, "a", "b"))
	require.NoError(t, AppendToFile(savePath, "c"))

	bs, err := os.ReadFile(savePath)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(bs))
}

func TestWriteJSON(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(savePath, map[string]float64{"value": 0.5}))

	bs, err := os.ReadFile(savePath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 0.5}`, string(bs))

	assert.Error(t, WriteJSON(savePath, make(chan int)))
}
