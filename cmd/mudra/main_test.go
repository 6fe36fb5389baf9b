package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/testdata"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mockConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detector:\n  backend: mock\n"), 0o644))
	return path
}

func TestClassify(t *testing.T) {
	frame := testdata.Frame(320, 240)
	defer frame.Close()

	img := filepath.Join(t.TempDir(), "hand.jpg")
	require.True(t, gocv.IMWrite(img, frame))

	out, err := run(t, "classify", "--config", mockConfig(t), img)
	require.NoError(t, err)

	var hands []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &hands))
	assert.Empty(t, hands, "the mock backend reports no hands")
}

func TestClassify_Errors(t *testing.T) {
	t.Run("missing image", func(t *testing.T) {
		_, err := run(t, "classify", "--config", mockConfig(t), filepath.Join(t.TempDir(), "nope.jpg"))
		assert.Error(t, err)
	})

	t.Run("wrong arg count", func(t *testing.T) {
		_, err := run(t, "classify", "--config", mockConfig(t))
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := run(t, "classify", "--config", mockConfig(t), "--log-level", "loud", "x.jpg")
		assert.Error(t, err)
	})
}

func TestServe_RejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detector:\n  backend: quantum\n"), 0o644))

	_, err := run(t, "serve", "--config", path)
	assert.Error(t, err)
}
