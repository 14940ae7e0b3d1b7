package executor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/brandmesh/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesOutputDir(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "t1", "output")

	_, err := executor.New("t1", outputDir, nil)
	require.NoError(t, err)

	info, err := os.Stat(outputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCredentials_CopyIsolation(t *testing.T) {
	platforms := map[string]map[string]string{
		"twitter": {"api_key": "k1", "api_secret": "s1"},
	}
	exec, err := executor.New("t1", t.TempDir(), platforms)
	require.NoError(t, err)

	creds, ok := exec.Credentials("twitter")
	require.True(t, ok)
	assert.Equal(t, "k1", creds["api_key"])

	// mutations must not leak into the executor
	creds["api_key"] = "changed"
	again, _ := exec.Credentials("twitter")
	assert.Equal(t, "k1", again["api_key"])

	// nor mutations of the input map after construction
	platforms["twitter"]["api_key"] = "changed-too"
	final, _ := exec.Credentials("twitter")
	assert.Equal(t, "k1", final["api_key"])
}

func TestCredentials_UnknownPlatform(t *testing.T) {
	exec, err := executor.New("t1", t.TempDir(), nil)
	require.NoError(t, err)

	_, ok := exec.Credentials("mastodon")
	assert.False(t, ok)

	// local-file needs no credentials but is always available
	creds, ok := exec.Credentials(executor.PlatformLocalFile)
	assert.True(t, ok)
	assert.Empty(t, creds)
}

func TestPlatforms_IncludesLocalFile(t *testing.T) {
	exec, err := executor.New("t1", t.TempDir(), map[string]map[string]string{
		"twitter": {"api_key": "k"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{executor.PlatformLocalFile, "twitter"}, exec.Platforms())
}

func TestPublish_LocalFile(t *testing.T) {
	outputDir := t.TempDir()
	exec, err := executor.New("t1", outputDir, nil)
	require.NoError(t, err)

	path, err := exec.Publish(context.Background(), executor.PlatformLocalFile, "post-1.md", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "post-1.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestPublish_UnknownPlatform(t *testing.T) {
	exec, err := executor.New("t1", t.TempDir(), nil)
	require.NoError(t, err)

	_, err = exec.Publish(context.Background(), "mastodon", "post", nil)
	assert.True(t, errors.Is(err, executor.ErrUnknownPlatform))
}
