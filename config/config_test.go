package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T) {
	for _, k := range []string{"NEWFS_DEVICE", "NEWFS_DEBUG"} {
		old, ok := os.LookupEnv(k)
		os.Unsetenv(k)
		if ok {
			t.Cleanup(func() { os.Setenv(k, old) })
		}
	}
}

func TestLoadFile(t *testing.T) {
	unsetEnv(t)
	path := filepath.Join(t.TempDir(), "newfs.yaml")
	require.NoError(t, ioutil.WriteFile(path,
		[]byte("device: /tmp/disk.img\ndebug: 3\n"), 0644))

	o, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/disk.img", o.Device)
	assert.Equal(t, uint64(3), o.Debug)
	assert.NoError(t, o.Validate())
}

func TestEnvOverrides(t *testing.T) {
	unsetEnv(t)
	path := filepath.Join(t.TempDir(), "newfs.yaml")
	require.NoError(t, ioutil.WriteFile(path,
		[]byte("device: /tmp/disk.img\n"), 0644))
	os.Setenv("NEWFS_DEVICE", "/dev/loop7")
	defer os.Unsetenv("NEWFS_DEVICE")

	o, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/loop7", o.Device)
}

func TestMissingFileIsFine(t *testing.T) {
	unsetEnv(t)
	o, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Error(t, o.Validate(), "no device configured")
}

func TestStrictFile(t *testing.T) {
	unsetEnv(t)
	path := filepath.Join(t.TempDir(), "newfs.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("devise: x\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err, "unknown keys are rejected")
}
