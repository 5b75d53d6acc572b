package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvServerURL, "")
	t.Setenv(EnvAccessToken, "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Empty(t, cfg.AccessToken)
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".pahani"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(home, ".pahani", "config.json"),
		[]byte(`{"server_url":"http://file:8000","access_token":"file-token"}`),
		0o600))

	t.Setenv(EnvServerURL, "http://env:9000")
	t.Setenv(EnvAccessToken, "env-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env:9000", cfg.ServerURL)
	assert.Equal(t, "env-token", cfg.AccessToken)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvServerURL, "")
	t.Setenv(EnvAccessToken, "")
	t.Chdir(t.TempDir())

	in := Config{
		ServerURL:      "https://pahani.example.org",
		AccessToken:    "secret-token",
		DownloadDir:    "/tmp/pahani",
		TimeoutSeconds: 10,
	}
	require.NoError(t, Save(in))

	// Token is credentials material: file must not be world readable.
	path, err := File()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := Load()
	require.NoError(t, err)
	assert.Equal(t, in.ServerURL, out.ServerURL)
	assert.Equal(t, in.AccessToken, out.AccessToken)
	assert.Equal(t, in.DownloadDir, out.DownloadDir)
	assert.Equal(t, 10, out.TimeoutSeconds)
}

func TestProjectLocalDirWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(work, ".pahani"), 0o755))
	t.Chdir(work)

	dir, err := Dir()
	require.NoError(t, err)
	// Resolve symlinks: t.TempDir may sit behind /private on some systems.
	wantDir, _ := filepath.EvalSymlinks(filepath.Join(work, ".pahani"))
	gotDir, _ := filepath.EvalSymlinks(dir)
	assert.Equal(t, wantDir, gotDir)
}

func TestTimeoutDefault(t *testing.T) {
	assert.Equal(t, "30s", Config{}.Timeout().String())
	assert.Equal(t, "5s", Config{TimeoutSeconds: 5}.Timeout().String())
}
