package configpaths_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs-rover/joyserial/internal/configpaths"
)

func TestConfigCandidatePaths(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix layout")
	}
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	wd, err := os.Getwd()
	require.NoError(t, err)

	type testCase struct {
		name      string
		userPath  string
		firstJSON string
		firstYAML string
		firstTOML string
	}

	cases := []testCase{
		{
			name:      "no user path",
			firstJSON: filepath.Join(wd, "joyserial.json"),
			firstYAML: filepath.Join(wd, "joyserial.yaml"),
			firstTOML: filepath.Join(wd, "joyserial.toml"),
		},
		{
			name:      "user toml",
			userPath:  "/tmp/pad.toml",
			firstJSON: filepath.Join(wd, "joyserial.json"),
			firstYAML: filepath.Join(wd, "joyserial.yaml"),
			firstTOML: "/tmp/pad.toml",
		},
		{
			name:      "user yml",
			userPath:  "/tmp/pad.yml",
			firstJSON: filepath.Join(wd, "joyserial.json"),
			firstYAML: "/tmp/pad.yml",
			firstTOML: filepath.Join(wd, "joyserial.toml"),
		},
		{
			name:      "unknown extension is json",
			userPath:  "/tmp/pad.conf",
			firstJSON: "/tmp/pad.conf",
			firstYAML: filepath.Join(wd, "joyserial.yaml"),
			firstTOML: filepath.Join(wd, "joyserial.toml"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j, y, tm := configpaths.ConfigCandidatePaths(tc.userPath)
			assert.Equal(t, tc.firstJSON, j[0])
			assert.Equal(t, tc.firstYAML, y[0])
			assert.Equal(t, tc.firstTOML, tm[0])
			assert.Contains(t, j, "/xdg/joyserial/config.json")
			assert.Contains(t, tm, "/etc/joyserial/config.toml")
		})
	}
}

func TestDefaultConfigDirHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix layout")
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/pi")
	dir, err := configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/pi/.config/joyserial", dir)
}
