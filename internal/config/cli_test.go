package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs-rover/joyserial/internal/config"
)

func parse(t *testing.T, args []string, opts ...kong.Option) (*config.CLI, *kong.Context) {
	t.Helper()
	var cli config.CLI
	opts = append([]kong.Option{kong.Name("joyserial"), kong.Exit(func(int) { t.Fatal("unexpected exit") })}, opts...)
	parser, err := kong.New(&cli, opts...)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestDefaults(t *testing.T) {
	cli, ctx := parse(t, []string{"run"})

	assert.Equal(t, "run", ctx.Command())
	assert.Equal(t, "info", cli.Log.Level)
	assert.Equal(t, "sdl", cli.Run.Input.Backend)
	assert.Equal(t, 20, cli.Run.Rate)
	assert.Equal(t, []string{"/dev/ttyACM0", "/dev/ttyACM1"}, cli.Run.Serial.Devices)
	assert.Equal(t, 9600, cli.Run.Serial.Baud)
	assert.False(t, cli.Run.Serial.IgnoreWriteErrors)
	assert.Equal(t, []string{"/dev/input/js0"}, cli.Run.Input.Jsdev.Devices)
	assert.Empty(t, cli.Run.MQTT.Broker)
	assert.Equal(t, 5*time.Second, cli.Run.MQTT.ConnectTimeout)
}

func TestRunIsDefaultCommand(t *testing.T) {
	_, ctx := parse(t, []string{})
	assert.Equal(t, "run", ctx.Command())
}

func TestFlagsAndEnv(t *testing.T) {
	t.Setenv("JOYSERIAL_SERIAL_BAUD", "115200")
	cli, _ := parse(t, []string{
		"run",
		"--backend=jsdev",
		"--jsdev.hat-axes=6,7",
		"--serial.devices=/dev/ttyUSB0",
		"--serial.ignore-write-errors",
		"--rate=50",
		"--log.level=debug",
	})

	assert.Equal(t, "jsdev", cli.Run.Input.Backend)
	assert.Equal(t, []int{6, 7}, cli.Run.Input.Jsdev.HatAxes)
	assert.Equal(t, []string{"/dev/ttyUSB0"}, cli.Run.Serial.Devices)
	assert.True(t, cli.Run.Serial.IgnoreWriteErrors)
	assert.Equal(t, 115200, cli.Run.Serial.Baud)
	assert.Equal(t, 50, cli.Run.Rate)
	assert.Equal(t, "debug", cli.Log.Level)
}

func TestConfigFiles(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "joyserial.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"rate": 10, "serial": {"baud": 57600}}`), 0o644))
	cli, _ := parse(t, []string{"run"}, kong.Configuration(kong.JSON, jsonPath))
	assert.Equal(t, 10, cli.Run.Rate)
	assert.Equal(t, 57600, cli.Run.Serial.Baud)

	yamlPath := filepath.Join(dir, "joyserial.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("rate: 15\n"), 0o644))
	cli, _ = parse(t, []string{"run"}, kong.Configuration(kongyaml.Loader, yamlPath))
	assert.Equal(t, 15, cli.Run.Rate)

	tomlPath := filepath.Join(dir, "joyserial.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("rate = 25\n"), 0o644))
	cli, _ = parse(t, []string{"run"}, kong.Configuration(kongtoml.Loader, tomlPath))
	assert.Equal(t, 25, cli.Run.Rate)

	// flags override files
	cli, _ = parse(t, []string{"run", "--rate=30"}, kong.Configuration(kongtoml.Loader, tomlPath))
	assert.Equal(t, 30, cli.Run.Rate)
}

func TestBadBackend(t *testing.T) {
	var cli config.CLI
	parser, err := kong.New(&cli, kong.Name("joyserial"))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"run", "--backend=hid"})
	assert.Error(t, err)
}
