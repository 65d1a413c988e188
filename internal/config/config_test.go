package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"server": { "url": "https://radar.example.com", "reconnectDelay": "250ms" },
		"view": { "referenceId": "SELF", "sweep": false }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	sc := GetServerConfig()
	assert.Equal(t, "https://radar.example.com", sc.URL)
	assert.Equal(t, 250*time.Millisecond, sc.ReconnectDelay)
	assert.Equal(t, "/ws", sc.WSPath)

	vc := GetViewConfig()
	assert.Equal(t, "SELF", vc.ReferenceID)
	assert.False(t, vc.Sweep)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./radarlogs", viper.GetString("logsDir"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))

	sc := GetServerConfig()
	assert.Equal(t, "http://localhost:8000", sc.URL)
	assert.Equal(t, "/ws", sc.WSPath)
	assert.Equal(t, time.Second, sc.ReconnectDelay)
	assert.Equal(t, 60*time.Second, sc.PongWait)
	assert.Equal(t, 5*time.Second, sc.CommandTimeout)
	assert.Equal(t, 64, sc.CommandQueue)

	cc := GetCameraConfig()
	assert.Equal(t, 0.05, cc.MinScale)
	assert.Equal(t, 10.0, cc.MaxScale)
	assert.Equal(t, 1.0, cc.DefaultScale)
	assert.Equal(t, 50.0, cc.PanStep)

	vc := GetViewConfig()
	assert.Equal(t, "OWN", vc.ReferenceID)
	assert.True(t, vc.Sweep)
	assert.Equal(t, 5.0, vc.DragThreshold)
	assert.Equal(t, 20.0, vc.HitRadius)
	assert.Equal(t, 1280, vc.Width)
	assert.Equal(t, 800, vc.Height)
	assert.Equal(t, 320, vc.PanelWidth)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	// Defaults remain usable.
	assert.Equal(t, "http://localhost:8000", GetServerConfig().URL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("RADAR_SERVER_URL", "http://10.1.1.1:9000")

	require.NoError(t, Load(writeConfig(t, `{"server": {"url": "http://file:8000"}}`)))
	assert.Equal(t, "http://10.1.1.1:9000", GetServerConfig().URL)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "radar-client", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "bridge-radar",
			"batchTimeout": "30s",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "bridge-radar", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4318", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetInfluxConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"influx": {"enabled": true, "host": "metrics"}}`)))

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "http://metrics:8086", ic.URL())
	assert.Equal(t, "radar", ic.Org)
	assert.Equal(t, "client_performance", ic.Bucket)
	assert.Equal(t, 10*time.Second, ic.Interval)
}
