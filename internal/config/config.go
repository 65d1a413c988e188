package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "radar_client.cfg.json"

// ServerConfig holds radar server connection settings.
type ServerConfig struct {
	URL            string        `json:"url" mapstructure:"url"`
	WSPath         string        `json:"wsPath" mapstructure:"wsPath"`
	ReconnectDelay time.Duration `json:"reconnectDelay" mapstructure:"reconnectDelay"`
	PongWait       time.Duration `json:"pongWait" mapstructure:"pongWait"`
	CommandTimeout time.Duration `json:"commandTimeout" mapstructure:"commandTimeout"`
	CommandQueue   int           `json:"commandQueue" mapstructure:"commandQueue"`
}

// CameraConfig holds zoom and pan limits.
type CameraConfig struct {
	MinScale     float64 `json:"minScale" mapstructure:"minScale"`
	MaxScale     float64 `json:"maxScale" mapstructure:"maxScale"`
	DefaultScale float64 `json:"defaultScale" mapstructure:"defaultScale"`
	PanStep      float64 `json:"panStep" mapstructure:"panStep"`
}

// ViewConfig holds display and interaction settings.
type ViewConfig struct {
	ReferenceID   string  `json:"referenceId" mapstructure:"referenceId"`
	Sweep         bool    `json:"sweep" mapstructure:"sweep"`
	DragThreshold float64 `json:"dragThreshold" mapstructure:"dragThreshold"`
	HitRadius     float64 `json:"hitRadius" mapstructure:"hitRadius"`
	Width         int     `json:"width" mapstructure:"width"`
	Height        int     `json:"height" mapstructure:"height"`
	PanelWidth    int     `json:"panelWidth" mapstructure:"panelWidth"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds performance metrics export settings.
type InfluxConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Protocol string        `json:"protocol" mapstructure:"protocol"`
	Host     string        `json:"host" mapstructure:"host"`
	Port     string        `json:"port" mapstructure:"port"`
	Token    string        `json:"token" mapstructure:"token"`
	Org      string        `json:"org" mapstructure:"org"`
	Bucket   string        `json:"bucket" mapstructure:"bucket"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// URL returns the InfluxDB server URL.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// SetDefaults registers every default value. Load calls it; tests and
// callers that skip the file can call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./radarlogs")

	viper.SetDefault("server.url", "http://localhost:8000")
	viper.SetDefault("server.wsPath", "/ws")
	viper.SetDefault("server.reconnectDelay", "1s")
	viper.SetDefault("server.pongWait", "60s")
	viper.SetDefault("server.commandTimeout", "5s")
	viper.SetDefault("server.commandQueue", 64)

	viper.SetDefault("camera.minScale", 0.05)
	viper.SetDefault("camera.maxScale", 10.0)
	viper.SetDefault("camera.defaultScale", 1.0)
	viper.SetDefault("camera.panStep", 50.0)

	viper.SetDefault("view.referenceId", "OWN")
	viper.SetDefault("view.sweep", true)
	viper.SetDefault("view.dragThreshold", 5.0)
	viper.SetDefault("view.hitRadius", 20.0)
	viper.SetDefault("view.width", 1280)
	viper.SetDefault("view.height", 800)
	viper.SetDefault("view.panelWidth", 320)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "radar-client")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "radar")
	viper.SetDefault("influx.bucket", "client_performance")
	viper.SetDefault("influx.interval", "10s")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. Environment
// variables prefixed RADAR_ override file values, e.g. RADAR_SERVER_URL.
func Load(configDir string) error {
	SetDefaults()

	viper.SetEnvPrefix("RADAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetServerConfig returns the radar server settings.
func GetServerConfig() ServerConfig {
	return ServerConfig{
		URL:            viper.GetString("server.url"),
		WSPath:         viper.GetString("server.wsPath"),
		ReconnectDelay: viper.GetDuration("server.reconnectDelay"),
		PongWait:       viper.GetDuration("server.pongWait"),
		CommandTimeout: viper.GetDuration("server.commandTimeout"),
		CommandQueue:   viper.GetInt("server.commandQueue"),
	}
}

// GetCameraConfig returns the camera limits.
func GetCameraConfig() CameraConfig {
	return CameraConfig{
		MinScale:     viper.GetFloat64("camera.minScale"),
		MaxScale:     viper.GetFloat64("camera.maxScale"),
		DefaultScale: viper.GetFloat64("camera.defaultScale"),
		PanStep:      viper.GetFloat64("camera.panStep"),
	}
}

// GetViewConfig returns the display settings.
func GetViewConfig() ViewConfig {
	return ViewConfig{
		ReferenceID:   viper.GetString("view.referenceId"),
		Sweep:         viper.GetBool("view.sweep"),
		DragThreshold: viper.GetFloat64("view.dragThreshold"),
		HitRadius:     viper.GetFloat64("view.hitRadius"),
		Width:         viper.GetInt("view.width"),
		Height:        viper.GetInt("view.height"),
		PanelWidth:    viper.GetInt("view.panelWidth"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
		Interval: viper.GetDuration("influx.interval"),
	}
}
