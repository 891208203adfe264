package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type WiFiConfig struct {
	Interface     string `yaml:"interface"`
	CheckInterval int    `yaml:"check_interval"`          // seconds
	RSSICritical  int    `yaml:"rssi_critical_threshold"` // dBm
}

type GatewayConfig struct {
	IP                  string  `yaml:"ip"`
	PingInterval        int     `yaml:"ping_interval"` // seconds
	Timeout             int     `yaml:"timeout"`       // seconds
	PacketLossThreshold float64 `yaml:"packet_loss_threshold"` // percent
}

type SensorConfig struct {
	Name     string `yaml:"name"`
	IP       string `yaml:"ip"`
	Type     string `yaml:"type"`     // "ping", "http", "mqtt", "database"
	Interval int    `yaml:"interval"` // seconds
	Timeout  int    `yaml:"timeout"`  // seconds

	// HTTP and MQTT
	Port  int    `yaml:"port"`
	Path  string `yaml:"path"`
	HTTPS bool   `yaml:"https"`

	// MQTT and database credentials
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Database
	Driver   string `yaml:"driver"` // "postgres", "mysql"
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

type MonitoringConfig struct {
	DataRetentionDays int `yaml:"data_retention_days"`
}

type WebhooksConfig struct {
	Discord string `yaml:"discord"`
	Slack   string `yaml:"slack"`
}

type Config struct {
	WiFi            WiFiConfig       `yaml:"wifi"`
	Gateway         GatewayConfig    `yaml:"gateway"`
	InternetTargets []string         `yaml:"internet_targets"`
	Sensors         []SensorConfig   `yaml:"sensors"`
	Monitoring      MonitoringConfig `yaml:"monitoring"`
	Webhooks        WebhooksConfig   `yaml:"webhooks"`
}

// Load reads and validates the YAML configuration, applying environment
// overrides for MQTT credentials so they can stay out of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.WiFi.CheckInterval == 0 {
		c.WiFi.CheckInterval = 10
	}

	if c.WiFi.RSSICritical == 0 {
		c.WiFi.RSSICritical = -80
	}

	if c.Gateway.PingInterval == 0 {
		c.Gateway.PingInterval = 5
	}

	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = 2
	}

	if c.Gateway.PacketLossThreshold == 0 {
		c.Gateway.PacketLossThreshold = 20
	}

	if c.Monitoring.DataRetentionDays == 0 {
		c.Monitoring.DataRetentionDays = 7
	}

	for i := range c.Sensors {
		sensor := &c.Sensors[i]

		if sensor.Interval == 0 {
			sensor.Interval = 30
		}

		if sensor.Timeout == 0 {
			sensor.Timeout = 5
		}

		if sensor.Port == 0 {
			switch sensor.Type {
			case "mqtt":
				sensor.Port = 1883
			case "http":
				sensor.Port = 80
			}
		}

		if sensor.Type == "http" && sensor.Path == "" {
			sensor.Path = "/"
		}
	}
}

func (c *Config) applyEnvOverrides() {
	mqttUser := os.Getenv("MQTT_USERNAME")
	mqttPass := os.Getenv("MQTT_PASSWORD")

	if mqttUser == "" && mqttPass == "" {
		return
	}

	for i := range c.Sensors {
		if c.Sensors[i].Type != "mqtt" {
			continue
		}

		if mqttUser != "" {
			c.Sensors[i].Username = mqttUser
		}

		if mqttPass != "" {
			c.Sensors[i].Password = mqttPass
		}
	}
}

func (c *Config) validate() error {
	if c.WiFi.Interface == "" {
		return fmt.Errorf("wifi interface not specified")
	}

	if c.Gateway.IP == "" {
		return fmt.Errorf("gateway IP not specified")
	}

	for _, sensor := range c.Sensors {
		if sensor.Name == "" || sensor.IP == "" || sensor.Type == "" {
			return fmt.Errorf("invalid sensor configuration: name, ip and type are required")
		}

		switch sensor.Type {
		case "ping", "http", "mqtt", "database":
		default:
			return fmt.Errorf("invalid sensor type %q for sensor %s", sensor.Type, sensor.Name)
		}
	}

	return nil
}
