// Package config loads the YAML description of a run. Values from a .env
// file and from AMPDU_ environment variables override the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/ampductl/wlan"
)

// SimulationConfig controls the run as a whole.
type SimulationConfig struct {
	// Time is the run horizon in seconds.
	Time    float64       `yaml:"time"`
	Seed    int64         `yaml:"seed"`
	Traffic TrafficConfig `yaml:"traffic"`
}

// TrafficConfig parameterizes the synthetic flows of the built-in scenario.
type TrafficConfig struct {
	VoicePacketRate float64 `yaml:"voice_packet_rate"`
	VoicePacketSize int     `yaml:"voice_packet_size"`
	BulkPacketRate  float64 `yaml:"bulk_packet_rate"`
	BulkPacketSize  int     `yaml:"bulk_packet_size"`

	// BaseDelay is the delay of a packet through an idle, non-aggregating
	// access point, in seconds.
	BaseDelay float64 `yaml:"base_delay"`

	// DelayPerKB is the queuing delay each aggregating station adds per
	// kilobyte of aggregation size, in seconds.
	DelayPerKB float64 `yaml:"delay_per_kb"`

	LossRate float64 `yaml:"loss_rate"`
}

// AggregationConfig holds the two policies and the control-law constants.
type AggregationConfig struct {
	DisableOnVoice bool `yaml:"disable_on_voice"`
	Dynamic        bool `yaml:"dynamic"`

	// Interval is the controller period in seconds. Zero disables dynamic
	// control.
	Interval       float64 `yaml:"interval"`
	Budget         float64 `yaml:"budget"`
	Law            int     `yaml:"law"`
	Step           uint32  `yaml:"step"`
	Aggressiveness uint32  `yaml:"aggressiveness"`
	MTU            uint32  `yaml:"mtu"`
	FullSize       uint32  `yaml:"full_size"`
	LimitedSize    uint32  `yaml:"limited_size"`
}

// KPIConfig describes how flows are polled and classified.
type KPIConfig struct {
	PollInterval float64           `yaml:"poll_interval"`
	Ports        map[string]uint16 `yaml:"ports"`
	BlockSize    uint16            `yaml:"block_size"`
	AckPort      uint16            `yaml:"ack_port"`
}

// ClickHouseConfig locates the ClickHouse server of the clickhouse backend.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ReportConfig selects where rows are written.
type ReportConfig struct {
	// Backends is any of tsv, sqlite and clickhouse.
	Backends []string `yaml:"backends"`
	Dir      string   `yaml:"dir"`
	Prefix   string   `yaml:"prefix"`

	// PositionInterval is the period of position rows in seconds. Zero
	// disables them.
	PositionInterval float64          `yaml:"position_interval"`
	ClickHouse       ClickHouseConfig `yaml:"clickhouse"`
}

// MonitorConfig controls the HTTP monitor.
type MonitorConfig struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"open_browser"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// APConfig describes one access point.
type APConfig struct {
	ID       int         `yaml:"id"`
	MAC      string      `yaml:"mac"`
	Channel  uint8       `yaml:"channel"`
	Position wlan.Vector `yaml:"position"`
}

// StationConfig describes one station.
type StationConfig struct {
	ID          int         `yaml:"id"`
	Application string      `yaml:"application"`
	Radios      []uint8     `yaml:"radios"`
	Position    wlan.Vector `yaml:"position"`

	// Velocity is in meters per second.
	Velocity wlan.Vector `yaml:"velocity"`
}

// EventConfig scripts one association transition.
type EventConfig struct {
	Time    float64 `yaml:"time"`
	Station int     `yaml:"station"`

	// Action is associate or deassociate.
	Action string `yaml:"action"`
	AP     int    `yaml:"ap"`
}

// TopologyConfig lists the nodes and the association script.
type TopologyConfig struct {
	Handoff  string          `yaml:"handoff"`
	Channels []uint8         `yaml:"channels"`
	APs      []APConfig      `yaml:"aps"`
	Stations []StationConfig `yaml:"stations"`
	Events   []EventConfig   `yaml:"events"`
}

// Config is the top-level configuration of a run.
type Config struct {
	Simulation  SimulationConfig  `yaml:"simulation"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	KPI         KPIConfig         `yaml:"kpi"`
	Report      ReportConfig      `yaml:"report"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Log         LogConfig         `yaml:"log"`
	Topology    TopologyConfig    `yaml:"topology"`
}

// DefaultConfig returns the configuration used for every key a file leaves out.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Time: 10,
			Seed: 1,
			Traffic: TrafficConfig{
				VoicePacketRate: 50,
				VoicePacketSize: 160,
				BulkPacketRate:  800,
				BulkPacketSize:  1500,
				BaseDelay:       0.002,
				DelayPerKB:      0.0002,
			},
		},
		Aggregation: AggregationConfig{
			Interval:       0.1,
			Law:            0,
			Step:           1000,
			Aggressiveness: 10,
			MTU:            1500,
			FullSize:       65535,
			LimitedSize:    0,
		},
		KPI: KPIConfig{
			PollInterval: 0.1,
			Ports: map[string]uint16{
				wlan.VoiceUpload.String():       10000,
				wlan.VoiceDownload.String():     20000,
				wlan.BulkUpload.String():        30000,
				wlan.BulkDownload.String():      40000,
				wlan.StreamingDownload.String(): 50000,
			},
			BlockSize: 1000,
			AckPort:   9,
		},
		Report: ReportConfig{
			Backends:         []string{BackendTSV},
			Dir:              ".",
			PositionInterval: 1,
			ClickHouse: ClickHouseConfig{
				Host:     "localhost",
				Port:     9000,
				Database: "default",
				Username: "default",
			},
		},
		Log: LogConfig{Level: "info"},
		Topology: TopologyConfig{
			Handoff: "none",
		},
	}
}

// Parse decodes a YAML document on top of the defaults. It does not look at
// the environment and does not validate.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return cfg, nil
}

// Load reads the file, applies .env and environment overrides and
// validates the result.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	err = LoadDotEnv(".env")
	if err != nil {
		return nil, err
	}

	err = cfg.ApplyEnv()
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// DynamicEnabled tells if the dynamic controller runs.
func (c *Config) DynamicEnabled() bool {
	return c.Aggregation.Dynamic && c.Aggregation.Interval > 0
}
