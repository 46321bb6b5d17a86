package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "AMPDU"

// overrides are the scalar settings that can be changed from the
// environment. Unset variables leave the field nil.
type overrides struct {
	SimulationTime *float64 `envconfig:"SIMULATION_TIME"`
	Seed           *int64   `envconfig:"SEED"`

	DisableOnVoice *bool    `envconfig:"DISABLE_ON_VOICE"`
	Dynamic        *bool    `envconfig:"DYNAMIC"`
	Interval       *float64 `envconfig:"INTERVAL"`
	Budget         *float64 `envconfig:"BUDGET"`
	Law            *int     `envconfig:"LAW"`
	Step           *uint32  `envconfig:"STEP"`
	Aggressiveness *uint32  `envconfig:"AGGRESSIVENESS"`
	MTU            *uint32  `envconfig:"MTU"`
	FullSize       *uint32  `envconfig:"FULL_SIZE"`
	LimitedSize    *uint32  `envconfig:"LIMITED_SIZE"`

	PollInterval *float64 `envconfig:"POLL_INTERVAL"`

	Backends           []string `envconfig:"REPORT_BACKENDS"`
	ReportDir          *string  `envconfig:"REPORT_DIR"`
	ReportPrefix       *string  `envconfig:"REPORT_PREFIX"`
	ClickHouseHost     *string  `envconfig:"CLICKHOUSE_HOST"`
	ClickHousePort     *int     `envconfig:"CLICKHOUSE_PORT"`
	ClickHouseUser     *string  `envconfig:"CLICKHOUSE_USER"`
	ClickHousePassword *string  `envconfig:"CLICKHOUSE_PASSWORD"`

	MonitorEnabled *bool   `envconfig:"MONITOR"`
	MonitorPort    *int    `envconfig:"MONITOR_PORT"`
	LogLevel       *string `envconfig:"LOG_LEVEL"`
}

// LoadDotEnv loads variables from the file into the environment if it
// exists. Variables already set are kept.
func LoadDotEnv(path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	err = godotenv.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overrides settings with AMPDU_ environment variables.
func (c *Config) ApplyEnv() error {
	var o overrides

	err := envconfig.Process(EnvPrefix, &o)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	set(&c.Simulation.Time, o.SimulationTime)
	set(&c.Simulation.Seed, o.Seed)

	a := &c.Aggregation
	set(&a.DisableOnVoice, o.DisableOnVoice)
	set(&a.Dynamic, o.Dynamic)
	set(&a.Interval, o.Interval)
	set(&a.Budget, o.Budget)
	set(&a.Law, o.Law)
	set(&a.Step, o.Step)
	set(&a.Aggressiveness, o.Aggressiveness)
	set(&a.MTU, o.MTU)
	set(&a.FullSize, o.FullSize)
	set(&a.LimitedSize, o.LimitedSize)

	set(&c.KPI.PollInterval, o.PollInterval)

	if len(o.Backends) > 0 {
		c.Report.Backends = o.Backends
	}

	set(&c.Report.Dir, o.ReportDir)
	set(&c.Report.Prefix, o.ReportPrefix)
	set(&c.Report.ClickHouse.Host, o.ClickHouseHost)
	set(&c.Report.ClickHouse.Port, o.ClickHousePort)
	set(&c.Report.ClickHouse.Username, o.ClickHouseUser)
	set(&c.Report.ClickHouse.Password, o.ClickHousePassword)

	set(&c.Monitor.Enabled, o.MonitorEnabled)
	set(&c.Monitor.Port, o.MonitorPort)
	set(&c.Log.Level, o.LogLevel)

	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
