// Package config loads the benchmark configuration: which infrastructure to
// run against, which algorithms to benchmark, the virtual scene, and the
// output/persistence knobs. Optional fields are pointers so a config file
// only has to mention what it changes; Load fills the rest from defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/banshee-data/slbench/internal/slbench"
)

// Infrastructure type names accepted in config files.
const (
	InfraVirtual = "virtual"
	InfraReplay  = "replay"
	InfraExec    = "exec"
	InfraSerial  = "serial"
)

// Config is the root benchmark configuration.
type Config struct {
	// SessionDir receives one timestamped session directory per run.
	SessionDir *string `json:"session_dir,omitempty"`

	// DBPath is the sqlite results database; empty disables persistence.
	DBPath *string `json:"db_path,omitempty"`

	// MigrationsDir holds the database schema migrations.
	MigrationsDir *string `json:"migrations_dir,omitempty"`

	// AccuracyBucketWidth is the accuracy histogram bucket size.
	AccuracyBucketWidth *float64 `json:"accuracy_bucket_width,omitempty"`

	// ExportPointClouds writes an XYZ point cloud per depth experiment.
	ExportPointClouds *bool `json:"export_point_clouds,omitempty"`

	// RenderReports produces PNG and HTML renderings of accuracy reports.
	RenderReports *bool `json:"render_reports,omitempty"`

	Infrastructure  Infrastructure   `json:"infrastructure"`
	Implementations []Implementation `json:"implementations"`
	Scene           []Primitive      `json:"scene,omitempty"`
}

// Infrastructure selects and parameterizes the capture side.
type Infrastructure struct {
	Type  string                      `json:"type"`
	Setup slbench.InfrastructureSetup `json:"setup"`

	// ReplayDir holds recorded captures (type "replay").
	ReplayDir string `json:"replay_dir,omitempty"`

	// Command and Args name the external renderer (type "exec").
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	// SerialPort and BaudRate reach the physical rig (type "serial").
	SerialPort string `json:"serial_port,omitempty"`
	BaudRate   int    `json:"baud_rate,omitempty"`

	// CalibrationDir is the lens calibration cache (types "exec", "serial").
	CalibrationDir string `json:"calibration_dir,omitempty"`
}

// Implementation selects one algorithm under test.
type Implementation struct {
	Type         string `json:"type"` // currently "graycode"
	PatternWidth int    `json:"pattern_width"`
}

// Primitive describes one analytic scene surface for the virtual
// infrastructure.
type Primitive struct {
	Type   string     `json:"type"` // "plane" or "sphere"
	Point  [3]float64 `json:"point,omitempty"`
	Normal [3]float64 `json:"normal,omitempty"`
	Center [3]float64 `json:"center,omitempty"`
	Radius float64    `json:"radius,omitempty"`
}

func ptrString(v string) *string    { return &v }
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		SessionDir:          ptrString("."),
		DBPath:              ptrString("slbench.db"),
		MigrationsDir:       ptrString("migrations"),
		AccuracyBucketWidth: ptrFloat64(slbench.DefaultAccuracyBucketWidth),
		ExportPointClouds:   ptrBool(true),
		RenderReports:       ptrBool(true),
	}
}

// applyDefaults fills unset optional fields from Default.
func (c *Config) applyDefaults() {
	d := Default()
	if c.SessionDir == nil {
		c.SessionDir = d.SessionDir
	}
	if c.DBPath == nil {
		c.DBPath = d.DBPath
	}
	if c.MigrationsDir == nil {
		c.MigrationsDir = d.MigrationsDir
	}
	if c.AccuracyBucketWidth == nil {
		c.AccuracyBucketWidth = d.AccuracyBucketWidth
	}
	if c.ExportPointClouds == nil {
		c.ExportPointClouds = d.ExportPointClouds
	}
	if c.RenderReports == nil {
		c.RenderReports = d.RenderReports
	}
}

// Validate rejects configurations the benchmark cannot run.
func (c *Config) Validate() error {
	if err := c.Infrastructure.Setup.Validate(); err != nil {
		return fmt.Errorf("infrastructure setup: %w", err)
	}

	switch c.Infrastructure.Type {
	case InfraVirtual:
		if len(c.Scene) == 0 {
			return fmt.Errorf("virtual infrastructure needs at least one scene primitive")
		}
	case InfraReplay:
		if c.Infrastructure.ReplayDir == "" {
			return fmt.Errorf("replay infrastructure needs replay_dir")
		}
	case InfraExec:
		if c.Infrastructure.Command == "" {
			return fmt.Errorf("exec infrastructure needs command")
		}
	case InfraSerial:
		if c.Infrastructure.SerialPort == "" {
			return fmt.Errorf("serial infrastructure needs serial_port")
		}
		if c.Infrastructure.CalibrationDir == "" {
			return fmt.Errorf("serial infrastructure needs calibration_dir")
		}
	default:
		return fmt.Errorf("unknown infrastructure type %q", c.Infrastructure.Type)
	}

	if len(c.Implementations) == 0 {
		return fmt.Errorf("no implementations configured")
	}
	for i, impl := range c.Implementations {
		if impl.Type != "graycode" {
			return fmt.Errorf("implementation %d: unknown type %q", i, impl.Type)
		}
		if impl.PatternWidth <= 0 {
			return fmt.Errorf("implementation %d: pattern width must be positive", i)
		}
	}

	for i, p := range c.Scene {
		if p.Type != "plane" && p.Type != "sphere" {
			return fmt.Errorf("scene primitive %d: unknown type %q", i, p.Type)
		}
	}
	return nil
}

// Load reads, defaults and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}
