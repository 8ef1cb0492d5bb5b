// Package driver writes commands to the haptic driver's sysfs nodes.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultRoot is the sysfs directory of the aw8697 haptic driver.
const DefaultRoot = "/sys/bus/i2c/drivers/aw8697_haptic/2-005a"

// Default node file names under the driver root.
const (
	defaultIndexNode    = "index"
	defaultDurationNode = "duration"
	defaultActivateNode = "activate"
	defaultPwleNode     = "pwle"
)

// Config locates the driver's control nodes. Empty fields fall back to the
// aw8697 defaults.
type Config struct {
	Root         string
	IndexNode    string
	DurationNode string
	ActivateNode string
	PwleNode     string
}

func (c Config) withDefaults() Config {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.IndexNode == "" {
		c.IndexNode = defaultIndexNode
	}
	if c.DurationNode == "" {
		c.DurationNode = defaultDurationNode
	}
	if c.ActivateNode == "" {
		c.ActivateNode = defaultActivateNode
	}
	if c.PwleNode == "" {
		c.PwleNode = defaultPwleNode
	}
	return c
}

// Device writes to one haptic driver instance. Writes are synchronous; the
// kernel serializes concurrent writers per node, so the device holds no lock.
type Device struct {
	indexPath    string
	durationPath string
	activatePath string
	pwlePath     string
}

// NewDevice resolves the node paths and verifies the driver root exists.
func NewDevice(cfg Config) (*Device, error) {
	cfg = cfg.withDefaults()
	if _, err := os.Stat(cfg.Root); err != nil {
		return nil, fmt.Errorf("haptic driver not found at %s: %w", cfg.Root, err)
	}
	return &Device{
		indexPath:    filepath.Join(cfg.Root, cfg.IndexNode),
		durationPath: filepath.Join(cfg.Root, cfg.DurationNode),
		activatePath: filepath.Join(cfg.Root, cfg.ActivateNode),
		pwlePath:     filepath.Join(cfg.Root, cfg.PwleNode),
	}, nil
}

// WriteIndex selects a firmware waveform slot.
func (d *Device) WriteIndex(index int) error {
	return writeNode(d.indexPath, strconv.Itoa(index))
}

// WriteDuration sets the playback time in milliseconds.
func (d *Device) WriteDuration(ms int) error {
	return writeNode(d.durationPath, strconv.Itoa(ms))
}

// WriteActivate starts or stops playback.
func (d *Device) WriteActivate(on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	return writeNode(d.activatePath, value)
}

// WritePwle pushes an encoded segment command line.
func (d *Device) WritePwle(cmd string) error {
	return writeNode(d.pwlePath, cmd)
}

func writeNode(path, value string) error {
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write driver node: %w", err)
	}
	return nil
}
