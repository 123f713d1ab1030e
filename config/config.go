// Package config reads the configuration of the go-delta command line. The
// file uses git config syntax:
//
//	[unpack]
//		workers = 4
//		cacheSize = 128
//		limit = 1073741824
//	[trace]
//		general = true
//		delta = false
//		unpack = true
//
// Unknown sections and keys are ignored, the same way git ignores them.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-git/gcfg"
	"github.com/go-git/go-billy/v5"

	"github.com/go-git/go-delta/plumbing/unpack"
	"github.com/go-git/go-delta/utils/ioutil"
	"github.com/go-git/go-delta/utils/trace"
)

// ErrInvalidValue is returned when a key holds a value of the wrong kind.
var ErrInvalidValue = errors.New("invalid config value")

const (
	unpackSection = "unpack"
	traceSection  = "trace"

	workersKey   = "workers"
	cacheSizeKey = "cachesize"
	limitKey     = "limit"

	generalKey = "general"
	deltaKey   = "delta"
	unpackKey  = "unpack"
)

// Config holds the settings of the command line.
type Config struct {
	Unpack struct {
		// Workers is the number of deltas patched concurrently.
		Workers int
		// CacheSize is the number of bases kept in memory.
		CacheSize int
		// Limit caps the bytes written to the object store, 0 means no
		// limit.
		Limit int64
	}

	Trace struct {
		General bool
		Delta   bool
		Unpack  bool
	}
}

// NewConfig returns a Config with the defaults applied.
func NewConfig() *Config {
	c := &Config{}
	c.Unpack.Workers = unpack.DefaultWorkers
	c.Unpack.CacheSize = unpack.DefaultCacheSize
	return c
}

// ReadConfig decodes a config from r on top of the defaults.
func ReadConfig(r io.Reader) (*Config, error) {
	c := NewConfig()
	cb := func(s, ss, k, v string, blank bool) error {
		if k == "" {
			return nil
		}
		return c.set(strings.ToLower(s), strings.ToLower(k), v, blank)
	}

	if err := gcfg.ReadWithCallback(r, cb); err != nil {
		return nil, err
	}

	return c, c.Validate()
}

// LoadConfig reads the config file at path in fs. A missing file yields
// the defaults.
func LoadConfig(fs billy.Filesystem, path string) (c *Config, err error) {
	f, err := fs.Open(path)
	if os.IsNotExist(err) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	defer ioutil.CheckClose(f, &err)

	return ReadConfig(f)
}

func (c *Config) set(section, key, value string, blank bool) error {
	var err error
	switch section {
	case unpackSection:
		switch key {
		case workersKey:
			c.Unpack.Workers, err = strconv.Atoi(value)
		case cacheSizeKey:
			c.Unpack.CacheSize, err = strconv.Atoi(value)
		case limitKey:
			c.Unpack.Limit, err = strconv.ParseInt(value, 10, 64)
		}
	case traceSection:
		switch key {
		case generalKey:
			c.Trace.General, err = parseBool(value, blank)
		case deltaKey:
			c.Trace.Delta, err = parseBool(value, blank)
		case unpackKey:
			c.Trace.Unpack, err = parseBool(value, blank)
		}
	}

	if err != nil {
		return fmt.Errorf("%w: %s.%s = %q", ErrInvalidValue, section, key, value)
	}

	return nil
}

// parseBool follows git: a key with no value is true, and yes/on/1 as
// well as no/off/0 are accepted.
func parseBool(value string, blank bool) (bool, error) {
	if blank {
		return true, nil
	}

	switch strings.ToLower(value) {
	case "yes", "on", "true", "1":
		return true, nil
	case "no", "off", "false", "0", "":
		return false, nil
	default:
		return false, ErrInvalidValue
	}
}

// Validate checks the values are usable.
func (c *Config) Validate() error {
	if c.Unpack.Workers < 1 {
		return fmt.Errorf("%w: unpack.workers must be positive", ErrInvalidValue)
	}

	if c.Unpack.CacheSize < 0 {
		return fmt.Errorf("%w: unpack.cacheSize cannot be negative", ErrInvalidValue)
	}

	if c.Unpack.Limit < 0 {
		return fmt.Errorf("%w: unpack.limit cannot be negative", ErrInvalidValue)
	}

	return nil
}

// TraceTarget returns the trace targets enabled by the config.
func (c *Config) TraceTarget() trace.Target {
	var t trace.Target
	if c.Trace.General {
		t |= trace.General
	}
	if c.Trace.Delta {
		t |= trace.Delta
	}
	if c.Trace.Unpack {
		t |= trace.Unpack
	}

	return t
}

// UnpackOptions returns the unpack options matching the config.
func (c *Config) UnpackOptions() []unpack.Option {
	return []unpack.Option{
		unpack.WithWorkers(c.Unpack.Workers),
		unpack.WithCacheSize(c.Unpack.CacheSize),
	}
}
