// Package config loads mount options from an optional YAML file and the
// environment.
package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const envVarPrefix = "NEWFS"

// Options configures a mount. Environment variables override the file.
type Options struct {
	// Device is the disk image or block device to mount.
	Device string `envconfig:"NEWFS_DEVICE" yaml:"device"`

	// Debug is the highest trace level printed by the engine.
	Debug uint64 `envconfig:"NEWFS_DEBUG" yaml:"debug"`
}

// Load reads path (if non-empty and present) and then applies NEWFS_*
// environment overrides.
func Load(path string) (*Options, error) {
	var o Options
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &o); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &o); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	return &o, nil
}

func (o *Options) Validate() error {
	if o.Device == "" {
		return fmt.Errorf(
			"missing required configuration: device / %s_DEVICE",
			envVarPrefix,
		)
	}
	return nil
}
