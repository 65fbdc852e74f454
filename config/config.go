package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var OctographDir = func() string {
	dir, err := homedir.Dir()
	if err != nil {
		log.Fatalf("couldn't get user home directory: %s", err)
	}
	return filepath.Join(dir, ".octograph")
}()

type CacheConfig struct {
	MaxCost int64 `yaml:"maxCost"`
}

type PlannerConfig struct {
	Strategy string      `yaml:"strategy"`
	Cache    CacheConfig `yaml:"cache"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

type Config struct {
	Planner PlannerConfig `yaml:"planner"`
	Output  OutputConfig  `yaml:"output"`
	// Options holds free-form settings, read with the getters.
	Options map[string]interface{} `yaml:"options"`
}

func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			Strategy: "naive",
		},
		Output: OutputConfig{
			Format: "table",
		},
		Options: map[string]interface{}{},
	}
}

// Read reads the configuration from the octograph directory.
func Read() (*Config, error) {
	return ReadConfig(filepath.Join(OctographDir, "config.yaml"))
}

// ReadConfig reads the configuration file, falling back to defaults if it doesn't exist.
// Fields missing from the file keep their default values.
func ReadConfig(path string) (*Config, error) {
	config := Default()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return config, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "couldn't open file")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	if config.Options == nil {
		config.Options = map[string]interface{}{}
	}

	return config, nil
}
