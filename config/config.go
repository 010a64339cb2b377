// Package config loads the analysis configuration from an optional YAML
// file, environment variables, and command-line flags. Precedence, highest
// to lowest: flags, CUMDIFF_-prefixed environment variables, config file,
// built-in defaults. The defaults reproduce the published analyses.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileName is the default name of the config file, looked up in the working
// directory when no explicit path is given.
const FileName = "cumdiff.yaml"

// EnvPrefix prefixes the environment variables that override config keys:
// CUMDIFF_OUTPUT_DIR overrides output_dir, and so on.
const EnvPrefix = "CUMDIFF_"

// Config carries every tunable of the analyses.
type Config struct {
	// OutputDir is the root under which result directories are created.
	OutputDir string `koanf:"output_dir"`
	// DataDir is where downloaded datasets are stored and looked up.
	DataDir string `koanf:"data_dir"`
	// Seed for the generators that perturb repeated scores.
	Seed int64 `koanf:"seed"`
	// EquierrSeed for the generators used when binning for equal errors.
	EquierrSeed int64 `koanf:"equierr_seed"`
	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	BRFSS     BRFSS     `koanf:"brfss"`
	DDS       DDS       `koanf:"dds"`
	Synthetic Synthetic `koanf:"synthetic"`
}

// BRFSS holds the BRFSS-specific parameters.
type BRFSS struct {
	KitchenSink bool  `koanf:"kitchen_sink"`
	MajorTicks  int   `koanf:"major_ticks"`
	NBins       []int `koanf:"nbins"`
}

// DDS holds the Taylor-Mickel-specific parameters.
type DDS struct {
	MajorTicks int   `koanf:"major_ticks"`
	NBins      []int `koanf:"nbins"`
}

// Synthetic holds the parameters of the synthetic examples.
type Synthetic struct {
	Sizes      []int `koanf:"sizes"`
	NBins      []int `koanf:"nbins"`
	MajorTicks int   `koanf:"major_ticks"`
}

// Default returns the built-in configuration, which reproduces the
// published analyses exactly.
func Default() Config {
	return Config{
		OutputDir:   ".",
		DataDir:     ".",
		Seed:        543216789,
		EquierrSeed: 987654321,
		LogLevel:    "info",
		LogFormat:   "text",
		BRFSS: BRFSS{
			MajorTicks: 8,
			NBins:      []int{2, 5, 10, 20, 40},
		},
		DDS: DDS{
			MajorTicks: 10,
			NBins:      []int{2, 5, 10, 20, 50},
		},
		Synthetic: Synthetic{
			Sizes:      []int{10000, 7000},
			NBins:      []int{10, 50},
			MajorTicks: 10,
		},
	}
}

// Load builds the configuration. cfgFile may be empty, in which case
// FileName is used if present in the working directory; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	def := Default()
	defaults := map[string]interface{}{
		"output_dir":            def.OutputDir,
		"data_dir":              def.DataDir,
		"seed":                  def.Seed,
		"equierr_seed":          def.EquierrSeed,
		"log_level":             def.LogLevel,
		"log_format":            def.LogFormat,
		"brfss.kitchen_sink":    def.BRFSS.KitchenSink,
		"brfss.major_ticks":     def.BRFSS.MajorTicks,
		"brfss.nbins":           def.BRFSS.NBins,
		"dds.major_ticks":       def.DDS.MajorTicks,
		"dds.nbins":             def.DDS.NBins,
		"synthetic.sizes":       def.Synthetic.Sizes,
		"synthetic.nbins":       def.Synthetic.NBins,
		"synthetic.major_ticks": def.Synthetic.MajorTicks,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(FileName); err == nil {
			cfgFile = FileName
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	}

	// CUMDIFF_OUTPUT_DIR -> output_dir, CUMDIFF_BRFSS__NBINS -> brfss.nbins.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
