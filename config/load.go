package config

import (
	"bytes"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes all environment overrides.
const EnvPrefix = "KINFIT"

// flagBindings maps viper keys to pflag names.
var flagBindings = map[string]string{
	"solver.maxIterations":          "max-iterations",
	"zVertex.enabled":               "zvertex",
	"zVertex.sigma":                 "zvertex-sigma",
	"iterationFilter.maxIterations": "max-tree-iterations",
	"uncertainty.model":             "model",
	"logging.level":                 "verbosity",
	"logging.development":           "dev-log",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *flag.FlagSet) {
	d := Default()
	fs.Int("max-iterations", d.Solver.MaxIterations, "solver iteration limit")
	fs.Bool("zvertex", d.ZVertex.Enabled, "fit the z vertex")
	fs.Float64("zvertex-sigma", d.ZVertex.Sigma, "z vertex sigma in cm, 0 for unmeasured")
	fs.Int("max-tree-iterations", d.IterationFilter.MaxIterations, "keep at most this many tree fitter iterations, 0 for all")
	fs.String("model", d.Uncertainty.Model, "uncertainty model: constant|relative|mclongtarget|theoretical")
	fs.IntP("verbosity", "v", d.Logging.Level, "log verbosity")
	fs.Bool("dev-log", d.Logging.Development, "human readable logs")
}

// Load reads path (YAML, may be empty), then environment and flags.
// flagSet may be nil. Precedence: flags > env > file > defaults.
func Load(path string, flagSet *flag.FlagSet) (*Settings, error) {
	v := viper.New()

	// 1. Defaults, via the YAML rendering of Default so every key is known
	//    to AutomaticEnv.
	def, err := Marshal(Default())
	if err != nil {
		return nil, err
	}
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(def)); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	// 2. File.
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	// 3. Environment and flags.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if flagSet != nil {
		for key, name := range flagBindings {
			if f := flagSet.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	// 4. Decode and validate.
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Marshal renders s as YAML.
func Marshal(s Settings) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
