// 14 March 2024

// Package config is for settings that come from defaults, a thal.yaml
// file, a .env file, THAL_ environment variables and the command line,
// in order of increasing precedence. Settings are unmarshalled from
// a viper instance.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/thal/pkg/analysis"
	"github.com/andrew-torda/thal/pkg/oligotm"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	fileName  = "thal"
	envPrefix = "THAL"
)

// Keys, shared with command line flags
const (
	KeyMv      = "mv"
	KeyDv      = "dv"
	KeyDNTP    = "dntp"
	KeyDNA     = "dna"
	KeyTemp    = "temp"
	KeyMaxLoop = "maxloop"
	KeySalt    = "salt"
	KeyParams  = "params"
	KeyWorkers = "workers"
	KeyMinTm   = "min-tm"
	KeyPNG     = "png"
	KeyVerbose = "verbose"
)

// Config is everything a run of the program needs to know.
type Config struct {
	Mv      float64 `mapstructure:"mv"`      // monovalent cations, mM
	Dv      float64 `mapstructure:"dv"`      // divalent cations, mM
	DNTP    float64 `mapstructure:"dntp"`    // mM
	DNAConc float64 `mapstructure:"dna"`     // nM
	Temp    float64 `mapstructure:"temp"`    // °C
	MaxLoop int     `mapstructure:"maxloop"` // longest loop
	Salt    string  `mapstructure:"salt"`    // correction for oligo Tm

	// directory with parameter files, empty for built in values
	ParamDir string `mapstructure:"params"`

	// screening
	Workers int     `mapstructure:"workers"`
	MinTm   float64 `mapstructure:"min-tm"`

	// where to put a picture of the structure
	Output  string `mapstructure:"png"`
	Verbose bool   `mapstructure:"verbose"`
}

// Sources says where to look. Zero values mean the working directory
// and $HOME/.thal for thal.yaml and .env in the working directory.
type Sources struct {
	Dirs    []string
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	c := analysis.DefaultConditions()
	v.SetDefault(KeyMv, c.Mv)
	v.SetDefault(KeyDv, c.Dv)
	v.SetDefault(KeyDNTP, c.DNTP)
	v.SetDefault(KeyDNA, c.DNAConc)
	v.SetDefault(KeyTemp, c.Temp)
	v.SetDefault(KeyMaxLoop, c.MaxLoop)
	v.SetDefault(KeySalt, c.Salt.String())
	v.SetDefault(KeyParams, "")
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyMinTm, 0.0)
	v.SetDefault(KeyPNG, "")
	v.SetDefault(KeyVerbose, false)
}

// Setup gives v its defaults and reads the config and .env files.
// Missing files are not an error. Values from .env do not override
// variables already in the environment.
func Setup(v *viper.Viper, src Sources) error {
	setDefaults(v)
	envFile := src.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", envFile, err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	dirs := src.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".thal"))
		}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return fmt.Errorf("config file: %w", err)
		}
	}
	return nil
}

// New unmarshals the settings in v.
func New(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %w", err)
	}
	return c, nil
}

// Conditions are the parts of c needed for an analysis.
func (c Config) Conditions() (analysis.Conditions, error) {
	salt, err := oligotm.ParseSaltMethod(strings.ToLower(c.Salt))
	if err != nil {
		return analysis.Conditions{}, err
	}
	return analysis.Conditions{
		Mv:      c.Mv,
		Dv:      c.Dv,
		DNTP:    c.DNTP,
		DNAConc: c.DNAConc,
		Temp:    c.Temp,
		MaxLoop: c.MaxLoop,
		Salt:    salt,
	}, nil
}
