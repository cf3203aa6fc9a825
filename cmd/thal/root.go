// 14 March 2024

package main

import (
	"io"
	"log"

	"github.com/andrew-torda/thal/pkg/analysis"
	"github.com/andrew-torda/thal/pkg/config"
	"github.com/andrew-torda/thal/pkg/nnparam"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

// exactArgs is cobra.ExactArgs, but a wrong count is a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// app is what the commands share. It is filled in before any command
// runs.
type app struct {
	v      *viper.Viper
	src    config.Sources
	cfg    config.Config
	params *nnparam.Params
	logger *log.Logger
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.Setup(a.v, a.src); err != nil {
		return err
	}
	cfg, err := config.New(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = log.New(io.Discard, "", 0)
	if cfg.Verbose {
		a.logger = log.New(cmd.ErrOrStderr(), "thal: ", log.Ltime)
	}
	if cfg.ParamDir == "" {
		a.params = nnparam.Default()
		return nil
	}
	a.logger.Println("reading parameters from", cfg.ParamDir)
	if a.params, err = nnparam.Load(cfg.ParamDir); err != nil {
		return err
	}
	return nil
}

// analysis with the configured conditions. Structure asks for the
// text drawing of each result.
func (a *app) analysis(structure bool) (*analysis.Analysis, error) {
	c, err := a.cfg.Conditions()
	if err != nil {
		return nil, usageError{err}
	}
	c.Structure = structure
	return analysis.New(a.params, c)
}

// newRootCmd builds the command tree. src says where to look for
// configuration files.
func newRootCmd(src config.Sources) *cobra.Command {
	a := &app{v: viper.New(), src: src}
	root := &cobra.Command{
		Use:   "thal",
		Short: "Thermodynamics of DNA oligo hairpins and dimers",
		Long: `Thermodynamics of DNA oligo hairpins and dimers.

Nearest neighbour parameters and dynamic programming find the most
stable structure of an oligo or of two oligos. Results give the melting
temperature and ΔG, ΔH and ΔS of the structure.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	c := analysis.DefaultConditions()
	pf := root.PersistentFlags()
	pf.Float64(config.KeyMv, c.Mv, "monovalent cations (mM)")
	pf.Float64(config.KeyDv, c.Dv, "divalent cations (mM)")
	pf.Float64(config.KeyDNTP, c.DNTP, "dNTPs (mM)")
	pf.Float64(config.KeyDNA, c.DNAConc, "oligo concentration (nM)")
	pf.Float64(config.KeyTemp, c.Temp, "temperature for ΔG (°C)")
	pf.Int(config.KeyMaxLoop, c.MaxLoop, "longest bulge or internal loop")
	pf.String(config.KeySalt, c.Salt.String(), "salt correction for tm: santalucia, schildkraut, owczarzy")
	pf.String(config.KeyParams, "", "directory with thermodynamic parameters")
	pf.String(config.KeyPNG, "", "draw the structure into this png file")
	pf.BoolP(config.KeyVerbose, "v", false, "verbose")
	for _, k := range []string{config.KeyMv, config.KeyDv, config.KeyDNTP, config.KeyDNA,
		config.KeyTemp, config.KeyMaxLoop, config.KeySalt, config.KeyParams, config.KeyPNG, config.KeyVerbose} {
		if err := a.v.BindPFlag(k, pf.Lookup(k)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		a.hairpinCmd(), a.homodimerCmd(), a.heterodimerCmd(), a.endCmd(),
		a.tmCmd(), a.screenCmd(), a.paramsCmd(), docsCmd(root),
	)
	return root
}
