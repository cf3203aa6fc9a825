// 14 March 2024

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/andrew-torda/thal/pkg/analysis"
	"github.com/andrew-torda/thal/pkg/batch"
	"github.com/andrew-torda/thal/pkg/config"
	"github.com/andrew-torda/thal/pkg/nnparam"
	"github.com/andrew-torda/thal/pkg/seq"
	"github.com/andrew-torda/thal/pkg/structplot"
	"github.com/andrew-torda/thal/pkg/thal"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// oligoArgs checks sequences from the command line.
func oligoArgs(args []string) ([][]byte, error) {
	seqs := make([][]byte, len(args))
	for i, s := range args {
		o := seq.Oligo{Name: fmt.Sprintf("sequence %d", i+1), Seq: []byte(strings.ToUpper(s))}
		if err := o.Check(); err != nil {
			return nil, usageError{err}
		}
		seqs[i] = o.Seq
	}
	return seqs, nil
}

// report prints a result and draws it if asked to.
func (a *app) report(w io.Writer, r *thal.Result) error {
	if r.Msg != "" {
		fmt.Fprintln(w, r.Msg)
	}
	fmt.Fprintln(w, r.String())
	for _, l := range r.AsciiStructureLines() {
		fmt.Fprintln(w, l)
	}
	if a.cfg.Output == "" {
		return nil
	}
	if r.NoStructure {
		a.logger.Println("no structure, not writing", a.cfg.Output)
		return nil
	}
	a.logger.Println("drawing to", a.cfg.Output)
	return structplot.WriteFile(a.cfg.Output, r, nil)
}

type calc func(an *analysis.Analysis, s [][]byte) (*thal.Result, error)

// thalCmd is a command that does one calculation on its arguments.
func (a *app) thalCmd(use, short string, nargs int, f calc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqs, err := oligoArgs(args)
			if err != nil {
				return err
			}
			an, err := a.analysis(true)
			if err != nil {
				return err
			}
			r, err := f(an, seqs)
			if err != nil {
				return err
			}
			return a.report(cmd.OutOrStdout(), r)
		},
	}
}

func (a *app) hairpinCmd() *cobra.Command {
	return a.thalCmd("hairpin SEQ", "Most stable hairpin of an oligo", 1,
		func(an *analysis.Analysis, s [][]byte) (*thal.Result, error) { return an.Hairpin(s[0]) })
}

func (a *app) homodimerCmd() *cobra.Command {
	return a.thalCmd("homodimer SEQ", "Most stable dimer of an oligo with itself", 1,
		func(an *analysis.Analysis, s [][]byte) (*thal.Result, error) { return an.Homodimer(s[0]) })
}

func (a *app) heterodimerCmd() *cobra.Command {
	return a.thalCmd("heterodimer SEQ1 SEQ2", "Most stable dimer of two oligos", 2,
		func(an *analysis.Analysis, s [][]byte) (*thal.Result, error) { return an.Heterodimer(s[0], s[1]) })
}

func (a *app) endCmd() *cobra.Command {
	return a.thalCmd("end SEQ1 SEQ2", "Most stable dimer including the 3' end of SEQ1", 2,
		func(an *analysis.Analysis, s [][]byte) (*thal.Result, error) { return an.EndStability(s[0], s[1]) })
}

func (a *app) tmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tm SEQ",
		Short: "Melting temperature of an oligo against its complement",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqs, err := oligoArgs(args)
			if err != nil {
				return err
			}
			an, err := a.analysis(false)
			if err != nil {
				return err
			}
			tm, err := an.Tm(seqs[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", tm)
			return nil
		},
	}
}

func (a *app) screenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen FILE",
		Short: "Hairpins and dimers of every oligo in a fasta file",
		Long: `Hairpins and dimers of every oligo in a fasta file.

Each oligo gets a hairpin and a homodimer calculation, each pair of
oligos a heterodimer. Results are printed as tab separated lines, most
stable first. The file may be gzipped.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oligos, err := seq.ReadFile(args[0])
			if err != nil {
				return err
			}
			a.logger.Printf("%d oligos from %s", len(oligos), args[0])
			an, err := a.analysis(false)
			if err != nil {
				return err
			}
			opts := batch.Options{Workers: a.cfg.Workers, MinTm: a.cfg.MinTm, Logger: a.logger}
			hits, err := batch.Screen(cmd.Context(), an, oligos, opts)
			if err != nil {
				return err
			}
			return batch.WriteTSV(cmd.OutOrStdout(), hits)
		},
	}
	f := cmd.Flags()
	f.IntP(config.KeyWorkers, "j", 0, "number of goroutines, 0 for one per CPU")
	f.Float64(config.KeyMinTm, 0, "only report structures melting above this (°C)")
	for _, k := range []string{config.KeyWorkers, config.KeyMinTm} {
		if err := a.v.BindPFlag(k, f.Lookup(k)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func (a *app) paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params DIR",
		Short: "Write the thermodynamic parameters in use to a directory",
		Long: `Write the thermodynamic parameters in use to a directory.

Without --params, these are the built in values. The files can be
edited and read back with --params DIR.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Println("writing parameters to", args[0])
			return nnparam.WriteDir(a.params, args[0])
		},
	}
}

func docsCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "docs DIR",
		Short:  "Write markdown documentation for every command",
		Args:   exactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root.DisableAutoGenTag = true
			return doc.GenMarkdownTree(root, args[0])
		},
	}
}
