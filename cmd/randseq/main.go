// 31 July 2020
// 14 March 2024 run() and the structure filter

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/andrew-torda/thal/pkg/analysis"
	. "github.com/andrew-torda/thal/pkg/common"
	"github.com/andrew-torda/thal/pkg/randseq"
)

// structFilter keeps oligos whose hairpin and homodimer melt below
// maxTm.
func structFilter(maxTm float64) (func([]byte) bool, error) {
	c := analysis.DefaultConditions()
	c.TempOnly = true
	an, err := analysis.New(nil, c)
	if err != nil {
		return nil, err
	}
	return func(s []byte) bool {
		for _, f := range []func([]byte) (float64, error){
			func(s []byte) (float64, error) { r, err := an.Hairpin(s); return r.Temp, err },
			func(s []byte) (float64, error) { r, err := an.Homodimer(s); return r.Temp, err },
		} {
			if tm, err := f(s); err != nil || tm >= maxTm {
				return false
			}
		}
		return true
	}, nil
}

// posInt converts a command line argument.
func posInt(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("Failed converting %s to positive integer", s)
	}
	return int(n), nil
}

// run is main, but returns the exit code.
func run(argv []string, stdout, stderr io.Writer) int {
	f := flag.NewFlagSet("randseq", flag.ContinueOnError)
	f.SetOutput(stderr)
	const iseed int64 = 1637
	var args randseq.RandSeqArgs
	var maxTm float64

	f.BoolVar(&args.NoSpace, "s", false, "do not scatter white space through sequences")
	f.BoolVar(&args.MkErr, "e", false, "provoke errors")
	f.Float64Var(&args.GC, "gc", 0.5, "fraction of G and C")
	f.Int64Var(&args.Iseed, "r", iseed, "random number seed")
	f.StringVar(&args.Cmmt, "c", "oligo", "comment for each sequence")
	f.Float64Var(&maxTm, "hp", 0, "only oligos whose hairpin and homodimer melt below this (°C), 0 for any")
	if err := f.Parse(argv); err != nil {
		return ExitUsageError
	}
	if f.NArg() != 3 {
		fmt.Fprintln(stderr, "Wrong number of args\nrandseq [..] file nseq length")
		f.Usage()
		return ExitUsageError
	}
	var err error
	if args.Nseq, err = posInt(f.Arg(1)); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsageError
	}
	if args.Len, err = posInt(f.Arg(2)); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsageError
	}
	if maxTm != 0 {
		if args.Keep, err = structFilter(maxTm); err != nil {
			fmt.Fprintln(stderr, err)
			return ExitFailure
		}
	}

	args.Wrtr = stdout
	if fname := f.Arg(0); fname != "-" && fname != "" {
		ft, err := os.Create(fname)
		if err != nil {
			fmt.Fprintln(stderr, "File for output:", err)
			return ExitFailure
		}
		defer ft.Close()
		args.Wrtr = ft
	}
	if err := randseq.RandSeqMain(&args); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitFailure
	}
	return ExitSuccess
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
