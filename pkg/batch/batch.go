// 14 March 2024

// Package batch screens a set of oligos for secondary structure. Each
// oligo gets a hairpin and a homodimer calculation and each pair a
// heterodimer. The work is spread over goroutines.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"sort"
	"sync"

	"github.com/andrew-torda/thal/pkg/analysis"
	"github.com/andrew-torda/thal/pkg/seq"
	"github.com/andrew-torda/thal/pkg/thal"
)

// Kind of calculation
type Kind byte

const (
	Hairpin Kind = iota
	Homodimer
	Heterodimer
)

func (k Kind) String() string {
	switch k {
	case Hairpin:
		return "hairpin"
	case Homodimer:
		return "homodimer"
	case Heterodimer:
		return "heterodimer"
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

// Options for Screen. Zero Workers means one per CPU. Hits with no
// structure or a Tm below MinTm are dropped. Logger may be nil.
type Options struct {
	Workers int
	MinTm   float64
	Logger  *log.Logger
}

// Hit is one calculation. Name2 is empty unless Kind is Heterodimer.
type Hit struct {
	Kind   Kind
	Name1  string
	Name2  string
	Result *thal.Result
}

type job struct {
	kind Kind
	i, j int
}

func (o Options) logf(format string, v ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, v...)
	}
}

// jobs are every calculation for n oligos, in a fixed order.
func jobs(n int) []job {
	jj := make([]job, 0, 2*n+n*(n-1)/2)
	for i := 0; i < n; i++ {
		jj = append(jj, job{Hairpin, i, i}, job{Homodimer, i, i})
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			jj = append(jj, job{Heterodimer, i, j})
		}
	}
	return jj
}

func run(an *analysis.Analysis, oligos []seq.Oligo, jb job) (*thal.Result, error) {
	s1 := oligos[jb.i].Seq
	switch jb.kind {
	case Hairpin:
		return an.Hairpin(s1)
	case Homodimer:
		return an.Homodimer(s1)
	default:
		return an.Heterodimer(s1, oligos[jb.j].Seq)
	}
}

type result struct {
	hit Hit
	err error
}

// Screen runs every calculation and returns hits sorted by descending
// Tm. The first error stops the workers and is returned, as is the
// error from a cancelled ctx.
func Screen(ctx context.Context, an *analysis.Analysis, oligos []seq.Oligo, opts Options) ([]Hit, error) {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	for _, o := range oligos {
		if err := o.Check(); err != nil {
			return nil, fmt.Errorf("oligo %q: %w", o.Name, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	work := jobs(len(oligos))
	opts.logf("screening %d oligos, %d calculations on %d workers", len(oligos), len(work), opts.Workers)

	jobch := make(chan job, opts.Workers*2)
	resch := make(chan result, opts.Workers*2)
	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		go func() {
			defer wg.Done()
			for jb := range jobch {
				r, err := run(an, oligos, jb)
				res := result{err: err}
				if err == nil {
					res.hit = Hit{Kind: jb.kind, Name1: oligos[jb.i].Name, Result: r}
					if jb.kind == Heterodimer {
						res.hit.Name2 = oligos[jb.j].Name
					}
				} else {
					res.err = fmt.Errorf("%s %q: %w", jb.kind, oligos[jb.i].Name, err)
				}
				select {
				case resch <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobch)
		for _, jb := range work {
			select {
			case jobch <- jb:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(resch)
	}()

	var hits []Hit
	var firsterr error
	ndone := 0
	for res := range resch {
		if firsterr != nil {
			continue
		}
		if res.err != nil {
			firsterr = res.err
			cancel()
			continue
		}
		ndone++
		if r := res.hit.Result; !r.NoStructure && r.Temp >= opts.MinTm {
			hits = append(hits, res.hit)
		}
	}
	if firsterr != nil {
		return nil, firsterr
	}
	if ndone != len(work) {
		return nil, ctx.Err()
	}
	opts.logf("%d calculations, %d hits", ndone, len(hits))
	sort.SliceStable(hits, func(a, b int) bool {
		ha, hb := hits[a], hits[b]
		if ha.Result.Temp != hb.Result.Temp {
			return ha.Result.Temp > hb.Result.Temp
		}
		if ha.Kind != hb.Kind {
			return ha.Kind < hb.Kind
		}
		if ha.Name1 != hb.Name1 {
			return ha.Name1 < hb.Name1
		}
		return ha.Name2 < hb.Name2
	})
	return hits, nil
}

// WriteTSV writes a header and one line per hit.
func WriteTSV(w io.Writer, hits []Hit) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "kind\toligo1\toligo2\ttm\tdg\tdh\tds")
	for _, h := range hits {
		n2 := h.Name2
		if n2 == "" {
			n2 = "-"
		}
		r := h.Result
		fmt.Fprintf(bw, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n", h.Kind, h.Name1, n2, r.Temp, r.Dg, r.Dh, r.Ds)
	}
	return bw.Flush()
}
