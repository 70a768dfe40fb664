// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/profile"

	sigalign "github.com/baku4/sigalign-sub001"
	"github.com/baku4/sigalign-sub001/locator"
)

var version = "0.1.0"

func main() {
	app := filepath.Base(os.Args[0])
	usage := fmt.Sprintf(`
Anchor-based gap-affine extension benchmark

 Author: Wei Shen <shenwei356@gmail.com>
   Code: https://github.com/shenwei356/wfa
Version: v%s

Input file format (paired lines, '>' query then '<' target):
  see https://github.com/smarco/WFA-paper?tab=readme-ov-file#41-introduction-to-benchmarking-wfa-simple-tests

Usage:
  1. Align two sequences from the positional arguments.

        %s [options] <query seq> <target seq>

  2. Align sequence pairs from the input file (described above).

        %s [options] -i input.txt

Options/Flags:
`, version, app, app)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "print help message")
	infile := flag.String("i", "", "input file")
	localMode := flag.Bool("l", false, "use local alignment instead of semi-global")
	minLen := flag.Uint("min-len", 30, "cutoff minimum alignment length")
	maxPenPerLen := flag.Uint("max-ppl", 4000, "cutoff maximum scaled penalty per length (out of 10000)")
	noAdaptive := flag.Bool("a", false, "disable adaptive wavefront reduction")
	noOutput := flag.Bool("N", false, "do not print alignments (for benchmarking)")

	pprofCPU := flag.Bool("p", false, "cpu pprof. go tool pprof -http=:8080 cpu.pprof")
	pprofMem := flag.Bool("m", false, "mem pprof. go tool pprof -http=:8080 mem.pprof")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if *pprofCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pprofMem {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	outfh := bufio.NewWriter(os.Stdout)
	defer outfh.Flush()

	regulator, err := sigalign.NewRegulator(sigalign.DefaultPenalty, sigalign.Cutoff{
		MinimumLength:                 uint32(*minLen),
		MaximumScaledPenaltyPerLength: uint32(*maxPenPerLen),
	})
	checkError(err)

	al := sigalign.NewAligner(regulator)
	if !*noAdaptive {
		al.AdaptiveReduction = &sigalign.DefaultAdaptiveReductionOption
	}
	defer sigalign.RecycleAligner(al)

	alignPair := func(q, t string) {
		query, target := []byte(q), []byte(t)
		loc := locator.NewAhoCorasickLocator(target)

		var alignment sigalign.QueryAlignment
		var err error
		if *localMode {
			alignment, err = sigalign.LocalAlignment(al, query, target, loc)
		} else {
			alignment, err = sigalign.SemiGlobalAlignment(al, query, target, loc)
		}
		checkError(err)

		if *noOutput {
			return
		}
		for _, r := range alignment {
			fmt.Fprintf(outfh, "query_pos=%d target_pos=%d length=%d penalty=%d cigar=%s\n",
				r.QueryPosition, r.TargetPosition, r.Length, r.Penalty, r.Operations.String())
		}
		fmt.Fprintln(outfh)
	}

	var q, t string

	if *infile == "" {
		if flag.NArg() != 2 {
			checkError(fmt.Errorf("if flag -i not given, please give me two sequences"))
		}
		q = flag.Arg(0)
		t = flag.Arg(1)

		alignPair(q, t)
		return
	}

	fh, err := os.Open(*infile)
	checkError(err)
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	var ok bool
	for scanner.Scan() {
		q = scanner.Text()
		ok = scanner.Scan()
		if !ok {
			break
		}
		t = scanner.Text()

		alignPair(q[1:], t[1:])
	}
	checkError(scanner.Err())
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
