/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

// tracebench replays a trace of alloc/free/realloc operations against an
// Arena and reports peak utilization and throughput. Traces use the
// one-op-per-line ".rep" format: "a id size" allocates and remembers the
// result under id, "f id" frees whatever is remembered under id, and
// "r id size" reallocates it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/amtrtt27/malloc"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: tracebench <trace-file> [max-heap-bytes]\n")
		os.Exit(1)
	}

	maxHeap := 0
	if len(os.Args) >= 3 {
		n, err := parseSize(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "tracebench: bad max-heap-bytes: %v\n", err)
			os.Exit(1)
		}
		maxHeap = n
	}

	ops, err := parseTrace(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracebench: %v\n", err)
		os.Exit(1)
	}

	report, err := run(ops, maxHeap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracebench: %v\n", err)
		os.Exit(1)
	}
	report.print(os.Stdout)
}

type report struct {
	ops      int
	elapsed  time.Duration
	peakUsed int64
	peakHeap int64
}

func (r report) print(w *os.File) {
	util := 0.0
	if r.peakHeap > 0 {
		util = float64(r.peakUsed) / float64(r.peakHeap)
	}
	fmt.Fprintf(w, "ops:        %d\n", r.ops)
	fmt.Fprintf(w, "elapsed:    %s\n", r.elapsed)
	fmt.Fprintf(w, "ops/sec:    %.0f\n", float64(r.ops)/r.elapsed.Seconds())
	fmt.Fprintf(w, "peak used:  %d bytes\n", r.peakUsed)
	fmt.Fprintf(w, "peak heap:  %d bytes\n", r.peakHeap)
	fmt.Fprintf(w, "utilization: %.4f\n", util)
}

func run(ops []traceOp, maxHeap int) (report, error) {
	a := malloc.NewArena(maxHeap)
	if err := a.Init(); err != nil {
		return report{}, fmt.Errorf("Init: %w", err)
	}

	live := make(map[int]uintptrLike)
	var peakUsed, peakHeap int64

	start := time.Now()
	for _, op := range ops {
		switch op.kind {
		case opAlloc:
			p, err := a.Malloc(op.size)
			if err != nil {
				return report{}, fmt.Errorf("malloc id=%d size=%d: %w", op.id, op.size, err)
			}
			live[op.id] = uintptrLike{p: p}
		case opFree:
			entry, ok := live[op.id]
			if !ok {
				return report{}, fmt.Errorf("free id=%d: id never allocated", op.id)
			}
			a.Free(entry.p)
			delete(live, op.id)
		case opRealloc:
			entry, ok := live[op.id]
			if !ok {
				return report{}, fmt.Errorf("realloc id=%d: id never allocated", op.id)
			}
			p, err := a.Realloc(entry.p, op.size)
			if err != nil {
				return report{}, fmt.Errorf("realloc id=%d size=%d: %w", op.id, op.size, err)
			}
			live[op.id] = uintptrLike{p: p}
		}

		if used := a.UsedSize(); used > peakUsed {
			peakUsed = used
		}
		if hs := a.HeapSize(); hs > peakHeap {
			peakHeap = hs
		}
	}
	elapsed := time.Since(start)

	return report{
		ops:      len(ops),
		elapsed:  elapsed,
		peakUsed: peakUsed,
		peakHeap: peakHeap,
	}, nil
}
