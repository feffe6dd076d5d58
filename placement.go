/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

package malloc

import "math"

const (
	// firstFitClasses is the number of small-size classes searched with
	// plain first-fit rather than bounded better-fit.
	firstFitClasses = 5

	// betterFitMaxTries bounds how many size-candidates are considered
	// within a single class once an acceptable block has been found.
	betterFitMaxTries = 5
)

// findFit searches the segregated index for a free block able to hold
// asize bytes, starting at asize's own class. It returns 0 if none
// exists.
func (a *Arena) findFit(asize uint64) uintptr {
	startClass := classify(asize)

	if startClass < firstFitClasses {
		for c := startClass; c < firstFitClasses; c++ {
			for blk := a.free[c]; blk != 0; blk = getNext(blk) {
				if blockSize(blk) >= asize {
					return blk
				}
			}
		}
	}

	var best uintptr
	bestSize := uint64(math.MaxUint64)

	for c := startClass; c < numClasses; c++ {
		tries := 0
		for blk := a.free[c]; blk != 0; blk = getNext(blk) {
			bs := blockSize(blk)
			if bs == asize {
				return blk
			}
			if bs < asize {
				continue
			}
			if best == 0 {
				best = blk
				bestSize = bs
				tries++
				continue
			}
			if tries >= betterFitMaxTries {
				break
			}
			if bs < bestSize {
				best = blk
				bestSize = bs
			}
			tries++
		}
		if best != 0 {
			return best
		}
	}

	return 0
}

// splitBlock carves a trailing free residue off blk when the leftover
// after satisfying asize is itself at least minBlockSize; otherwise blk
// keeps its full size. blk must already be marked allocated.
func (a *Arena) splitBlock(blk uintptr, asize uint64) {
	bsize := blockSize(blk)
	if bsize-asize >= minBlockSize {
		writeBlock(blk, asize, true)
		residue := findNext(blk)
		writeBlock(residue, bsize-asize, false)
		a.insertFree(residue, classify(bsize-asize))
	} else {
		writeBlock(blk, bsize, true)
	}
}
