/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

package malloc

// coalesce merges blk, already marked free, with whichever of its
// immediate physical neighbors are also free, maintaining I3 (no two
// adjacent free blocks). The previous block's allocation state is read
// from blk's own prevAlloc bit, never by walking backward over a
// neighbor that might be allocated and footerless.
func (a *Arena) coalesce(blk uintptr) uintptr {
	hdr := loadWord(blk)
	prevAlloc := hdr.prevAlloc()

	next := findNext(blk)
	nextAlloc := loadWord(next).alloc()

	size := blockSize(blk)

	switch {
	case prevAlloc && nextAlloc:
		a.insertFree(blk, classify(size))
		return blk

	case prevAlloc && !nextAlloc:
		nsize := blockSize(next)
		a.deleteFree(next, classify(nsize))
		size += nsize
		writeBlock(blk, size, false)
		a.insertFree(blk, classify(size))
		return blk

	case !prevAlloc && nextAlloc:
		prev := findPrev(blk)
		psize := blockSize(prev)
		a.deleteFree(prev, classify(psize))
		size += psize
		writeBlock(prev, size, false)
		a.insertFree(prev, classify(size))
		return prev

	default:
		prev := findPrev(blk)
		psize := blockSize(prev)
		nsize := blockSize(next)
		a.deleteFree(prev, classify(psize))
		a.deleteFree(next, classify(nsize))
		size += psize + nsize
		writeBlock(prev, size, false)
		a.insertFree(prev, classify(size))
		return prev
	}
}
