/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

package malloc

import "unsafe"

// A block is identified by the address of its header: a raw offset into
// the Arena's backing memlib.Heap. Allocated blocks carry only a header;
// free blocks larger than minBlockSize also carry a footer, and reuse
// the first one or two payload words as free-list links.

// go:inline
func loadWord(addr uintptr) word {
	return *(*word)(unsafe.Pointer(addr))
}

// go:inline
func storeWord(addr uintptr, w word) {
	*(*word)(unsafe.Pointer(addr)) = w
}

// go:inline
func loadLink(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(addr))
}

// go:inline
func storeLink(addr uintptr, p uintptr) {
	*(*uintptr)(unsafe.Pointer(addr)) = p
}

// blockSize returns the size recorded in blk's header.
func blockSize(blk uintptr) uint64 {
	return loadWord(blk).size()
}

// header converts a payload pointer, as handed back to a caller of
// Malloc/Calloc, into the address of the owning block's header.
func header(ptr unsafe.Pointer) uintptr {
	return uintptr(ptr) - wordSize
}

// payload returns the payload pointer for a block, valid once the block
// has been marked allocated.
func payload(blk uintptr) unsafe.Pointer {
	return unsafe.Pointer(blk + wordSize)
}

// payloadSize returns the usable byte count of blk's payload, which
// differs between allocated blocks (footerless) and free ones.
func payloadSize(blk uintptr) uint64 {
	hdr := loadWord(blk)
	if hdr.alloc() {
		return hdr.size() - wordSize
	}
	return hdr.size() - dwordSize
}

// findNext returns the physically adjacent next block.
// Precondition: blk is not the epilogue.
func findNext(blk uintptr) uintptr {
	return blk + uintptr(blockSize(blk))
}

// findPrev returns the physically adjacent previous block.
// Precondition: blk's prevAlloc bit is false — an allocated predecessor
// carries no footer and its boundary cannot be recovered this way.
func findPrev(blk uintptr) uintptr {
	hdr := loadWord(blk)
	if hdr.prevMin() {
		return blk - minBlockSize
	}
	footer := loadWord(blk - wordSize)
	return blk - uintptr(footer.size())
}

// writeEpilogue writes the zero-size, always-allocated sentinel header
// at blk, preserving whatever prevAlloc/prevMin bits are already there.
func writeEpilogue(blk uintptr) {
	old := loadWord(blk)
	storeWord(blk, pack(0, true, old.prevAlloc(), old.prevMin()))
}

// writeBlock writes blk's header (and footer, if free and larger than
// minBlockSize) with the given size and allocation status, preserving
// the prevAlloc/prevMin bits already recorded there, then propagates
// this block's new allocation status and size onto the next physical
// block's header. That propagation is the single source of truth for
// keeping prevAlloc/prevMin correct everywhere (invariant I2).
func writeBlock(blk uintptr, size uint64, alloc bool) {
	old := loadWord(blk)
	hdr := pack(size, alloc, old.prevAlloc(), old.prevMin())
	storeWord(blk, hdr)
	if !alloc && size > minBlockSize {
		storeWord(blk+uintptr(size)-wordSize, hdr)
	}

	next := blk + uintptr(size)
	nextOld := loadWord(next)
	nextHdr := pack(nextOld.size(), nextOld.alloc(), alloc, size == minBlockSize)
	storeWord(next, nextHdr)
}
