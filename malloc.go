/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

package malloc

import (
	"unsafe"

	"github.com/amtrtt27/malloc/memlib"
)

// Arena is a single allocator instance: one simulated heap plus the
// segregated free-list index over it.
//
// WARNING: Arena is NOT goroutine-safe.
type Arena struct {
	heap      *memlib.Heap
	maxHeap   int
	heapStart uintptr
	epilogue  uintptr
	free      [numClasses]uintptr
	usedSize  int64
}

// NewArena creates an allocator whose simulated heap may grow up to
// maxHeapBytes. maxHeapBytes <= 0 selects memlib.DefaultMaxHeap. The
// returned Arena has no heap until Init runs; Malloc (and so Realloc
// and Calloc) calls Init itself on an Arena that has none yet.
func NewArena(maxHeapBytes int) *Arena {
	return &Arena{maxHeap: maxHeapBytes}
}

// Init (re)initializes the arena: a fresh simulated heap, prologue and
// epilogue sentinels, empty free lists, and one initial free block of
// chunkSize. A second call fully resets all prior state.
func (a *Arena) Init() error {
	h, err := memlib.New(a.maxHeap)
	if err != nil {
		return err
	}
	a.heap = h
	a.usedSize = 0
	for i := range a.free {
		a.free[i] = 0
	}

	base, err := h.Extend(dwordSize)
	if err != nil {
		return ErrOutOfMemory
	}
	prologue := uintptr(base)
	storeWord(prologue, pack(0, true, false, false))

	epilogue := prologue + wordSize
	storeWord(epilogue, pack(0, true, true, false))

	a.heapStart = epilogue
	a.epilogue = epilogue

	if _, err := a.extendHeap(chunkSize); err != nil {
		return err
	}
	return nil
}

// extendHeap grows the backing heap by at least minSize bytes, turns
// the new region into one free block, relocates the epilogue past it,
// and coalesces against the previous block if it was free. It returns
// the address of the (possibly merged) free block.
func (a *Arena) extendHeap(minSize uint64) (uintptr, error) {
	size := roundUp(minSize, dwordSize)
	blk := a.epilogue

	if _, err := a.heap.Extend(int64(size)); err != nil {
		return 0, ErrOutOfMemory
	}

	writeBlock(blk, size, false)
	next := findNext(blk)
	writeEpilogue(next)
	a.epilogue = next

	return a.coalesce(blk), nil
}

// Malloc allocates a block able to hold size bytes and returns a pointer
// to its payload. A zero-sized request returns (nil, nil) without
// touching the heap.
func (a *Arena) Malloc(size uint64) (unsafe.Pointer, error) {
	if a.heap == nil {
		if err := a.Init(); err != nil {
			return nil, err
		}
	}
	if size == 0 {
		return nil, nil
	}

	asize := roundUp(size+wordSize, dwordSize)
	if asize < minBlockSize {
		asize = minBlockSize
	}

	blk := a.findFit(asize)
	if blk == 0 {
		extendSize := maxU64(asize, chunkSize)
		nb, err := a.extendHeap(extendSize)
		if err != nil {
			return nil, err
		}
		blk = nb
	}
	dbgAssert(!loadWord(blk).alloc(), "findFit/extendHeap returned an allocated block")

	bsize := blockSize(blk)
	writeBlock(blk, bsize, true)
	a.deleteFree(blk, classify(bsize))
	a.splitBlock(blk, asize)

	a.usedSize += int64(blockSize(blk))
	return payload(blk), nil
}

// Free returns the block owning ptr to the heap, coalescing it with any
// free physical neighbors. Freeing nil is a no-op.
func (a *Arena) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	blk := header(ptr)
	dbgAssert(loadWord(blk).alloc(), "Free called on a block that is not allocated")

	a.usedSize -= int64(blockSize(blk))
	writeBlock(blk, blockSize(blk), false)
	a.coalesce(blk)
}

// Realloc resizes the allocation at ptr to size bytes, preserving
// min(size, old payload size) bytes of content. realloc(nil, n) behaves
// as Malloc(n); realloc(ptr, 0) behaves as Free(ptr) and returns nil.
func (a *Arena) Realloc(ptr unsafe.Pointer, size uint64) (unsafe.Pointer, error) {
	if size == 0 {
		a.Free(ptr)
		return nil, nil
	}
	if ptr == nil {
		return a.Malloc(size)
	}

	blk := header(ptr)
	oldPayload := payloadSize(blk)

	newPtr, err := a.Malloc(size)
	if err != nil || newPtr == nil {
		return nil, err
	}

	n := size
	if oldPayload < n {
		n = oldPayload
	}
	a.heap.Write(newPtr, a.heap.Read(ptr, int(n)))

	a.Free(ptr)
	return newPtr, nil
}

// Calloc allocates space for n elements of size bytes each, zero-filled.
// It reports ErrOverflow rather than wrapping if n*size overflows.
func (a *Arena) Calloc(n, size uint64) (unsafe.Pointer, error) {
	if n == 0 {
		return nil, nil
	}
	total := n * size
	if size != 0 && total/n != size {
		return nil, ErrOverflow
	}

	ptr, err := a.Malloc(total)
	if err != nil || ptr == nil {
		return ptr, err
	}
	a.heap.Zero(ptr, int(total))
	return ptr, nil
}

// UsedSize reports the total block size (header included, payload
// rounding included) currently allocated by the arena.
func (a *Arena) UsedSize() int64 {
	return a.usedSize
}

// HeapSize reports how many bytes the backing simulated heap has grown
// to, i.e. the current peak footprint of the arena.
func (a *Arena) HeapSize() int64 {
	if a.heap == nil {
		return 0
	}
	return int64(a.heap.Size())
}
