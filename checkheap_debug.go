/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

//go:build mallocdebug

package malloc

import "fmt"

// CheckHeap validates invariants I1-I7 over the whole heap and every
// segregated free list. It is meant for use from tests and from manual
// debugging sessions, not on every public-operation call.
func (a *Arena) CheckHeap(line int) bool {
	if !a.checkFreeLists(line) {
		return false
	}
	return a.checkHeapWalk(line)
}

func (a *Arena) checkFreeLists(line int) bool {
	for class := 0; class < numClasses; class++ {
		if !checkNoCycle(a.free[class]) {
			fmt.Printf("checkheap(%d): cycle in free list class %d\n", line, class)
			return false
		}
		for blk := a.free[class]; blk != 0; blk = getNext(blk) {
			size := blockSize(blk)
			if classify(size) != class {
				fmt.Printf("checkheap(%d): block %#x of size %d misfiled in class %d\n", line, blk, size, class)
				return false
			}
			if loadWord(blk).alloc() {
				fmt.Printf("checkheap(%d): allocated block %#x present on free list\n", line, blk)
				return false
			}
			if class != 0 {
				if n := getNext(blk); n != 0 && getPrev(n) != blk {
					fmt.Printf("checkheap(%d): broken back-pointer after block %#x\n", line, blk)
					return false
				}
			}
		}
	}
	return true
}

// checkNoCycle runs tortoise-and-hare detection over a free list so a
// corrupted link can't send the checker itself into an infinite loop.
func checkNoCycle(head uintptr) bool {
	slow, fast := head, head
	for fast != 0 {
		fast = getNext(fast)
		if fast == 0 {
			return true
		}
		fast = getNext(fast)
		slow = getNext(slow)
		if slow == fast {
			return false
		}
	}
	return true
}

func (a *Arena) checkHeapWalk(line int) bool {
	lo := uintptr(a.heap.Lo())
	hi := uintptr(a.heap.Hi())

	if a.heapStart != lo+wordSize {
		fmt.Printf("checkheap(%d): heap_start is not one word past the prologue\n", line)
		return false
	}
	if loadWord(a.heapStart - wordSize).size() != 0 {
		fmt.Printf("checkheap(%d): prologue is malformed\n", line)
		return false
	}

	prevFree := false
	prevMin := false
	blk := a.heapStart
	for blk != a.epilogue {
		if blk < lo || blk > hi {
			fmt.Printf("checkheap(%d): block %#x outside heap bounds [%#x, %#x]\n", line, blk, lo, hi)
			return false
		}

		hdr := loadWord(blk)
		free := !hdr.alloc()
		size := hdr.size()

		// I2: the header's prevAlloc/prevMin bits describe the block walked
		// just before this one.
		if hdr.prevAlloc() == prevFree || hdr.prevMin() != prevMin {
			fmt.Printf("checkheap(%d): stale prevAlloc/prevMin bits at block %#x\n", line, blk)
			return false
		}

		if free && size > minBlockSize {
			// Only size and allocation status need to agree (I1): the
			// prevAlloc/prevMin bits belong to whichever block is
			// currently physically before this one, and only the header
			// is kept in sync with that as neighbors change — the footer
			// is written once, at the block's own last size change, and
			// is only ever read back for its size.
			footer := loadWord(blk + uintptr(size) - wordSize)
			if footer.size() != hdr.size() || footer.alloc() != hdr.alloc() {
				fmt.Printf("checkheap(%d): header/footer mismatch at block %#x\n", line, blk)
				return false
			}
		}
		if free && prevFree {
			fmt.Printf("checkheap(%d): two consecutive free blocks ending at %#x\n", line, blk)
			return false
		}
		// I4: every free block in the walk is on the list of its class.
		if free {
			onList := false
			for n := a.free[classify(size)]; n != 0; n = getNext(n) {
				if n == blk {
					onList = true
					break
				}
			}
			if !onList {
				fmt.Printf("checkheap(%d): free block %#x missing from its free list\n", line, blk)
				return false
			}
		}
		prevFree = free
		prevMin = size == minBlockSize
		blk = findNext(blk)
	}

	epHdr := loadWord(a.epilogue)
	if epHdr.size() != 0 || !epHdr.alloc() || epHdr.prevAlloc() == prevFree || epHdr.prevMin() != prevMin {
		fmt.Printf("checkheap(%d): malformed epilogue at %#x\n", line, a.epilogue)
		return false
	}
	return true
}
