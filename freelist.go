/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

package malloc

// numClasses is the length of the segregated free-list array: one
// minimum-size class, seven exact-size classes up to 128 bytes, and
// seven power-of-two buckets above that.
const numClasses = 15

var exactClassSizes = [8]uint64{minBlockSize, 32, 48, 64, 80, 96, 112, 128}

// classify maps a block size to the index of the free list it belongs
// on. It is a total function: every legal size (a multiple of 16, at
// least minBlockSize) yields exactly one class.
func classify(size uint64) int {
	for i, s := range exactClassSizes {
		if size == s {
			return i
		}
	}
	class := 8 + msb(size) - 7
	if class > numClasses-1 {
		class = numClasses - 1
	}
	return class
}

// Free-list nodes reuse the payload: word 0 holds next, word 1 holds
// prev (non-minimum classes only — a minimum block's payload has room
// for just one link).

// go:inline
func getNext(blk uintptr) uintptr { return loadLink(blk + wordSize) }

// go:inline
func setNext(blk uintptr, p uintptr) { storeLink(blk+wordSize, p) }

// go:inline
func getPrev(blk uintptr) uintptr { return loadLink(blk + wordSize + wordSize) }

// go:inline
func setPrev(blk uintptr, p uintptr) { storeLink(blk+wordSize+wordSize, p) }

// clearLinks zeroes a removed node's link fields, to catch use of a
// dangling free-list pointer in debug builds.
func clearLinks(blk uintptr) {
	setNext(blk, 0)
	if blockSize(blk) > minBlockSize {
		setPrev(blk, 0)
	}
}

// insertFree inserts blk, LIFO, at the head of its size class's list.
func (a *Arena) insertFree(blk uintptr, class int) {
	head := a.free[class]
	if class == 0 {
		setNext(blk, head)
		a.free[0] = blk
		return
	}
	setPrev(blk, 0)
	setNext(blk, head)
	if head != 0 {
		setPrev(head, blk)
	}
	a.free[class] = blk
}

// deleteFree removes blk from its size class's list. The minimum class
// is singly linked, so removal there is a linear scan from the head.
func (a *Arena) deleteFree(blk uintptr, class int) {
	if class == 0 {
		if a.free[0] == blk {
			a.free[0] = getNext(blk)
			clearLinks(blk)
			return
		}
		for cur := a.free[0]; cur != 0; cur = getNext(cur) {
			if getNext(cur) == blk {
				setNext(cur, getNext(blk))
				break
			}
		}
		clearLinks(blk)
		return
	}

	prev := getPrev(blk)
	next := getNext(blk)
	if prev != 0 {
		setNext(prev, next)
	} else {
		a.free[class] = next
	}
	if next != 0 {
		setPrev(next, prev)
	}
	clearLinks(blk)
}
