package malloc

import "testing"

func TestFindFitReturnsExactMatchImmediately(t *testing.T) {
	t.Parallel()
	a := newTestArena(t)
	small := makeBlock(t, a, 512)
	exact := makeBlock(t, a, 1024)
	big := makeBlock(t, a, 2048)
	a.insertFree(small, classify(512))
	a.insertFree(exact, classify(1024))
	a.insertFree(big, classify(2048))

	if got := a.findFit(1024); got != exact {
		t.Fatalf("findFit(1024) = %#x, want exact match %#x", got, exact)
	}
}

func TestFindFitFirstFitAmongSmallClasses(t *testing.T) {
	t.Parallel()
	a := newTestArena(t)
	// Two blocks both able to satisfy a 48-byte request, in the same
	// small (first-fit) class; the list head (the one inserted last)
	// should win.
	first := makeBlock(t, a, 64)
	second := makeBlock(t, a, 64)
	class := classify(64)
	a.insertFree(second, class) // second becomes head (LIFO)...
	a.insertFree(first, class)  // ...then first, so first is now head

	got := a.findFit(48)
	if got != first {
		t.Fatalf("findFit(48) = %#x, want head-of-list block %#x", got, first)
	}
}

func TestFindFitReturnsZeroWhenNothingFits(t *testing.T) {
	t.Parallel()
	a := newTestArena(t)
	if got := a.findFit(4096); got != 0 {
		t.Fatalf("findFit on empty index = %#x, want 0", got)
	}
}

func TestFindFitBoundedBetterFitPrefersSmallestWithinCap(t *testing.T) {
	t.Parallel()
	a := newTestArena(t)
	// Two candidates in the same large class, both able to satisfy the
	// request; better-fit should prefer the smaller one regardless of
	// insertion order.
	smaller := makeBlock(t, a, 1040)
	bigger := makeBlock(t, a, 1200)
	if classify(1040) != classify(1200) {
		t.Fatalf("test setup assumption broken: candidates landed in different classes")
	}
	a.insertFree(smaller, classify(1040))
	a.insertFree(bigger, classify(1200)) // bigger is now the list head

	got := a.findFit(1024)
	if got != smaller {
		t.Fatalf("findFit(1024) = %#x, want smaller candidate %#x", got, smaller)
	}
}

func TestSplitBlockCarvesResidueWhenLargeEnough(t *testing.T) {
	t.Parallel()
	a := newTestArena(t)
	blk := makeBlock(t, a, 128)
	writeBlock(blk, 128, true) // split precondition: block is allocated

	a.splitBlock(blk, 48)

	if blockSize(blk) != 48 {
		t.Fatalf("blk size = %d, want 48", blockSize(blk))
	}
	residue := findNext(blk)
	if blockSize(residue) != 80 {
		t.Fatalf("residue size = %d, want 80", blockSize(residue))
	}
	if loadWord(residue).alloc() {
		t.Fatalf("residue should be free")
	}
	if a.free[classify(80)] != residue {
		t.Fatalf("residue was not inserted into its free class")
	}
}

func TestSplitBlockStillSplitsWhenResidueIsExactlyMinBlockSize(t *testing.T) {
	t.Parallel()
	a := newTestArena(t)
	blk := makeBlock(t, a, 48)
	writeBlock(blk, 48, true)

	// Since every block size is a multiple of 16, a residue below
	// minBlockSize is impossible: it is either 0 (no split, tested
	// below) or at least minBlockSize, which must still be carved off.
	a.splitBlock(blk, 32)

	if blockSize(blk) != 32 {
		t.Fatalf("blk size = %d, want 32", blockSize(blk))
	}
	residue := findNext(blk)
	if blockSize(residue) != minBlockSize {
		t.Fatalf("residue size = %d, want exactly minBlockSize", blockSize(residue))
	}
}

func TestSplitBlockNoResidueWhenExact(t *testing.T) {
	t.Parallel()
	a := newTestArena(t)
	blk := makeBlock(t, a, 32)
	writeBlock(blk, 32, true)

	a.splitBlock(blk, 32)

	if blockSize(blk) != 32 {
		t.Fatalf("blk size = %d, want unchanged 32", blockSize(blk))
	}
	if !loadWord(blk).alloc() {
		t.Fatalf("blk should remain allocated")
	}
}
