//go:build mallocdebug

package malloc

import (
	"testing"
	"unsafe"
)

func TestCheckHeapPassesOnFreshInit(t *testing.T) {
	a := NewArena(1 << 20)
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !a.CheckHeap(0) {
		t.Fatalf("CheckHeap failed right after Init")
	}
}

func TestCheckHeapPassesAcrossMallocFreeChurn(t *testing.T) {
	a := NewArena(1 << 20)
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var ptrs []unsafe.Pointer
	for i := 0; i < 200; i++ {
		p, err := a.Malloc(uint64(8 + (i%37)*8))
		if err != nil {
			t.Fatalf("Malloc: %v", err)
		}
		if !a.CheckHeap(i) {
			t.Fatalf("CheckHeap failed after Malloc #%d", i)
		}
		ptrs = append(ptrs, p)
		if i%3 == 0 && len(ptrs) > 0 {
			victim := ptrs[0]
			ptrs = ptrs[1:]
			a.Free(victim)
			if !a.CheckHeap(i) {
				t.Fatalf("CheckHeap failed after Free during churn at step %d", i)
			}
		}
	}

	for _, p := range ptrs {
		a.Free(p)
	}
	if !a.CheckHeap(-1) {
		t.Fatalf("CheckHeap failed after draining all live allocations")
	}
}

func TestCheckHeapDetectsFreeListMisclassification(t *testing.T) {
	a := NewArena(1 << 20)
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	p, err := a.Malloc(64)
	if err != nil {
		t.Fatalf("Malloc: %v", err)
	}
	a.Free(p)

	blk := header(p)
	wrongClass := (classify(blockSize(blk)) + 1) % numClasses
	a.deleteFree(blk, classify(blockSize(blk)))
	a.insertFree(blk, wrongClass)

	if a.CheckHeap(0) {
		t.Fatalf("CheckHeap should have caught a misfiled free block")
	}
}
