/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

// Package malloc implements a general-purpose dynamic memory allocator
// over a single, contiguous, append-only simulated heap (see package
// memlib). It exposes the classic four-operation surface — Malloc,
// Free, Realloc, Calloc — backed by a size-segregated free-list index,
// a bounded better-fit placement policy, and immediate coalescing on
// free and on heap extension.
//
// IMPORTANT: An Arena is NOT goroutine-safe. It is the caller's
// responsibility to serialize access if shared across goroutines.
package malloc
