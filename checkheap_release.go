/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

//go:build !mallocdebug

package malloc

// CheckHeap always returns true in release builds. Build with the
// mallocdebug tag to get the real invariant checker.
func (a *Arena) CheckHeap(line int) bool {
	return true
}
