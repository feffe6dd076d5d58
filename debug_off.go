/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

//go:build !mallocdebug

package malloc

// dbgAssert is a no-op in release builds.
func dbgAssert(cond bool, format string, args ...any) {}
