/* This program is free software. It comes without any warranty, to
 * the extent permitted by applicable law. You can redistribute it
 * and/or modify it under the terms of the Do What The Fuck You Want
 * To Public License, Version 2, as published by Sam Hocevar. See
 * http://sam.zoy.org/wtfpl/COPYING for more details. */

package malloc

import "errors"

// ErrOutOfMemory is returned when the backing heap primitive cannot
// satisfy a heap-extension request. The heap remains consistent.
var ErrOutOfMemory = errors.New("malloc: heap extension failed")

// ErrOverflow is returned by Calloc when n*size overflows uint64.
var ErrOverflow = errors.New("malloc: calloc size overflow")
