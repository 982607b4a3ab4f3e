// SPDX-License-Identifier: GPL-2.0-or-later

package math

type Number interface {
	int64 | float64 | float32 | int
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// Wrap maps val into [0,n). n must be positive.
func Wrap[K int | int64](val, n K) K {
	val %= n
	if val < 0 {
		val += n
	}
	return val
}
