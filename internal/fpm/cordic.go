package fpm

import "math"

// CORDIC runs on Q30 angles so that the table rounding stays well below one
// Q16 LSB after all iterations.
const (
	cordicIterations = 30
	cordicFracBits   = 30
	cordicShift      = cordicFracBits - FracBits
)

var (
	cordicAtanTable = func() [cordicIterations]int64 {
		var t [cordicIterations]int64
		for i := range t {
			t[i] = int64(math.Round(math.Atan(math.Ldexp(1, -i)) * (1 << cordicFracBits)))
		}
		return t
	}()

	// 1/K for the rotation-mode gain.
	cordicInvGain = int64(math.Round(0.6072529350088812561694 * (1 << cordicFracBits)))

	cordicPi     = int64(math.Round(math.Pi * (1 << cordicFracBits)))
	cordicHalfPi = int64(math.Round(math.Pi / 2 * (1 << cordicFracBits)))
)

// cordicAtan2 returns atan2(y, x) in Q16 radians using vectoring mode.
func cordicAtan2(y, x int64) Q16 {
	if x == 0 && y == 0 {
		return 0
	}

	// Normalize magnitude so the shifts below keep precision on small inputs.
	for abs64(x) < 1<<30 && abs64(y) < 1<<30 {
		x <<= 1
		y <<= 1
	}

	var z int64
	if x < 0 {
		if y >= 0 {
			z = cordicPi
		} else {
			z = -cordicPi
		}
		x, y = -x, -y
	}

	for i := 0; i < cordicIterations; i++ {
		if y > 0 {
			x, y, z = x+(y>>i), y-(x>>i), z+cordicAtanTable[i]
		} else {
			x, y, z = x-(y>>i), y+(x>>i), z-cordicAtanTable[i]
		}
	}

	return saturate(roundShift(z, cordicShift))
}

// cordicSincos returns sin(theta) and cos(theta) for theta in [-pi, pi].
func cordicSincos(theta Q16) (Q16, Q16) {
	z := int64(theta) << cordicShift

	negate := false
	if z > cordicHalfPi {
		z -= cordicPi
		negate = true
	} else if z < -cordicHalfPi {
		z += cordicPi
		negate = true
	}

	x, y := cordicInvGain, int64(0)
	for i := 0; i < cordicIterations; i++ {
		if z >= 0 {
			x, y, z = x-(y>>i), y+(x>>i), z-cordicAtanTable[i]
		} else {
			x, y, z = x+(y>>i), y-(x>>i), z+cordicAtanTable[i]
		}
	}

	if negate {
		x, y = -x, -y
	}
	return saturate(roundShift(y, cordicShift)), saturate(roundShift(x, cordicShift))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
