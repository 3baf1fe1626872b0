package fp

// Trig and sqrt are implemented as pure fixed-point integer algorithms
// rather than by converting to float64 and back: float rounding behavior
// can differ subtly across compilers/architectures, which would break the
// bit-exact determinism this whole package exists to guarantee. The
// constants below are computed once at package init from float64 literals of
// π and e, which Go evaluates identically on every platform (IEEE-754 double
// arithmetic), so this is safe even though it touches float64.

var (
	// Pi, HalfPi and TwoPi are the usual circle constants in Q48.16.
	Pi     = FromFloat64(3.14159265358979323846)
	HalfPi = Pi.Div(Two)
	TwoPi  = Pi.Mul(Two)
	// E is Euler's number in Q48.16, provided for parity with the reference
	// fixed-point library even though the kernel doesn't currently use it.
	E = FromFloat64(2.71828182845904523536)
)

// reduceAngle wraps x into [-Pi, Pi].
func reduceAngle(x Fixed) Fixed {
	q := x.Div(TwoPi)
	qi := q.Floor()
	x = x.Sub(TwoPi.Mul(qi))
	if x.GreaterThan(Pi) {
		x = x.Sub(TwoPi)
	}
	if x.LessThan(Pi.Neg()) {
		x = x.Add(TwoPi)
	}
	return x
}

// Sin computes sine via the Bhaskara I rational approximation, evaluated
// entirely in fixed-point so every peer produces the same raw result.
func Sin(x Fixed) Fixed {
	x = reduceAngle(x)

	neg := x.IsNegative()
	if neg {
		x = x.Neg()
	}

	piMinusX := Pi.Sub(x)
	numerator := FromInt(16).Mul(x).Mul(piMinusX)
	denominator := FromInt(5).Mul(Pi).Mul(Pi).Sub(FromInt(4).Mul(x).Mul(piMinusX))
	result := numerator.Div(denominator)

	if neg {
		result = result.Neg()
	}
	return result
}

// Cos computes cosine as Sin shifted by a quarter turn.
func Cos(x Fixed) Fixed {
	return Sin(x.Add(HalfPi))
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(degrees Fixed) Fixed {
	return degrees.Mul(Pi).Div(FromInt(180))
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(radians Fixed) Fixed {
	return radians.Mul(FromInt(180)).Div(Pi)
}

// atanApprox approximates atan(z) for |z| <= 1 using a standard minimax
// polynomial, accurate to roughly 0.09 degrees (0.0015 radians).
func atanApprox(z Fixed) Fixed {
	absZ := z.Abs()
	c1 := FromFloat64(0.2447)
	c2 := FromFloat64(0.0663)
	term := absZ.Sub(One).Mul(c1.Add(c2.Mul(absZ)))
	return HalfPi.Div(Two).Mul(z).Sub(z.Mul(term))
}

// Atan2 computes the angle (in radians) between the positive X axis and the
// point (x, y), in [-Pi, Pi].
func Atan2(y, x Fixed) Fixed {
	if y.Abs().GreaterThan(x.Abs()) {
		// |y/x| > 1 is outside atanApprox's range: use
		// atan(y/x) = ±Pi/2 - atan(x/y) instead.
		a := atanApprox(x.Div(y))
		if y.IsNegative() {
			return HalfPi.Neg().Sub(a)
		}
		return HalfPi.Sub(a)
	}
	if x.GreaterThan(Zero) {
		return atanApprox(y.Div(x))
	}
	if x.LessThan(Zero) {
		if !y.IsNegative() {
			return atanApprox(y.Div(x)).Add(Pi)
		}
		return atanApprox(y.Div(x)).Sub(Pi)
	}
	// x == 0
	if y.GreaterThan(Zero) {
		return HalfPi
	}
	if y.LessThan(Zero) {
		return HalfPi.Neg()
	}
	return Zero
}

// Sqrt computes the square root via fixed-point Newton-Raphson iteration.
// Negative or zero input returns zero, matching the kernel's policy of
// degrading gracefully rather than propagating NaN-like states.
func Sqrt(x Fixed) Fixed {
	if x.LessOrEqual(Zero) {
		return Zero
	}

	guess := x
	if guess.LessThan(One) {
		guess = One
	}

	for i := 0; i < 24; i++ {
		guess = guess.Add(x.Div(guess)).Div(Two)
	}
	return guess
}
