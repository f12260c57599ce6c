// Package interval implements conservative interval arithmetic over float64.
//
// Every operation returns an interval guaranteed to contain the image of the
// exact operation over the inputs. Results may be wider than the true image;
// callers prune spatial regions only when an interval excludes zero, so
// over-approximation is always safe.
package interval

import "math"

// Interval is a closed interval [Lo, Hi]. An interval with either bound NaN
// is indeterminate and must not be used to prune.
type Interval struct {
	Lo, Hi float64
}

// New returns the interval [lo, hi]. Bounds are swapped if out of order.
func New(lo, hi float64) Interval {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Lo: lo, Hi: hi}
}

// Point returns the degenerate interval [v, v].
func Point(v float64) Interval { return Interval{Lo: v, Hi: v} }

// Whole returns the interval covering all reals.
func Whole() Interval { return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)} }

// IsPoint reports whether the interval is degenerate.
func (a Interval) IsPoint() bool { return a.Lo == a.Hi }

// Indeterminate reports whether either bound is NaN.
func (a Interval) Indeterminate() bool {
	return math.IsNaN(a.Lo) || math.IsNaN(a.Hi)
}

// Contains reports whether v lies within the interval.
func (a Interval) Contains(v float64) bool { return a.Lo <= v && v <= a.Hi }

// Hull returns the smallest interval containing both a and b.
func (a Interval) Hull(b Interval) Interval {
	return Interval{Lo: math.Min(a.Lo, b.Lo), Hi: math.Max(a.Hi, b.Hi)}
}

// Width returns Hi - Lo.
func (a Interval) Width() float64 { return a.Hi - a.Lo }

func (a Interval) Add(b Interval) Interval {
	return Interval{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi}
}

func (a Interval) Sub(b Interval) Interval {
	return Interval{Lo: a.Lo - b.Hi, Hi: a.Hi - b.Lo}
}

func (a Interval) Neg() Interval { return Interval{Lo: -a.Hi, Hi: -a.Lo} }

func (a Interval) Mul(b Interval) Interval {
	p1 := a.Lo * b.Lo
	p2 := a.Lo * b.Hi
	p3 := a.Hi * b.Lo
	p4 := a.Hi * b.Hi
	if math.IsNaN(p1) || math.IsNaN(p2) || math.IsNaN(p3) || math.IsNaN(p4) {
		// 0*Inf inside the products. Fall back to the whole line.
		return Whole()
	}
	return Interval{
		Lo: math.Min(math.Min(p1, p2), math.Min(p3, p4)),
		Hi: math.Max(math.Max(p1, p2), math.Max(p3, p4)),
	}
}

func (a Interval) Div(b Interval) Interval {
	if b.Contains(0) {
		return Whole()
	}
	return a.Mul(Interval{Lo: 1 / b.Hi, Hi: 1 / b.Lo})
}

func (a Interval) Recip() Interval { return Point(1).Div(a) }

func (a Interval) Min(b Interval) Interval {
	return Interval{Lo: math.Min(a.Lo, b.Lo), Hi: math.Min(a.Hi, b.Hi)}
}

func (a Interval) Max(b Interval) Interval {
	return Interval{Lo: math.Max(a.Lo, b.Lo), Hi: math.Max(a.Hi, b.Hi)}
}

func (a Interval) Abs() Interval {
	if a.Lo >= 0 {
		return a
	}
	if a.Hi <= 0 {
		return a.Neg()
	}
	return Interval{Lo: 0, Hi: math.Max(-a.Lo, a.Hi)}
}

func (a Interval) Square() Interval {
	b := a.Abs()
	return Interval{Lo: b.Lo * b.Lo, Hi: b.Hi * b.Hi}
}

func (a Interval) Sqrt() Interval {
	if a.Hi < 0 {
		return Point(math.NaN())
	}
	lo := a.Lo
	if lo < 0 {
		lo = 0
	}
	return Interval{Lo: math.Sqrt(lo), Hi: math.Sqrt(a.Hi)}
}

func (a Interval) Exp() Interval {
	return Interval{Lo: math.Exp(a.Lo), Hi: math.Exp(a.Hi)}
}

func (a Interval) Log() Interval {
	if a.Hi <= 0 {
		return Point(math.NaN())
	}
	lo := math.Inf(-1)
	if a.Lo > 0 {
		lo = math.Log(a.Lo)
	}
	return Interval{Lo: lo, Hi: math.Log(a.Hi)}
}

func (a Interval) Sin() Interval {
	if a.Indeterminate() || a.Width() >= 2*math.Pi {
		return Interval{Lo: -1, Hi: 1}
	}
	lo := math.Min(math.Sin(a.Lo), math.Sin(a.Hi))
	hi := math.Max(math.Sin(a.Lo), math.Sin(a.Hi))
	if containsCritical(a, math.Pi/2) {
		hi = 1
	}
	if containsCritical(a, -math.Pi/2) {
		lo = -1
	}
	return Interval{Lo: lo, Hi: hi}
}

func (a Interval) Cos() Interval {
	return a.Add(Point(math.Pi / 2)).Sin()
}

func (a Interval) Tan() Interval {
	if a.Indeterminate() || a.Width() >= math.Pi || containsPole(a) {
		return Whole()
	}
	return New(math.Tan(a.Lo), math.Tan(a.Hi))
}

// containsPole reports whether the interval contains pi/2 + k*pi for some
// integer k, the poles of tan.
func containsPole(a Interval) bool {
	k := math.Ceil((a.Lo - math.Pi/2) / math.Pi)
	return math.Pi/2+math.Pi*k <= a.Hi
}

func (a Interval) Asin() Interval {
	b := a.clampDomain(-1, 1)
	if b.Indeterminate() {
		return Point(math.NaN())
	}
	return Interval{Lo: math.Asin(b.Lo), Hi: math.Asin(b.Hi)}
}

func (a Interval) Acos() Interval {
	b := a.clampDomain(-1, 1)
	if b.Indeterminate() {
		return Point(math.NaN())
	}
	return Interval{Lo: math.Acos(b.Hi), Hi: math.Acos(b.Lo)}
}

func (a Interval) Atan() Interval {
	return Interval{Lo: math.Atan(a.Lo), Hi: math.Atan(a.Hi)}
}

// Atan2 bounds atan2(a, b) where a is the y argument and b the x argument.
// Boxes touching the branch cut or the origin bound to the full [-pi, pi].
func (a Interval) Atan2(b Interval) Interval {
	if b.Lo <= 0 && a.Contains(0) {
		return Interval{Lo: -math.Pi, Hi: math.Pi}
	}
	// Extrema are attained at corners away from the branch cut.
	c1 := math.Atan2(a.Lo, b.Lo)
	c2 := math.Atan2(a.Lo, b.Hi)
	c3 := math.Atan2(a.Hi, b.Lo)
	c4 := math.Atan2(a.Hi, b.Hi)
	return Interval{
		Lo: math.Min(math.Min(c1, c2), math.Min(c3, c4)),
		Hi: math.Max(math.Max(c1, c2), math.Max(c3, c4)),
	}
}

// Pow bounds a**b. For degenerate integer exponents the bound is tight;
// otherwise it falls back to exp(b*log(a)) over the non-negative part of a.
func (a Interval) Pow(b Interval) Interval {
	if b.IsPoint() && b.Lo == math.Trunc(b.Lo) && !math.IsInf(b.Lo, 0) {
		return a.intPow(int(b.Lo))
	}
	return b.Mul(a.Log()).Exp()
}

func (a Interval) intPow(n int) Interval {
	switch {
	case n == 0:
		return Point(1)
	case n < 0:
		return a.intPow(-n).Recip()
	case n%2 == 0:
		b := a.Abs()
		return Interval{Lo: math.Pow(b.Lo, float64(n)), Hi: math.Pow(b.Hi, float64(n))}
	default:
		return Interval{Lo: math.Pow(a.Lo, float64(n)), Hi: math.Pow(a.Hi, float64(n))}
	}
}

// NthRoot bounds the real n-th root for degenerate integer n. Odd roots are
// defined for negative arguments.
func (a Interval) NthRoot(n Interval) Interval {
	if !n.IsPoint() || n.Lo != math.Trunc(n.Lo) || n.Lo == 0 {
		return Whole()
	}
	k := int(n.Lo)
	if k == 2 {
		return a.Sqrt()
	}
	if k%2 == 0 {
		b := a
		if b.Lo < 0 {
			b.Lo = 0
		}
		if b.Hi < 0 {
			return Point(math.NaN())
		}
		return Interval{Lo: math.Pow(b.Lo, 1/float64(k)), Hi: math.Pow(b.Hi, 1/float64(k))}
	}
	return Interval{Lo: oddRoot(a.Lo, k), Hi: oddRoot(a.Hi, k)}
}

func oddRoot(v float64, k int) float64 {
	return math.Copysign(math.Pow(math.Abs(v), 1/float64(k)), v)
}

// Mod bounds the euclidean modulo (result takes the sign of b).
func (a Interval) Mod(b Interval) Interval {
	switch {
	case b.Lo > 0:
		return Interval{Lo: 0, Hi: b.Hi}
	case b.Hi < 0:
		return Interval{Lo: b.Lo, Hi: 0}
	default:
		return Interval{Lo: math.Min(b.Lo, 0), Hi: math.Max(b.Hi, 0)}
	}
}

// NanFill bounds nanfill(a, b), which evaluates to a unless a is NaN.
func (a Interval) NanFill(b Interval) Interval {
	if a.Indeterminate() {
		return a.Hull(b)
	}
	return a
}

// Compare bounds compare(a, b) in {-1, 0, 1}.
func (a Interval) Compare(b Interval) Interval {
	switch {
	case a.Hi < b.Lo:
		return Point(-1)
	case a.Lo > b.Hi:
		return Point(1)
	default:
		return Interval{Lo: -1, Hi: 1}
	}
}

func (a Interval) clampDomain(lo, hi float64) Interval {
	if a.Hi < lo || a.Lo > hi {
		return Point(math.NaN())
	}
	return Interval{Lo: math.Max(a.Lo, lo), Hi: math.Min(a.Hi, hi)}
}

// containsCritical reports whether [a.Lo, a.Hi] contains c+2k*pi for some
// integer k. Callers guarantee the interval is narrower than a full period.
func containsCritical(a Interval, c float64) bool {
	k := math.Ceil((a.Lo - c) / (2 * math.Pi))
	return c+2*math.Pi*k <= a.Hi
}
