package dist

import "math"

// Modified Bessel functions of the second kind, needed for the
// Maxwell-Juttner normalization. Polynomial approximations from Abramowitz &
// Stegun 9.8 (absolute error below 1e-7 over each branch). Neither the
// standard library nor gonum's mathext carries the second-kind modified
// Bessel functions.

// BesselK2 is K2(x) for x > 0, via the recurrence K2 = K0 + 2 K1 / x.
func BesselK2(x float64) float64 {
	return besselK0(x) + 2*besselK1(x)/x
}

// BesselK2Scaled is e^x K2(x), which stays representable for the large
// arguments produced by nonrelativistic temperatures.
func BesselK2Scaled(x float64) float64 {
	return besselK0Scaled(x) + 2*besselK1Scaled(x)/x
}

func besselK0(x float64) float64 {
	if x <= 2 {
		y := x * x / 4
		return -math.Log(x/2)*besselI0(x) + (-0.57721566 + y*(0.42278420+
			y*(0.23069756+y*(0.03488590+y*(0.00262698+y*(0.00010750+y*0.00000740))))))
	}
	return math.Exp(-x) * besselK0Scaled(x)
}

func besselK0Scaled(x float64) float64 {
	if x <= 2 {
		return math.Exp(x) * besselK0(x)
	}
	y := 2 / x
	return (1.25331414 + y*(-0.07832358+y*(0.02189568+y*(-0.01062446+
		y*(0.00587872+y*(-0.00251540+y*0.00053208)))))) / math.Sqrt(x)
}

func besselK1(x float64) float64 {
	if x <= 2 {
		y := x * x / 4
		return math.Log(x/2)*besselI1(x) + (1/x)*(1+y*(0.15443144+
			y*(-0.67278579+y*(-0.18156897+y*(-0.01919402+y*(-0.00110404+y*(-0.00004686)))))))
	}
	return math.Exp(-x) * besselK1Scaled(x)
}

func besselK1Scaled(x float64) float64 {
	if x <= 2 {
		return math.Exp(x) * besselK1(x)
	}
	y := 2 / x
	return (1.25331414 + y*(0.23498619+y*(-0.03655620+y*(0.01504268+
		y*(-0.00780353+y*(0.00325614+y*(-0.00068245))))))) / math.Sqrt(x)
}

func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := x / 3.75
		y *= y
		return 1 + y*(3.5156229+y*(3.0899424+y*(1.2067492+
			y*(0.2659732+y*(0.0360768+y*0.0045813)))))
	}
	y := 3.75 / ax
	return math.Exp(ax) / math.Sqrt(ax) * (0.39894228 + y*(0.01328592+
		y*(0.00225319+y*(-0.00157565+y*(0.00916281+y*(-0.02057706+
			y*(0.02635537+y*(-0.01647633+y*0.00392377))))))))
}

func besselI1(x float64) float64 {
	ax := math.Abs(x)
	var ans float64
	if ax < 3.75 {
		y := x / 3.75
		y *= y
		ans = ax * (0.5 + y*(0.87890594+y*(0.51498869+y*(0.15084934+
			y*(0.02658733+y*(0.00301532+y*0.00032411))))))
	} else {
		y := 3.75 / ax
		ans = 0.02282967 + y*(-0.02895312+y*(0.01787654-y*0.00420059))
		ans = 0.39894228 + y*(-0.03988024+y*(-0.00362018+
			y*(0.00163801+y*(-0.01031555+y*ans))))
		ans *= math.Exp(ax) / math.Sqrt(ax)
	}
	if x < 0 {
		return -ans
	}
	return ans
}
