// Package plasma provides the Tsyganenko-Mukai [2003] plasma sheet model
// (with corrected equations), used to set the density and characteristic
// energy of a source distribution from solar wind conditions.
//
// Reference: Tsyganenko, N. A. and T. Mukai (2003), Tail plasma sheet models
// derived from Geotail particle data, J. Geophys. Res., 108(A3), 1136.
package plasma

import "math"

// SolarWind holds the upstream drivers of the model.
type SolarWind struct {
	BPerp      float64 // perpendicular IMF magnitude, nT
	ClockAngle float64 // solar wind clock angle, degrees
	Vx         float64 // solar wind speed, km/s
	Density    float64 // solar wind density, cm^-3
	Pressure   float64 // solar wind dynamic pressure, nPa
}

// DefaultSolarWind returns nominal quiet-time drivers.
func DefaultSolarWind() SolarWind {
	return SolarWind{
		BPerp:      5.0,
		ClockAngle: 90.0,
		Vx:         500.0,
		Density:    10.0,
		Pressure:   3.0,
	}
}

// Moments are the local plasma sheet moments at a tail location.
type Moments struct {
	Pressure    float64 // nPa
	Temperature float64 // keV
	Density     float64 // cm^-3
}

// Fit coefficients, zero-padded so indices match the published equations.
var (
	aT = [...]float64{0.0000, 1.6780, -0.1606, 1.6690, 4.8200, 2.8550, -0.6020, -0.8360,
		-2.4910, 0.2568, 0.2249, 0.1887, -0.4458, -0.0331, -0.0241, -2.6890,
		1.2220}
	aN = [...]float64{0.0000, -0.1590, 0.6080, 0.5055, 0.0796, 0.2746, 0.0361, -0.0342,
		-0.7935, 1.1620, 0.4756, 0.7117}
	aP = [...]float64{0.0000, 0.0570, 0.5240, 0.0908, 0.5270, 0.0780, -4.4220, -1.5330,
		-1.2170, 2.5400, 0.3200, 0.7540, 1.0480, -0.0740, 1.0150}
)

// TM03 evaluates the model at GSM position (x, y) in Earth radii. Valid in
// the nightside plasma sheet, roughly x in [-50, -10] Re.
func TM03(x, y float64, sw SolarWind) Moments {
	theta := sw.ClockAngle * math.Pi / 180

	bperp := sw.BPerp / 5
	bz := sw.BPerp * math.Cos(theta)

	var bzn, bzs float64
	if bz > 0 {
		bzn = bz / 5
	} else {
		bzs = -bz / 5
	}

	vsw := sw.Vx / 500
	nsw := sw.Density / 10
	fsw := bperp * math.Sqrt(math.Sin(theta/2))
	rho := math.Hypot(x, y) / 10
	psw := sw.Pressure / 3
	phi := -math.Atan2(y, x)
	rm1 := rho - 1
	sin2 := math.Sin(phi) * math.Sin(phi)

	t := aT[1]*vsw + aT[2]*bzn + aT[3]*bzs + aT[4]*
		math.Exp(-(aT[9]*math.Pow(vsw, aT[15])+aT[10]*bzn+aT[11]*bzs)*rm1) +
		(aT[5]*vsw+aT[6]*bzn+aT[7]*bzs+aT[8]*
			math.Exp(-(aT[12]*math.Pow(vsw, aT[16])+aT[13]*bzn+aT[14]*bzs)*rm1))*sin2

	n := (aN[1]+aN[2]*math.Pow(nsw, aN[10])+aN[3]*bzn+aN[4]*vsw*bzs)*math.Pow(rho, aN[8]) +
		(aN[5]*math.Pow(nsw, aN[11])+aN[6]*bzn+aN[7]*vsw*bzs)*math.Pow(rho, aN[9])*sin2

	p := aP[1]*math.Pow(rho, aP[6]) + aP[2]*math.Pow(psw, aP[11])*math.Pow(rho, aP[7]) +
		aP[3]*math.Pow(fsw, aP[12])*math.Pow(rho, aP[8]) +
		(aP[4]*math.Pow(psw, aP[13])*math.Exp(-aP[9]*rho)+
			aP[5]*math.Pow(fsw, aP[14])*math.Exp(-aP[10]*rho))*sin2

	return Moments{Pressure: p, Temperature: t, Density: n}
}
