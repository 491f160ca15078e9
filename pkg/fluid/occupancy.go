package fluid

// Marching-squares occupancy. Corner distances are named dRC: d11 is the
// top-left corner, d12 top-right, d21 bottom-left and d22 bottom-right.

func triangleOccupancy(out1, in, out2 float64) float64 {
	return 0.5 * in * in / ((out1 - in) * (out2 - in))
}

func trapezoidOccupancy(out1, out2, in1, in2 float64) float64 {
	return 0.5 * (-in1/(out1-in1) - in2/(out2-in2))
}

// occupancy returns the fraction of the unit cell lying inside the solid,
// given the signed distance at its four corners.
func occupancy(d11, d12, d21, d22 float64) float64 {
	ds := [4]float64{d11, d12, d22, d21}

	var b uint8
	for i := 3; i >= 0; i-- {
		b <<= 1
		if ds[i] < 0.0 {
			b |= 1
		}
	}

	switch b {
	case 0x0:
		return 0.0
	// one corner inside
	case 0x1:
		return triangleOccupancy(d21, d11, d12)
	case 0x2:
		return triangleOccupancy(d11, d12, d22)
	case 0x4:
		return triangleOccupancy(d12, d22, d21)
	case 0x8:
		return triangleOccupancy(d22, d21, d11)
	// one corner outside
	case 0xE:
		return 1.0 - triangleOccupancy(-d21, -d11, -d12)
	case 0xD:
		return 1.0 - triangleOccupancy(-d11, -d12, -d22)
	case 0xB:
		return 1.0 - triangleOccupancy(-d12, -d22, -d21)
	case 0x7:
		return 1.0 - triangleOccupancy(-d22, -d21, -d11)
	// two adjacent corners inside
	case 0x3:
		return trapezoidOccupancy(d21, d22, d11, d12)
	case 0x6:
		return trapezoidOccupancy(d11, d21, d12, d22)
	case 0x9:
		return trapezoidOccupancy(d12, d22, d11, d21)
	case 0xC:
		return trapezoidOccupancy(d11, d12, d21, d22)
	// two opposite corners inside: two separate triangles
	case 0x5:
		return triangleOccupancy(d21, d11, d12) + triangleOccupancy(d12, d22, d21)
	case 0xA:
		return triangleOccupancy(d11, d12, d22) + triangleOccupancy(d22, d21, d11)
	default:
		return 1.0
	}
}
