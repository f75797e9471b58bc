package routing

// Goodness rates a neighbor as a relay. Closer neighbors with fewer buffered
// messages score higher. The result lies in (0, 2] for non-negative inputs.
func Goodness(distance float64, bufferSize int) float64 {
	return 1/(float64(bufferSize)+1) + 1/(distance+1)
}
