//go:build !darwin && !windows

package cursor

func position() (float64, float64, error) {
	return 0, 0, ErrUnsupported
}

func workAreaOrigin(float64, float64) (float64, float64, error) {
	return 0, 0, ErrUnsupported
}
