//go:build windows

package cursor

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazyDLL("user32.dll")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procMonitorFromPoint = user32.NewProc("MonitorFromPoint")
	procGetMonitorInfoW  = user32.NewProc("GetMonitorInfoW")
)

const monitorDefaultToNearest = 2

type point struct {
	X, Y int32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

type monitorInfo struct {
	CbSize    uint32
	RcMonitor rect
	RcWork    rect
	DwFlags   uint32
}

func position() (float64, float64, error) {
	var pt point
	if ok, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt))); ok == 0 {
		return 0, 0, fmt.Errorf("GetCursorPos: %w", err)
	}
	return float64(pt.X), float64(pt.Y), nil
}

// workAreaOrigin returns rcWork of the monitor nearest to (x, y). POINT is
// passed by value, packed into one register on 64-bit Windows.
func workAreaOrigin(x, y float64) (float64, float64, error) {
	px := uint32(int32(math.Round(x)))
	py := uint32(int32(math.Round(y)))
	monitor, _, _ := procMonitorFromPoint.Call(uintptr(px)|uintptr(py)<<32, monitorDefaultToNearest)
	if monitor == 0 {
		return 0, 0, fmt.Errorf("MonitorFromPoint(%.0f, %.0f): no monitor", x, y)
	}

	info := monitorInfo{CbSize: uint32(unsafe.Sizeof(monitorInfo{}))}
	if ok, _, err := procGetMonitorInfoW.Call(monitor, uintptr(unsafe.Pointer(&info))); ok == 0 {
		return 0, 0, fmt.Errorf("GetMonitorInfoW: %w", err)
	}
	return float64(info.RcWork.Left), float64(info.RcWork.Top), nil
}
