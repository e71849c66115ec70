//go:build darwin

package cursor

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit

#import <AppKit/AppKit.h>

// mouse_location reports the pointer with the origin flipped to the top-left
// corner of the main screen. Returns 0 when there is no screen.
static int mouse_location(double *x, double *y) {
    @autoreleasepool {
        NSScreen *screen = [NSScreen screens].firstObject;
        if (screen == nil) {
            return 0;
        }
        NSPoint p = [NSEvent mouseLocation];
        *x = p.x;
        *y = NSMaxY(screen.frame) - p.y;
        return 1;
    }
}

// work_area_origin finds the screen containing the top-left based point
// (x, y) and reports the top-left corner of its visible frame in the same
// flipped space. Falls back to the main screen.
static int work_area_origin(double x, double y, double *left, double *top) {
    @autoreleasepool {
        NSArray<NSScreen *> *screens = [NSScreen screens];
        if (screens.count == 0) {
            return 0;
        }
        CGFloat mainTop = NSMaxY(screens[0].frame);
        NSPoint p = NSMakePoint(x, mainTop - y);
        NSScreen *target = screens[0];
        for (NSScreen *s in screens) {
            if (NSPointInRect(p, s.frame)) {
                target = s;
                break;
            }
        }
        NSRect visible = target.visibleFrame;
        *left = visible.origin.x;
        *top = mainTop - NSMaxY(visible);
        return 1;
    }
}
*/
import "C"

import "errors"

var errNoScreen = errors.New("no screen attached")

func position() (float64, float64, error) {
	var x, y C.double
	if C.mouse_location(&x, &y) == 0 {
		return 0, 0, errNoScreen
	}
	return float64(x), float64(y), nil
}

func workAreaOrigin(x, y float64) (float64, float64, error) {
	var left, top C.double
	if C.work_area_origin(C.double(x), C.double(y), &left, &top) == 0 {
		return 0, 0, errNoScreen
	}
	return float64(left), float64(top), nil
}
