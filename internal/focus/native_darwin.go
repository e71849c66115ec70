//go:build darwin

package focus

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Foundation -framework AppKit

#include <stdlib.h>
#import <AppKit/AppKit.h>

// frontmost_app fills bundle (caller frees) and pid. Returns 0 when no
// application is frontmost.
static int frontmost_app(char **bundle, int *pid) {
    @autoreleasepool {
        NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
        if (app == nil) {
            return 0;
        }
        *pid = (int)[app processIdentifier];
        NSString *ident = [app bundleIdentifier];
        *bundle = ident != nil ? strdup([ident UTF8String]) : NULL;
        return 1;
    }
}

static int activate_pid(int pid) {
    @autoreleasepool {
        NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:(pid_t)pid];
        if (app == nil) {
            return 0;
        }
        return [app activateWithOptions:NSApplicationActivateIgnoringOtherApps] ? 1 : 2;
    }
}

static char *main_bundle_id(void) {
    @autoreleasepool {
        NSString *ident = [[NSBundle mainBundle] bundleIdentifier];
        return ident != nil ? strdup([ident UTF8String]) : NULL;
    }
}
*/
import "C"

import (
	"errors"
	"fmt"
	"os"
	"unsafe"
)

var (
	errNoFrontmost   = errors.New("no frontmost application")
	errProcessExited = errors.New("application is no longer running")
)

type cocoaPlatform struct{}

func (cocoaPlatform) Frontmost() (Snapshot, error) {
	var bundle *C.char
	var pid C.int
	if C.frontmost_app(&bundle, &pid) == 0 {
		return Snapshot{}, errNoFrontmost
	}
	if bundle == nil {
		return Snapshot{}, fmt.Errorf("pid %d: %w", int(pid), ErrNoIdentifier)
	}
	defer C.free(unsafe.Pointer(bundle))
	return Snapshot{AppID: C.GoString(bundle), PID: int(pid)}, nil
}

func (cocoaPlatform) Activate(s Snapshot) error {
	switch C.activate_pid(C.int(s.PID)) {
	case 0:
		return errProcessExited
	case 2:
		return fmt.Errorf("activateWithOptions refused for %s", s.AppID)
	}
	return nil
}

func mainBundleID() string {
	cstr := C.main_bundle_id()
	if cstr == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(cstr))
	return C.GoString(cstr)
}

// Native returns the Cocoa-backed tracker. An empty selfID falls back to the
// main bundle identifier; the own PID always counts as self.
func Native(selfID string) Tracker {
	if selfID == "" {
		selfID = mainBundleID()
	}
	return NewSnapshotTracker(cocoaPlatform{}, SelfByAppID(selfID, os.Getpid()))
}
