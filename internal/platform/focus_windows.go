package platform

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const swRestore = 9

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowThreadProcessID = user32.NewProc("GetWindowThreadProcessId")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsWindowEnabled          = user32.NewProc("IsWindowEnabled")
	procIsIconic                 = user32.NewProc("IsIconic")
	procShowWindow               = user32.NewProc("ShowWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")

	// Callbacks are a limited resource; one is shared by all enumerations.
	enumOnce     sync.Once
	enumCallback uintptr
	enumMu       sync.Mutex
)

type enumState struct {
	pid   uint32
	hwnds []uintptr
}

func topLevelWindows(pid uint32) []uintptr {
	if err := procEnumWindows.Find(); err != nil {
		return nil
	}
	enumOnce.Do(func() {
		enumCallback = windows.NewCallback(func(hwnd, lparam uintptr) uintptr {
			state := (*enumState)(unsafe.Pointer(lparam))
			visible, _, _ := procIsWindowVisible.Call(hwnd)
			enabled, _, _ := procIsWindowEnabled.Call(hwnd)
			if visible == 0 || enabled == 0 {
				return 1
			}
			var owner uint32
			procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&owner)))
			if owner == state.pid {
				state.hwnds = append(state.hwnds, hwnd)
			}
			return 1
		})
	})

	enumMu.Lock()
	defer enumMu.Unlock()
	state := &enumState{pid: pid}
	procEnumWindows.Call(enumCallback, uintptr(unsafe.Pointer(state)))
	return state.hwnds
}

func raise(hwnd uintptr) {
	if iconic, _, _ := procIsIconic.Call(hwnd); iconic != 0 {
		procShowWindow.Call(hwnd, swRestore)
	}
	procSetForegroundWindow.Call(hwnd)
}
