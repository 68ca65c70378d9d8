//go:build windows

package audio

import (
	"fmt"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// IPolicyConfig is undocumented and not part of go-wca; only
// SetDefaultEndpoint is called, the rest of the vtable is layout.
var (
	clsidPolicyConfigClient = ole.NewGUID("{870af99c-171d-4f9e-af0d-e63df40c2bc9}")
	iidPolicyConfig         = ole.NewGUID("{f8679f50-850a-41cf-9c72-430f290290c8}")
)

type iPolicyConfig struct {
	ole.IUnknown
}

type iPolicyConfigVtbl struct {
	ole.IUnknownVtbl
	GetMixFormat          uintptr
	GetDeviceFormat       uintptr
	ResetDeviceFormat     uintptr
	SetDeviceFormat       uintptr
	GetProcessingPeriod   uintptr
	SetProcessingPeriod   uintptr
	GetShareMode          uintptr
	SetShareMode          uintptr
	GetPropertyValue      uintptr
	SetPropertyValue      uintptr
	SetDefaultEndpoint    uintptr
	SetEndpointVisibility uintptr
}

func newPolicyConfig() (*iPolicyConfig, error) {
	unk, err := ole.CreateInstance(clsidPolicyConfigClient, iidPolicyConfig)
	if err != nil {
		return nil, fmt.Errorf("create policy config client: %w", err)
	}
	return (*iPolicyConfig)(unsafe.Pointer(unk)), nil
}

func (v *iPolicyConfig) vtable() *iPolicyConfigVtbl {
	return (*iPolicyConfigVtbl)(unsafe.Pointer(v.RawVTable))
}

func (v *iPolicyConfig) setDefaultEndpoint(id string, role uint32) error {
	p, err := windows.UTF16PtrFromString(id)
	if err != nil {
		return err
	}
	hr, _, _ := syscall.SyscallN(
		v.vtable().SetDefaultEndpoint,
		uintptr(unsafe.Pointer(v)),
		uintptr(unsafe.Pointer(p)),
		uintptr(role))
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}
