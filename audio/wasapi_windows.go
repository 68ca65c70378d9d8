//go:build windows

package audio

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/decred/slog"
	ole "github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
	"golang.org/x/sys/windows"

	"github.com/kc2g-flex-tools/audioswitch/audioshim"
)

// E_NOTFOUND, returned by GetDefaultAudioEndpoint when no device is default
const hresultNotFound = 0x80070490

var (
	modole32             = windows.NewLazySystemDLL("ole32.dll")
	procPropVariantClear = modole32.NewProc("PropVariantClear")
)

// wasapi is the Windows Core Audio binding.
type wasapi struct {
	com    *comThread
	mmde   *wca.IMMDeviceEnumerator
	policy *iPolicyConfig
	log    slog.Logger
}

// Open connects to the Windows audio endpoint and policy services.
func Open(log slog.Logger) (audioshim.Shim, error) {
	if log == nil {
		log = slog.Disabled
	}
	com, err := startCOMThread()
	if err != nil {
		return nil, err
	}
	w := &wasapi{com: com, log: log}
	err = com.do(func() error {
		if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &w.mmde); err != nil {
			return fmt.Errorf("create device enumerator: %w", err)
		}
		pc, err := newPolicyConfig()
		if err != nil {
			w.mmde.Release()
			return err
		}
		w.policy = pc
		return nil
	})
	if err != nil {
		com.stop()
		return nil, err
	}
	log.Debugf("Core Audio binding ready")
	return w, nil
}

func wcaRole(role audioshim.Role) uint32 {
	switch role {
	case audioshim.Multimedia:
		return wca.EMultimedia
	case audioshim.Communications:
		return wca.ECommunications
	default:
		return wca.EConsole
	}
}

func friendlyName(mmd *wca.IMMDevice) (string, error) {
	var ps *wca.IPropertyStore
	if err := mmd.OpenPropertyStore(wca.STGM_READ, &ps); err != nil {
		return "", err
	}
	defer ps.Release()

	var pv wca.PROPVARIANT
	if err := ps.GetValue(&wca.PKEY_Device_FriendlyName, &pv); err != nil {
		return "", err
	}
	name := pv.String()
	procPropVariantClear.Call(uintptr(unsafe.Pointer(&pv)))
	return name, nil
}

func endpointOf(mmd *wca.IMMDevice) (audioshim.Endpoint, error) {
	var id string
	if err := mmd.GetId(&id); err != nil {
		return audioshim.Endpoint{}, err
	}
	name, err := friendlyName(mmd)
	if err != nil {
		return audioshim.Endpoint{}, fmt.Errorf("read name of %s: %w", id, err)
	}
	return audioshim.Endpoint{ID: id, Name: name}, nil
}

func (w *wasapi) RenderEndpoints() ([]audioshim.Endpoint, error) {
	var eps []audioshim.Endpoint
	err := w.com.do(func() error {
		var dc *wca.IMMDeviceCollection
		if err := w.mmde.EnumAudioEndpoints(wca.ERender, wca.DEVICE_STATE_ACTIVE, &dc); err != nil {
			return err
		}
		defer dc.Release()

		var count uint32
		if err := dc.GetCount(&count); err != nil {
			return err
		}
		eps = make([]audioshim.Endpoint, 0, count)
		for i := uint32(0); i < count; i++ {
			var mmd *wca.IMMDevice
			if err := dc.Item(i, &mmd); err != nil {
				return err
			}
			ep, err := endpointOf(mmd)
			mmd.Release()
			if err != nil {
				return err
			}
			eps = append(eps, ep)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audioshim.ErrDirectoryUnavailable, err)
	}
	return eps, nil
}

func (w *wasapi) DefaultRenderEndpoint(role audioshim.Role) (audioshim.Endpoint, error) {
	var ep audioshim.Endpoint
	err := w.com.do(func() error {
		var mmd *wca.IMMDevice
		if err := w.mmde.GetDefaultAudioEndpoint(wca.ERender, wcaRole(role), &mmd); err != nil {
			return err
		}
		defer mmd.Release()
		var err error
		ep, err = endpointOf(mmd)
		return err
	})
	var oleErr *ole.OleError
	switch {
	case err == nil:
		return ep, nil
	case errors.As(err, &oleErr) && oleErr.Code() == hresultNotFound:
		return audioshim.Endpoint{}, fmt.Errorf("%w: %w", audioshim.ErrNoDefaultEndpoint, err)
	default:
		return audioshim.Endpoint{}, fmt.Errorf("%w: %w", audioshim.ErrDirectoryUnavailable, err)
	}
}

func (w *wasapi) SetDefaultEndpoint(id string, role audioshim.Role) error {
	return w.com.do(func() error {
		return w.policy.setDefaultEndpoint(id, wcaRole(role))
	})
}

func (w *wasapi) Close() error {
	err := w.com.do(func() error {
		w.policy.Release()
		w.mmde.Release()
		return nil
	})
	w.com.stop()
	return err
}
