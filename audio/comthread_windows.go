//go:build windows

package audio

import (
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
)

var errCOMClosed = errors.New("COM thread stopped")

// comThread owns one OS thread with COM initialized. Every call on the
// binding's COM objects runs there.
type comThread struct {
	calls chan func()
	done  chan struct{}
}

func startCOMThread() (*comThread, error) {
	t := &comThread{
		calls: make(chan func()),
		done:  make(chan struct{}),
	}
	errc := make(chan error, 1)
	go t.loop(errc)
	if err := <-errc; err != nil {
		return nil, err
	}
	return t, nil
}

func (t *comThread) loop(errc chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		errc <- fmt.Errorf("CoInitializeEx: %w", err)
		return
	}
	defer ole.CoUninitialize()
	errc <- nil

	for {
		select {
		case f := <-t.calls:
			f()
		case <-t.done:
			return
		}
	}
}

// do runs f on the COM thread and waits for it.
func (t *comThread) do(f func() error) error {
	errc := make(chan error, 1)
	select {
	case t.calls <- func() { errc <- f() }:
	case <-t.done:
		return errCOMClosed
	}
	return <-errc
}

func (t *comThread) stop() {
	close(t.done)
}
