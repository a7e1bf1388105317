// Package systemd tells the service manager about the state of the
// preview server when it runs as a systemd unit.
package systemd

import (
	"fmt"
	"sync"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/legitscript/lspreview/fs"
	"github.com/legitscript/lspreview/lib/atexit"
)

// sdNotify is daemon.SdNotify - replaced in tests
var sdNotify = daemon.SdNotify

// Notify systemd that the service is ready. This returns a function
// which should be called to notify that the service is stopping. This
// function will be called on exit if the service exits on a signal.
func Notify() func() {
	if _, err := sdNotify(false, daemon.SdNotifyReady); err != nil {
		fs.Logf(nil, "failed to notify ready to systemd: %v", err)
	}
	var finaliseOnce sync.Once
	finalise := func() {
		finaliseOnce.Do(func() {
			if _, err := sdNotify(false, daemon.SdNotifyStopping); err != nil {
				fs.Logf(nil, "failed to notify stopping to systemd: %v", err)
			}
		})
	}
	finaliseHandle := atexit.Register(finalise)
	return func() {
		atexit.Unregister(finaliseHandle)
		finalise()
	}
}

// UpdateStatus updates the systemd status
func UpdateStatus(status string) error {
	systemdStatus := fmt.Sprintf("STATUS=%s", status)
	_, err := sdNotify(false, systemdStatus)
	return err
}
