//go:build !linux

package cyclic

import (
	"errors"
	"time"
)

var (
	errUnsupported = errors.New("cyclic: real-time scheduling is not supported on this platform")

	epoch = time.Now()
)

func monotonicNow() int64 {
	return int64(time.Since(epoch))
}

func sleepUntil(deadline int64) {
	if d := deadline - monotonicNow(); d > 0 {
		time.Sleep(time.Duration(d))
	}
}

func setRealtimePriority(int) (func(), error) { return nil, errUnsupported }

func setAffinity([]int) (func(), error) { return nil, errUnsupported }

func lockMemory() (func(), error) { return nil, errUnsupported }
