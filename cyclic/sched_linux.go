//go:build linux

package cyclic

import (
	"golang.org/x/sys/unix"
)

const (
	schedOther   = 0
	schedFIFO    = 1
	timerAbstime = 1
)

func monotonicNow() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic(err)
	}
	return ts.Nano()
}

func sleepUntil(deadline int64) {
	ts := unix.NsecToTimespec(deadline)
	for {
		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, timerAbstime, &ts, nil)
		if err != unix.EINTR {
			return
		}
	}
}

func setRealtimePriority(priority int) (func(), error) {
	if err := unix.SchedSetAttr(0, &unix.SchedAttr{
		Policy:   schedFIFO,
		Priority: uint32(priority),
	}, 0); err != nil {
		return nil, err
	}
	return func() {
		_ = unix.SchedSetAttr(0, &unix.SchedAttr{Policy: schedOther}, 0)
	}, nil
}

func setAffinity(cpus []int) (func(), error) {
	var previous unix.CPUSet
	if err := unix.SchedGetaffinity(0, &previous); err != nil {
		return nil, err
	}
	var set unix.CPUSet
	set.Zero()
	for _, cpu := range cpus {
		set.Set(cpu)
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return nil, err
	}
	return func() {
		_ = unix.SchedSetaffinity(0, &previous)
	}, nil
}

func lockMemory() (func(), error) {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return nil, err
	}
	return func() {
		_ = unix.Munlockall()
	}, nil
}
