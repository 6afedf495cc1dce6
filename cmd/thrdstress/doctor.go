package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/mod/semver"

	"github.com/evo-i/threads/thrd"
)

// minGoVersion is the oldest runtime the thread-identity extraction
// and sync.Mutex.TryLock backend are verified against.
const minGoVersion = "v1.21"

// doctorCommand verifies the host runtime supports the emulation:
// the Go version is in the supported range, thread identity is
// extractable and stable, and the monotonic clock advances.
func doctorCommand() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "verify runtime support for the emulation",
		Action: func(c *cli.Context) error {
			fmt.Printf("runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

			if err := checkGoVersion(runtime.Version()); err != nil {
				return err
			}
			fmt.Printf("go version: ok (>= %s)\n", strings.TrimPrefix(minGoVersion, "v"))

			if err := checkIdentity(); err != nil {
				return err
			}
			fmt.Println("thread identity: ok")

			if err := checkClock(); err != nil {
				return err
			}
			fmt.Println("monotonic clock: ok")
			return nil
		},
	}
}

// checkGoVersion compares the runtime version against minGoVersion.
// Development toolchains ("devel ...") are accepted as-is: they are
// newer than any release cut.
func checkGoVersion(version string) error {
	v := "v" + strings.TrimPrefix(version, "go")
	if !semver.IsValid(v) {
		fmt.Printf("go version: %q not comparable, assuming development toolchain\n", version)
		return nil
	}
	if semver.Compare(semver.MajorMinor(v), minGoVersion) < 0 {
		return fmt.Errorf("go version %s below supported minimum %s", version, minGoVersion)
	}
	return nil
}

// checkIdentity spawns a thread and verifies identity semantics:
// Current is stable within a thread, distinct across threads, and
// Equal matches handles by identity rather than representation.
func checkIdentity() error {
	self := thrd.Current()
	if !thrd.Equal(self, thrd.Current()) {
		return fmt.Errorf("identity unstable: Current() != Current() on one thread")
	}

	t, err := thrd.Spawn(func(any) int {
		if thrd.Equal(thrd.Current(), self) {
			return 1
		}
		return 0
	}, nil)
	if err != nil {
		return err
	}
	code, err := thrd.Join(t)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("identity collision: spawned thread compared equal to main")
	}
	if thrd.Equal(t, self) {
		return fmt.Errorf("identity collision: handles for distinct threads compared equal")
	}
	return nil
}

// checkClock verifies the monotonic clock yields strictly
// non-decreasing samples across a yield.
func checkClock() error {
	a, err := thrd.MonotonicNow()
	if err != nil {
		return err
	}
	thrd.Yield()
	b, err := thrd.MonotonicNow()
	if err != nil {
		return err
	}
	if b.Sec < a.Sec || (b.Sec == a.Sec && b.Nsec < a.Nsec) {
		return fmt.Errorf("monotonic clock moved backwards: %+v then %+v", a, b)
	}
	return nil
}
