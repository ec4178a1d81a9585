//go:build linux

package entropy

import "golang.org/x/sys/unix"

type syscallSource struct{}

func newSyscallSource() Source { return syscallSource{} }

func (syscallSource) Name() string    { return "getrandom(2)" }
func (syscallSource) Available() bool { return true }

func (syscallSource) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		k, err := unix.Getrandom(buf[got:], 0)
		if err != nil {
			if got > 0 {
				return buf[:got], nil
			}
			return nil, err
		}
		if k == 0 {
			break
		}
		got += k
	}
	return buf[:got], nil
}
