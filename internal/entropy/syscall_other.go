//go:build !linux

package entropy

// syscallSource is a no-op placeholder on platforms without a
// getrandom(2) wrapper wired up; crypto/rand still covers them via
// osSource.
type syscallSource struct{}

func newSyscallSource() Source { return syscallSource{} }

func (syscallSource) Name() string             { return "getrandom(2)" }
func (syscallSource) Available() bool          { return false }
func (syscallSource) Read(int) ([]byte, error) { return nil, ErrNoSources }
