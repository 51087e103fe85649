package proc

import (
	"io"
	"os"
)

// fdSet holds the interpreter's copies of descriptors created for a pipeline
// until ownership moves to a child.
type fdSet []*os.File

var _ io.Closer = (*fdSet)(nil)

// add starts tracking fd and returns it.
func (s *fdSet) add(fd *os.File) *os.File {
	if fd != nil {
		*s = append(*s, fd)
	}
	return fd
}

// release closes fd if it's tracked. Untracked descriptors, like the
// interpreter's own stdin, are left alone.
func (s *fdSet) release(fd *os.File) error {
	for i, held := range *s {
		if held == fd {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return fd.Close()
		}
	}
	return nil
}

// Close closes every tracked descriptor.
func (s *fdSet) Close() error {
	var lastErr error
	for _, fd := range *s {
		if err := fd.Close(); err != nil {
			lastErr = err
		}
	}
	*s = nil
	return lastErr
}
