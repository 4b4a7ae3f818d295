//go:build unix

package srcbuf

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open memory-maps path read-only. A zero-length file is not mapped
// and yields an empty Source, since mmap of an empty region is
// rejected by the kernel on most platforms.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return &Source{data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &Source{
		data: data,
		closer: func() error {
			return unix.Munmap(data)
		},
	}, nil
}
