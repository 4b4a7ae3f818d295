//go:build !unix

package srcbuf

import (
	"fmt"
	"os"
)

// Open reads path's full contents into memory. Portable fallback for
// platforms without a unix-style mmap syscall.
func Open(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Source{data: data}, nil
}
