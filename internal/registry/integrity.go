package registry

import (
	"encoding/hex"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
)

// sidecarSuffix is appended to a log path to name its checksum file.
const sidecarSuffix = ".b2sum"

// WriteSidecar computes the BLAKE2b-256 digest of path and writes it,
// hex-encoded, to path+".b2sum". This is purely additive: the core log
// format never gains a header or checksum field of its own, so older
// readers that don't know about sidecars are unaffected.
func WriteSidecar(path string) error {
	sum, err := digest(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+sidecarSuffix, []byte(hex.EncodeToString(sum[:])+"\n"), 0o644); err != nil {
		return fmt.Errorf("write sidecar for %s: %w", path, err)
	}
	return nil
}

// VerifySidecar recomputes the digest of path and compares it against
// the stored sidecar, returning an error describing the mismatch (or
// the missing sidecar) if verification fails.
func VerifySidecar(path string) error {
	want, err := os.ReadFile(path + sidecarSuffix)
	if err != nil {
		return fmt.Errorf("read sidecar for %s: %w", path, err)
	}
	sum, err := digest(path)
	if err != nil {
		return err
	}
	got := hex.EncodeToString(sum[:]) + "\n"
	if string(want) != got {
		return fmt.Errorf("vocabulary log %s failed integrity check", path)
	}
	return nil
}

func digest(path string) ([32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, fmt.Errorf("read %s for checksum: %w", path, err)
	}
	return blake2b.Sum256(data), nil
}
