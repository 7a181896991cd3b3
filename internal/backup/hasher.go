package backup

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

// hashChunkSize bounds per-read memory while hashing; files are never loaded
// whole.
const hashChunkSize = 4096

// HashFile computes the hex-encoded MD5 digest of the file at path, reading
// it in fixed-size chunks. MD5 is sufficient here: digests guard against
// accidental modification for change detection, not tampering.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", NewIOError("failed to open file for hashing", err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", NewIOError("read failed while hashing file", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
