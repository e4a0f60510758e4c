package state

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Fingerprint identifies the inputs of a run: the coverage tool command line,
// in order, and the contents of files (the baseline report, the settings
// file). Runs with equal fingerprints analyzed the same inputs. Empty file
// paths are skipped.
//
// Every field is length-prefixed so that distinct inputs cannot collide by
// concatenation.
func Fingerprint(command []string, files ...string) (string, error) {
	h := sha256.New()
	writeLen(h, uint64(len(command)))
	for _, arg := range command {
		writeField(h, []byte(arg))
	}
	for _, path := range files {
		if path == "" {
			continue
		}
		if err := writeFile(h, path); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeLen(h hash.Hash, n uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	h.Write(b[:])
}

func writeField(h hash.Hash, data []byte) {
	writeLen(h, uint64(len(data)))
	h.Write(data)
}

func writeFile(h hash.Hash, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	writeField(h, []byte(path))
	writeLen(h, uint64(info.Size()))
	n, err := io.Copy(h, f)
	if err != nil {
		return err
	}
	if n != info.Size() {
		return fmt.Errorf("%s changed while hashing", path)
	}
	return nil
}
