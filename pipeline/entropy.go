package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
)

// SeededEntropy returns a deterministic entropy stream derived from seed by
// hashing a running counter. It makes Setup reproducible for tests and
// auditable ceremonies; production setup should pass crypto/rand.Reader.
func SeededEntropy(seed []byte) io.Reader {
	return &seededReader{seed: append([]byte(nil), seed...)}
}

type seededReader struct {
	seed []byte
	ctr  uint64
	buf  []byte
}

func (r *seededReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.buf) == 0 {
			h := sha256.New()
			h.Write(r.seed)
			var ctr [8]byte
			binary.BigEndian.PutUint64(ctr[:], r.ctr)
			h.Write(ctr[:])
			r.buf = h.Sum(nil)
			r.ctr++
		}
		c := copy(p[n:], r.buf)
		r.buf = r.buf[c:]
		n += c
	}
	return n, nil
}
