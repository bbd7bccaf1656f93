package pipeline

import (
	"encoding/binary"
	"fmt"

	"github.com/zkrsa/circuits/circuits"
)

// Artifact kinds embedded in the envelope header.
const (
	kindParams       = 'C'
	kindProvingKey   = 'P'
	kindVerifyingKey = 'V'
	kindProof        = 'R'
)

var artifactMagic = [4]byte{'Z', 'R', 'S', 'A'}

const artifactVersion = 1

// magic + version + kind + shape id
const headerLen = 4 + 1 + 1 + 4

// wrapArtifact prefixes a backend payload with the versioned, shape-tagged
// envelope header.
func wrapArtifact(kind byte, shape circuits.Shape, payload []byte) []byte {
	buf := make([]byte, headerLen+len(payload))
	copy(buf, artifactMagic[:])
	buf[4] = artifactVersion
	buf[5] = kind
	binary.BigEndian.PutUint32(buf[6:headerLen], shape.ID())
	copy(buf[headerLen:], payload)
	return buf
}

// unwrapArtifact validates the envelope and returns the payload. Malformed
// headers are ErrParse; a differing shape id is ErrShapeMismatch.
func unwrapArtifact(kind byte, shape circuits.Shape, buf []byte) ([]byte, error) {
	if len(buf) < headerLen || [4]byte(buf[:4]) != artifactMagic {
		return nil, fmt.Errorf("%w: bad envelope header", ErrParse)
	}
	if buf[4] != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported envelope version %d", ErrParse, buf[4])
	}
	if buf[5] != kind {
		return nil, fmt.Errorf("%w: expected artifact kind %q, got %q", ErrParse, kind, buf[5])
	}
	if id := binary.BigEndian.Uint32(buf[6:headerLen]); id != shape.ID() {
		if got, ok := circuits.ShapeByID(id); ok {
			return nil, fmt.Errorf("%w: artifact built for %s, requested %s", ErrShapeMismatch, got, shape)
		}
		return nil, fmt.Errorf("%w: unknown shape id %#x", ErrShapeMismatch, id)
	}
	return buf[headerLen:], nil
}
