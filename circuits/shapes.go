package circuits

import "fmt"

// LimbWidth is the bit width of one big-integer limb throughout the system.
const LimbWidth = 64

// Shape is the immutable tuple identifying one circuit configuration.
// Parameters, proving key, verifying key and proof all carry the shape id
// and must agree at every pipeline boundary.
type Shape struct {
	// K is the log2 row capacity the proof backend must provision.
	K uint
	// ModulusBits is the RSA modulus bit length.
	ModulusBits uint
	// MaxMsgLen is the largest supported message byte length.
	MaxMsgLen uint
	// HashInCircuit selects whether the SHA-256 digest is recomputed inside
	// the circuit, or supplied as a trusted witness (weaker, cheaper).
	HashInCircuit bool
}

// Stock shapes. All use a 1024-bit modulus with the digest recomputed
// in-circuit; they differ in supported message length and row capacity. K is
// the next power of two covering the compiled constraint count of the shape's
// circuit.
var (
	Shape1024x64   = Shape{K: 20, ModulusBits: 1024, MaxMsgLen: 64, HashInCircuit: true}
	Shape1024x128  = Shape{K: 20, ModulusBits: 1024, MaxMsgLen: 128, HashInCircuit: true}
	Shape1024x1024 = Shape{K: 22, ModulusBits: 1024, MaxMsgLen: 1024, HashInCircuit: true}
)

var stockShapes = []Shape{Shape1024x64, Shape1024x128, Shape1024x1024}

// Shapes returns the stock shapes supported out of the box.
func Shapes() []Shape {
	return append([]Shape(nil), stockShapes...)
}

func (s Shape) NbLimbs() uint { return s.ModulusBits / LimbWidth }

// ID packs the shape tuple into the stable 32-bit tag carried by artifact
// envelopes.
func (s Shape) ID() uint32 {
	var hashBit uint32
	if s.HashInCircuit {
		hashBit = 1
	}
	return uint32(s.K)<<26 | uint32(s.ModulusBits/LimbWidth)<<18 | uint32(s.MaxMsgLen)<<2 | hashBit
}

func (s Shape) String() string {
	return fmt.Sprintf("pkcs1v15-%d-%d-k%d(hash=%t)", s.ModulusBits, s.MaxMsgLen, s.K, s.HashInCircuit)
}

// Validate checks that the tuple is internally consistent.
func (s Shape) Validate() error {
	if s.ModulusBits == 0 || s.ModulusBits%LimbWidth != 0 {
		return fmt.Errorf("modulus bit length %d must be a positive multiple of %d", s.ModulusBits, LimbWidth)
	}
	if s.MaxMsgLen == 0 || s.MaxMsgLen >= 1<<16 {
		return fmt.Errorf("unsupported message length %d", s.MaxMsgLen)
	}
	if s.K == 0 || s.K > 28 {
		return fmt.Errorf("unsupported row capacity 2^%d", s.K)
	}
	return nil
}

// ShapeByID resolves a stock shape from its packed id.
func ShapeByID(id uint32) (Shape, bool) {
	for _, s := range stockShapes {
		if s.ID() == id {
			return s, true
		}
	}
	return Shape{}, false
}
