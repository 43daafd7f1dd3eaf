package reedsolomon

import (
	"fmt"
	"slices"
	"sync"
)

// Pre-defined Galois Fields.
var (
	QRCodeField256     = MustGenericGF(0x011D, 256, 0)  // x^8 + x^4 + x^3 + x^2 + 1
	DataMatrixField256 = MustGenericGF(0x012D, 256, 1)  // x^8 + x^5 + x^3 + x^2 + 1
	AztecData12        = MustGenericGF(0x1069, 4096, 1) // x^12 + x^6 + x^5 + x^3 + 1
	AztecData10        = MustGenericGF(0x0409, 1024, 1) // x^10 + x^3 + 1
	AztecData8         = DataMatrixField256
	AztecData6         = MustGenericGF(0x0043, 64, 1) // x^6 + x + 1
	AztecParam         = MustGenericGF(0x0013, 16, 1) // x^4 + x + 1
	MaxiCodeField64    = AztecData6
)

var registry = struct {
	sync.RWMutex
	fields map[string]*GenericGF
}{
	fields: map[string]*GenericGF{
		"qrcode":       QRCodeField256,
		"datamatrix":   DataMatrixField256,
		"aztec-data12": AztecData12,
		"aztec-data10": AztecData10,
		"aztec-data8":  AztecData8,
		"aztec-data6":  AztecData6,
		"aztec-param":  AztecParam,
		"maxicode":     MaxiCodeField64,
	},
}

// FieldByName returns the field registered under name.
func FieldByName(name string) (*GenericGF, bool) {
	registry.RLock()
	defer registry.RUnlock()
	gf, ok := registry.fields[name]
	return gf, ok
}

// RegisterField makes gf available to FieldByName. Registering a name again
// succeeds only if the field has the same construction parameters.
func RegisterField(name string, gf *GenericGF) error {
	if name == "" || gf == nil {
		return fmt.Errorf("reedsolomon: invalid field registration %q", name)
	}
	registry.Lock()
	defer registry.Unlock()
	if existing, dup := registry.fields[name]; dup {
		if existing.sameParameters(gf) {
			return nil
		}
		return fmt.Errorf("reedsolomon: field %q already registered as %v", name, existing)
	}
	registry.fields[name] = gf
	return nil
}

// FieldNames returns the registered field names in sorted order.
func FieldNames() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.fields))
	for name := range registry.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (gf *GenericGF) sameParameters(other *GenericGF) bool {
	return gf.size == other.size && gf.primitive == other.primitive && gf.generatorBase == other.generatorBase
}
