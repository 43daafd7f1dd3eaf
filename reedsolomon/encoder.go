package reedsolomon

import "sync"

// Encoder computes systematic Reed-Solomon check symbols. It is safe for
// concurrent use.
type Encoder struct {
	field *GenericGF

	mu         sync.Mutex
	generators []*GenericGFPoly // generators[d] has degree d
}

// NewEncoder creates a new Encoder for the given field.
func NewEncoder(field *GenericGF) *Encoder {
	return &Encoder{field: field, generators: []*GenericGFPoly{field.One()}}
}

// buildGenerator returns prod_{i<degree} (x - a^(i+generatorBase)).
func (e *Encoder) buildGenerator(degree int) *GenericGFPoly {
	e.mu.Lock()
	defer e.mu.Unlock()
	for d := len(e.generators); d <= degree; d++ {
		root := e.field.Exp(d - 1 + e.field.generatorBase)
		e.generators = append(e.generators,
			e.generators[d-1].MultiplyPoly(newGenericGFPoly(e.field, []int{1, root})))
	}
	return e.generators[degree]
}

// Encode overwrites the last ecSymbols entries of codeword with the check
// symbols for the data symbols before them.
//
// ecSymbols <= 0, no room for data, or a data symbol outside the field
// raises a Fault.
func (e *Encoder) Encode(codeword []int, ecSymbols int) {
	if ecSymbols <= 0 {
		fault("Encode", "no error correction symbols")
	}
	numData := len(codeword) - ecSymbols
	if numData <= 0 {
		fault("Encode", "no data symbols provided")
	}
	data, check := codeword[:numData], codeword[numData:]
	for _, c := range data {
		if c < 0 || c >= e.field.size {
			fault("Encode", "symbol outside field")
		}
	}

	// The generator is monic, so the remainder of data*x^ecSymbols can be
	// accumulated one data symbol at a time in a shift register.
	g := e.buildGenerator(ecSymbols).coefficients
	clear(check)
	for _, c := range data {
		feedback := AddOrSubtract(c, check[0])
		copy(check, check[1:])
		check[ecSymbols-1] = 0
		if feedback == 0 {
			continue
		}
		for j := range check {
			check[j] = AddOrSubtract(check[j], e.field.Multiply(g[j+1], feedback))
		}
	}
}
