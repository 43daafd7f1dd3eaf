package reedsolomon

import "sync"

// scratch holds the buffers one decode call works in. Polynomials are
// rotated between the named slots by pointer swaps rather than copies.
type scratch struct {
	r, rLast, t, tLast, q *GenericGFPoly
	product               []int

	syndromes  []int
	locations  []int
	magnitudes []int
	positions  []int
}

func newScratch(field *GenericGF) scratch {
	poly := func() *GenericGFPoly {
		return &GenericGFPoly{field: field, coefficients: []int{0}}
	}
	return scratch{r: poly(), rLast: poly(), t: poly(), tLast: poly(), q: poly()}
}

// Decoder performs Reed-Solomon error correction decoding.
//
// A Decoder reuses internal buffers between calls and must not be used by
// more than one goroutine at a time. Use one Decoder per goroutine, or a
// DecoderPool.
type Decoder struct {
	field   *GenericGF
	scratch scratch
}

// NewDecoder creates a new Decoder for the given field.
func NewDecoder(field *GenericGF) *Decoder {
	return &Decoder{field: field, scratch: newScratch(field)}
}

// Field returns the field d decodes over.
func (d *Decoder) Field() *GenericGF { return d.field }

// Decode corrects errors in received in-place and returns the number of
// errors corrected. twoS is the number of error-correction codewords; up to
// twoS/2 symbol errors can be corrected.
//
// On any status other than StatusOK, received is left unmodified.
//
// When received holds more errors than twoS/2, Decode usually reports one of
// the uncorrectable statuses. In rare cases the error pattern is
// indistinguishable from a correctable one and Decode returns StatusOK after
// writing a wrong correction; callers that need stronger guarantees must
// check the result at the symbology level (format checks, CRCs).
//
// twoS <= 0, twoS > len(received), or a symbol outside the field raises a
// Fault.
func (d *Decoder) Decode(received []int, twoS int) (int, Status) {
	if twoS <= 0 || twoS > len(received) {
		fault("Decode", "number of syndromes out of range")
	}
	for _, c := range received {
		if c < 0 || c >= d.field.size {
			fault("Decode", "symbol outside field")
		}
	}

	s := &d.scratch
	s.syndromes = resize(s.syndromes, twoS)
	noError := true
	for i := 0; i < twoS; i++ {
		eval := evaluate(d.field, received, d.field.Exp(i+d.field.generatorBase))
		s.syndromes[twoS-1-i] = eval
		if eval != 0 {
			noError = false
		}
	}
	if noError {
		return 0, StatusOK
	}

	s.r.setCoefficients(s.syndromes)
	sigma, omega, status := d.runEuclideanAlgorithm(twoS)
	if status != StatusOK {
		return 0, status
	}
	if status = d.findErrorLocations(sigma); status != StatusOK {
		return 0, status
	}
	d.findErrorMagnitudes(omega)

	s.positions = resize(s.positions, len(s.locations))
	for i, location := range s.locations {
		position := len(received) - 1 - d.field.Log(location)
		if position < 0 {
			return 0, StatusBadLocation
		}
		s.positions[i] = position
	}
	for i, position := range s.positions {
		received[position] = AddOrSubtract(received[position], s.magnitudes[i])
	}
	return len(s.locations), StatusOK
}

// runEuclideanAlgorithm expects the syndrome polynomial in scratch.r and
// returns the error locator and evaluator, both owned by the scratch.
func (d *Decoder) runEuclideanAlgorithm(R int) (sigma, omega *GenericGFPoly, status Status) {
	s := &d.scratch
	r, rLast, t, tLast, q := s.r, s.rLast, s.t, s.tLast, s.q
	defer func() {
		s.r, s.rLast, s.t, s.tLast, s.q = r, rLast, t, tLast, q
	}()

	rLast.setMonomial(R, 1)
	tLast.setZero()
	t.setOne()

	// Assume r's degree is < rLast's
	if r.Degree() >= rLast.Degree() {
		r, rLast = rLast, r
	}

	// Run Euclidean algorithm until r's degree is less than R/2
	for r.Degree() >= R/2 {
		tLast, t = t, tLast
		rLast, r = r, rLast

		if rLast.IsZero() {
			return nil, nil, StatusAlgorithmFailed
		}

		// Divide rLastLast by rLast, with quotient in q and remainder in r
		r.divideInPlace(rLast, q)

		// t = q * tLast + tLastLast
		q.multiplyInPlace(tLast, &s.product)
		q.addOrSubtractInPlace(t)
		t, q = q, t

		if r.Degree() >= rLast.Degree() && !r.IsZero() {
			fault("runEuclideanAlgorithm", "division algorithm failed to reduce polynomial")
		}
	}

	sigmaTildeAtZero := t.GetCoefficient(0)
	if sigmaTildeAtZero == 0 {
		return nil, nil, StatusSigmaTildeZero
	}

	inverse := d.field.Inverse(sigmaTildeAtZero)
	t.scaleInPlace(inverse)
	r.scaleInPlace(inverse)
	return t, r, StatusOK
}

// findErrorLocations applies Chien's search to the error locator.
func (d *Decoder) findErrorLocations(errorLocator *GenericGFPoly) Status {
	s := &d.scratch
	numErrors := errorLocator.Degree()
	s.locations = s.locations[:0]
	if numErrors == 1 {
		s.locations = append(s.locations, errorLocator.GetCoefficient(1))
		return StatusOK
	}
	for i := 1; i < d.field.Size() && len(s.locations) < numErrors; i++ {
		if errorLocator.EvaluateAt(i) == 0 {
			s.locations = append(s.locations, d.field.Inverse(i))
		}
	}
	if len(s.locations) != numErrors {
		return StatusDegreeMismatch
	}
	return StatusOK
}

// findErrorMagnitudes applies Forney's formula.
func (d *Decoder) findErrorMagnitudes(errorEvaluator *GenericGFPoly) {
	s := &d.scratch
	n := len(s.locations)
	s.magnitudes = resize(s.magnitudes, n)
	for i := 0; i < n; i++ {
		xiInverse := d.field.Inverse(s.locations[i])
		denominator := 1
		for j := 0; j < n; j++ {
			if i != j {
				// 1 + term in GF(2^m) only toggles the low bit, since field
				// addition is XOR. Not valid for non-binary fields.
				term := d.field.Multiply(s.locations[j], xiInverse)
				termPlus1 := term ^ 1
				denominator = d.field.Multiply(denominator, termPlus1)
			}
		}
		// Distinct roots keep the denominator nonzero.
		s.magnitudes[i] = d.field.Multiply(errorEvaluator.EvaluateAt(xiInverse), d.field.Inverse(denominator))
		if d.field.generatorBase != 0 {
			s.magnitudes[i] = d.field.Multiply(s.magnitudes[i], xiInverse)
		}
	}
}

// DecoderPool hands out Decoders bound to one field so concurrent callers
// never share scratch buffers. The zero value is not usable.
type DecoderPool struct {
	field *GenericGF
	pool  sync.Pool
}

// NewDecoderPool creates a pool of Decoders for field.
func NewDecoderPool(field *GenericGF) *DecoderPool {
	p := &DecoderPool{field: field}
	p.pool.New = func() any { return NewDecoder(field) }
	return p
}

// Field returns the field of the pooled decoders.
func (p *DecoderPool) Field() *GenericGF { return p.field }

// Decode is like Decoder.Decode and is safe for concurrent use.
func (p *DecoderPool) Decode(received []int, twoS int) (int, Status) {
	d := p.pool.Get().(*Decoder)
	defer p.pool.Put(d)
	return d.Decode(received, twoS)
}
