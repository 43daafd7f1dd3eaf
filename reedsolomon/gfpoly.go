package reedsolomon

import (
	"fmt"
	"strings"
)

// GenericGFPoly represents a polynomial whose coefficients are elements of a GF.
//
// Polynomials returned by the exported API are immutable. The unexported
// set* and *InPlace methods rewrite the receiver's own buffer and are only
// applied to scratch polynomials owned by a single Decoder.
type GenericGFPoly struct {
	field        *GenericGF
	coefficients []int
}

// NewGenericGFPoly creates a polynomial from coefficients ordered from
// highest-degree to lowest-degree. Leading zeros are stripped; the slice is
// not retained.
func NewGenericGFPoly(field *GenericGF, coefficients []int) (*GenericGFPoly, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("reedsolomon: empty coefficients")
	}
	for i, c := range coefficients {
		if c < 0 || c >= field.size {
			return nil, fmt.Errorf("reedsolomon: coefficient %d at index %d outside %v", c, i, field)
		}
	}
	p := &GenericGFPoly{field: field}
	p.setCoefficients(coefficients)
	return p, nil
}

// newGenericGFPoly wraps coefficients, which the caller hands over.
func newGenericGFPoly(field *GenericGF, coefficients []int) *GenericGFPoly {
	if len(coefficients) == 0 {
		fault("newGenericGFPoly", "empty coefficients")
	}
	p := &GenericGFPoly{field: field, coefficients: coefficients}
	p.normalize()
	return p
}

// Coefficients returns the polynomial coefficients. Callers must not modify
// the returned slice.
func (p *GenericGFPoly) Coefficients() []int {
	return p.coefficients
}

// Degree returns the degree of this polynomial. The zero polynomial has
// degree 0; use IsZero to tell it apart from a nonzero constant.
func (p *GenericGFPoly) Degree() int {
	return len(p.coefficients) - 1
}

// IsZero returns true if this is the zero polynomial.
func (p *GenericGFPoly) IsZero() bool {
	return p.coefficients[0] == 0
}

// GetCoefficient returns the coefficient of x^degree, or 0 if degree exceeds
// the polynomial's degree.
func (p *GenericGFPoly) GetCoefficient(degree int) int {
	if degree < 0 || degree >= len(p.coefficients) {
		return 0
	}
	return p.coefficients[len(p.coefficients)-1-degree]
}

// EvaluateAt evaluates this polynomial at a.
func (p *GenericGFPoly) EvaluateAt(a int) int {
	return evaluate(p.field, p.coefficients, a)
}

// evaluate applies Horner's method to coefficients, highest degree first.
func evaluate(field *GenericGF, coefficients []int, a int) int {
	if a == 0 {
		return coefficients[len(coefficients)-1]
	}
	if a == 1 {
		result := 0
		for _, c := range coefficients {
			result = AddOrSubtract(result, c)
		}
		return result
	}
	result := coefficients[0]
	for i := 1; i < len(coefficients); i++ {
		result = AddOrSubtract(field.Multiply(a, result), coefficients[i])
	}
	return result
}

// AddOrSubtractPoly adds (or subtracts) another polynomial.
func (p *GenericGFPoly) AddOrSubtractPoly(other *GenericGFPoly) *GenericGFPoly {
	p.checkField(other)
	if p.IsZero() {
		return other
	}
	if other.IsZero() {
		return p
	}

	smallerCoeff := p.coefficients
	largerCoeff := other.coefficients
	if len(smallerCoeff) > len(largerCoeff) {
		smallerCoeff, largerCoeff = largerCoeff, smallerCoeff
	}

	sumDiff := make([]int, len(largerCoeff))
	lengthDiff := len(largerCoeff) - len(smallerCoeff)
	copy(sumDiff, largerCoeff[:lengthDiff])

	for i := lengthDiff; i < len(largerCoeff); i++ {
		sumDiff[i] = AddOrSubtract(smallerCoeff[i-lengthDiff], largerCoeff[i])
	}

	return newGenericGFPoly(p.field, sumDiff)
}

// MultiplyPoly multiplies by another polynomial.
func (p *GenericGFPoly) MultiplyPoly(other *GenericGFPoly) *GenericGFPoly {
	p.checkField(other)
	if p.IsZero() || other.IsZero() {
		return p.field.Zero()
	}
	return newGenericGFPoly(p.field, convolve(p.field, p.coefficients, other.coefficients, nil))
}

// convolve writes the product of a and b into dst, reusing its capacity.
func convolve(field *GenericGF, a, b, dst []int) []int {
	product := resize(dst, len(a)+len(b)-1)
	for i, ac := range a {
		if ac == 0 {
			continue
		}
		for j, bc := range b {
			product[i+j] = AddOrSubtract(product[i+j], field.Multiply(ac, bc))
		}
	}
	return product
}

// MultiplyScalar multiplies by a scalar.
func (p *GenericGFPoly) MultiplyScalar(scalar int) *GenericGFPoly {
	if scalar == 0 {
		return p.field.Zero()
	}
	if scalar == 1 {
		return p
	}
	product := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, scalar)
	}
	return newGenericGFPoly(p.field, product)
}

// MultiplyByMonomial multiplies by coefficient * x^degree.
func (p *GenericGFPoly) MultiplyByMonomial(degree, coefficient int) *GenericGFPoly {
	if degree < 0 {
		fault("MultiplyByMonomial", "negative degree")
	}
	if coefficient == 0 {
		return p.field.Zero()
	}
	product := make([]int, len(p.coefficients)+degree)
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, coefficient)
	}
	return newGenericGFPoly(p.field, product)
}

// Divide divides by another polynomial, returning quotient and remainder.
// Dividing by the zero polynomial raises a Fault.
func (p *GenericGFPoly) Divide(other *GenericGFPoly) (quotient, remainder *GenericGFPoly) {
	p.checkField(other)
	quotient = &GenericGFPoly{field: p.field}
	remainder = &GenericGFPoly{field: p.field}
	remainder.setCoefficients(p.coefficients)
	remainder.divideInPlace(other, quotient)
	return quotient, remainder
}

// String renders the polynomial as a sum of terms, e.g. "a^3x^2 + x + 1".
func (p *GenericGFPoly) String() string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for degree := p.Degree(); degree >= 0; degree-- {
		c := p.GetCoefficient(degree)
		if c == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" + ")
		}
		if c != 1 || degree == 0 {
			if alpha := p.field.Log(c); alpha == 0 {
				sb.WriteByte('1')
			} else {
				fmt.Fprintf(&sb, "a^%d", alpha)
			}
		}
		switch degree {
		case 0:
		case 1:
			sb.WriteByte('x')
		default:
			fmt.Fprintf(&sb, "x^%d", degree)
		}
	}
	return sb.String()
}

func (p *GenericGFPoly) checkField(other *GenericGFPoly) {
	if p.field != other.field {
		fault("GenericGFPoly", "polynomials do not have the same field")
	}
}

// resize returns a zeroed slice of length n, reusing buf when it is large
// enough.
func resize(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

// normalize strips leading zero coefficients in place.
func (p *GenericGFPoly) normalize() {
	c := p.coefficients
	first := 0
	for first < len(c)-1 && c[first] == 0 {
		first++
	}
	if first > 0 {
		n := copy(c, c[first:])
		p.coefficients = c[:n]
	}
}

func (p *GenericGFPoly) setZero() {
	p.coefficients = resize(p.coefficients, 1)
}

func (p *GenericGFPoly) setOne() {
	p.coefficients = resize(p.coefficients, 1)
	p.coefficients[0] = 1
}

func (p *GenericGFPoly) setMonomial(degree, coefficient int) {
	if degree < 0 {
		fault("setMonomial", "negative degree")
	}
	if coefficient == 0 {
		p.setZero()
		return
	}
	p.coefficients = resize(p.coefficients, degree+1)
	p.coefficients[0] = coefficient
}

// setCoefficients copies coefficients into the receiver's buffer.
func (p *GenericGFPoly) setCoefficients(coefficients []int) {
	p.coefficients = resize(p.coefficients, len(coefficients))
	copy(p.coefficients, coefficients)
	p.normalize()
}

// addOrSubtractInPlace sets p to p + other.
func (p *GenericGFPoly) addOrSubtractInPlace(other *GenericGFPoly) {
	if other.IsZero() {
		return
	}
	if p.IsZero() {
		p.setCoefficients(other.coefficients)
		return
	}
	a, b := p.coefficients, other.coefficients
	if len(b) > len(a) {
		n, shift := len(b), len(b)-len(a)
		if cap(a) >= n {
			a = a[:n]
			copy(a[shift:], a[:n-shift])
			clear(a[:shift])
		} else {
			grown := make([]int, n)
			copy(grown[shift:], a)
			a = grown
		}
	}
	offset := len(a) - len(b)
	for i, c := range b {
		a[offset+i] = AddOrSubtract(a[offset+i], c)
	}
	p.coefficients = a
	p.normalize()
}

// multiplyInPlace sets p to p * other. tmp is swapped with p's buffer so the
// caller can keep reusing both allocations.
func (p *GenericGFPoly) multiplyInPlace(other *GenericGFPoly, tmp *[]int) {
	if p.IsZero() || other.IsZero() {
		p.setZero()
		return
	}
	product := convolve(p.field, p.coefficients, other.coefficients, *tmp)
	*tmp = p.coefficients
	p.coefficients = product
	p.normalize()
}

// scaleInPlace multiplies every coefficient by scalar.
func (p *GenericGFPoly) scaleInPlace(scalar int) {
	if scalar == 0 {
		p.setZero()
		return
	}
	for i, c := range p.coefficients {
		p.coefficients[i] = p.field.Multiply(c, scalar)
	}
}

// divideInPlace replaces p with the remainder of p / divisor and stores the
// quotient in quotient, which must not alias p or divisor.
func (p *GenericGFPoly) divideInPlace(divisor, quotient *GenericGFPoly) {
	if divisor.IsZero() {
		fault("Divide", "divide by zero polynomial")
	}
	quotient.setZero()
	if p.IsZero() || p.Degree() < divisor.Degree() {
		return
	}

	r, d := p.coefficients, divisor.coefficients
	steps := len(r) - len(d) + 1
	quotient.coefficients = resize(quotient.coefficients, steps)
	inverseDLT := p.field.Inverse(d[0])

	// Each step cancels the current leading term of the remainder.
	for i := 0; i < steps; i++ {
		if r[i] == 0 {
			continue
		}
		scale := p.field.Multiply(r[i], inverseDLT)
		quotient.coefficients[i] = scale
		for j, dc := range d {
			r[i+j] = AddOrSubtract(r[i+j], p.field.Multiply(dc, scale))
		}
	}

	quotient.normalize()
	p.normalize()
}
