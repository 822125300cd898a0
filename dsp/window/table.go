package window

import "github.com/cwbudde/algo-vecmath"

// Table holds precomputed window coefficients so that windowing a frame in
// a real-time path costs one vector multiply and no allocation.
type Table struct {
	typ    Type
	coeffs []float64
}

// NewTable precomputes a window of the given type and size.
func NewTable(t Type, size int, opts ...Option) (*Table, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}
	return &Table{typ: t, coeffs: Generate(t, size, opts...)}, nil
}

// Len returns the window length.
func (w *Table) Len() int { return len(w.coeffs) }

// Type returns the window type.
func (w *Table) Type() Type { return w.typ }

// Coefficients returns the precomputed coefficients. Callers must not modify
// the returned slice.
func (w *Table) Coefficients() []float64 { return w.coeffs }

// ApplyTo writes src multiplied by the window into dst.
// dst and src must both have length Len().
func (w *Table) ApplyTo(dst, src []float64) error {
	if len(dst) != len(w.coeffs) || len(src) != len(w.coeffs) {
		return errMismatchedLength
	}
	vecmath.MulBlock(dst, src, w.coeffs)
	return nil
}

// ApplyInPlace multiplies buf by the window in place.
func (w *Table) ApplyInPlace(buf []float64) error {
	if len(buf) != len(w.coeffs) {
		return errMismatchedLength
	}
	vecmath.MulBlockInPlace(buf, w.coeffs)
	return nil
}
