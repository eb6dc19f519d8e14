// SPDX-License-Identifier: MIT
// Package: kinfit/solver
//
// solver.go: Lagrange-multiplier constrained least squares.
//
// Contract:
//   • Variables are linked by handle; the solver reads start values and
//     writes fitted values and pulls back through them.
//   • Work happens in sigma-scaled coordinates; sigma 0 marks an
//     unmeasured variable, Handle.Fixed a constant one.
//   • Non-convergence is a Result.Status, never an error or a panic.

package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

type variable struct {
	name    string
	handles []Handle
	offset  int // index of the first component in the flat vector
}

type constraint struct {
	name string
	vars []int
	fn   func([][]float64) []float64
}

// Solver is a registry of linked variables and constraints.
type Solver struct {
	name        string
	settings    Settings
	vars        []variable
	varIdx      map[string]int
	constraints []constraint
	names       map[string]struct{}
	n           int
}

// New returns an empty solver.
func New(name string, settings Settings) (*Solver, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("solver %q: %w", name, err)
	}

	return &Solver{
		name:     name,
		settings: settings,
		varIdx:   make(map[string]int),
		names:    make(map[string]struct{}),
	}, nil
}

// Name returns the solver name.
func (s *Solver) Name() string { return s.name }

// Settings returns the iteration settings.
func (s *Solver) Settings() Settings { return s.settings }

// NVariables returns the number of scalar components over all variables.
func (s *Solver) NVariables() int { return s.n }

// LinkVariable registers a named vector variable backed by hs.
func (s *Solver) LinkVariable(name string, hs []Handle) error {
	if len(hs) == 0 {
		return fmt.Errorf("LinkVariable %q: %w", name, ErrEmpty)
	}
	if _, dup := s.names[name]; dup {
		return fmt.Errorf("LinkVariable %q: %w", name, ErrDuplicateName)
	}
	for i, h := range hs {
		if h.Value == nil || h.Sigma == nil {
			return fmt.Errorf("LinkVariable %q[%d]: %w", name, i, ErrBadHandle)
		}
	}
	s.names[name] = struct{}{}
	s.varIdx[name] = len(s.vars)
	s.vars = append(s.vars, variable{name: name, handles: append([]Handle(nil), hs...), offset: s.n})
	s.n += len(hs)

	return nil
}

// AddConstraint registers fn over the named variables. fn receives the
// current values, one slice per name in varNames order, and returns the
// residuals, which must all vanish at the solution. fn must always return
// the same number of residuals and must not retain its argument.
func (s *Solver) AddConstraint(name string, varNames []string, fn func([][]float64) []float64) error {
	if len(varNames) == 0 || fn == nil {
		return fmt.Errorf("AddConstraint %q: %w", name, ErrEmpty)
	}
	if _, dup := s.names[name]; dup {
		return fmt.Errorf("AddConstraint %q: %w", name, ErrDuplicateName)
	}
	idx := make([]int, len(varNames))
	for i, vn := range varNames {
		j, ok := s.varIdx[vn]
		if !ok {
			return fmt.Errorf("AddConstraint %q: variable %q: %w", name, vn, ErrUnknownVariable)
		}
		idx[i] = j
	}
	s.names[name] = struct{}{}
	s.constraints = append(s.constraints, constraint{name: name, vars: idx, fn: fn})

	return nil
}

// fitState carries the per-call working buffers of DoFit.
type fitState struct {
	s        *Solver
	x0, sig0 []float64
	scale    []float64
	measured []bool
	fixed    []bool
	args     [][][]float64 // per constraint, per variable: values view
	nfunc    int
}

// DoFit runs the fit from the values and sigmas currently stored behind
// the handles and writes the outcome back through them. Non-convergence
// is reported via Result.Status, never as an error.
//
// Complexity: per iteration O(n·m·F) for the central-difference Jacobian
// (n variables, m constraint rows, F the cost of one constraint call)
// plus O((n+m)³) for the dense KKT solve; at most MaxIterations
// iterations. O((n+m)²) space.
func (s *Solver) DoFit() Result {
	// 1. Read start values through the handles.
	st := s.newState()
	res := Result{Variables: make(map[string]VariableResult, len(s.vars))}
	if len(s.constraints) == 0 {
		res.Status = NoConstraints
		s.fillResult(&res, st, st.x0, nil)

		return res
	}

	nUnmeasured := 0
	for i, m := range st.measured {
		if !m && !st.fixed[i] {
			nUnmeasured++
		}
	}

	// 2. Residuals at the start point fix the constraint count.
	x := append([]float64(nil), st.x0...)
	f := st.eval(x)
	m := len(f)
	if m == 0 {
		res.Status = NoConstraints
		s.fillResult(&res, st, x, nil)

		return res
	}
	res.NDoF = m - nUnmeasured
	if res.NDoF < 0 {
		res.Status = NegativeDoF
		s.fillResult(&res, st, x, nil)

		return res
	}
	if !finite(f) {
		res.Status = UnphysicalValues
		s.fillResult(&res, st, x, nil)

		return res
	}

	// 3. Iterate linearised KKT steps.
	n := s.n
	chi2 := 0.0
	res.Status = TooManyIterations
	for it := 1; it <= s.settings.MaxIterations; it++ {
		res.NIterations = it
		J := st.jacobian(x, m)
		next, ok := st.step(x, f, J)
		if !ok {
			res.Status = Singular
			break
		}
		fNext := st.eval(next)
		if !finite(next) || !finite(fNext) {
			res.Status = UnphysicalValues
			break
		}
		x, f = next, fNext
		chi2Next := st.chiSquare(x)
		dchi2 := math.Abs(chi2Next - chi2)
		chi2 = chi2Next
		if maxAbs(f) < s.settings.ConstraintAccuracy && dchi2 < s.settings.ChiSquareEpsilon {
			res.Status = Success
			break
		}
	}
	res.ChiSquare = chi2

	// 4. Covariance from the inverted KKT matrix at the final point.
	var cov *mat.Dense
	if res.Status == Success || res.Status == TooManyIterations {
		cov = st.covariance(st.jacobian(x, m), n)
	}
	s.fillResult(&res, st, x, cov)

	// 5. Probability of the χ² for the available degrees of freedom.
	switch {
	case res.NDoF > 0:
		res.Probability = distuv.ChiSquared{K: float64(res.NDoF)}.Survival(res.ChiSquare)
	default:
		res.Probability = math.NaN()
	}
	res.NFunctions = st.nfunc

	return res
}

func (s *Solver) newState() *fitState {
	st := &fitState{
		s:        s,
		x0:       make([]float64, s.n),
		sig0:     make([]float64, s.n),
		scale:    make([]float64, s.n),
		measured: make([]bool, s.n),
		fixed:    make([]bool, s.n),
	}
	for _, v := range s.vars {
		for i, h := range v.handles {
			k := v.offset + i
			st.x0[k] = *h.Value
			st.sig0[k] = math.Abs(*h.Sigma)
			st.fixed[k] = h.Fixed
			st.measured[k] = st.sig0[k] > 0 && !h.Fixed
			switch {
			case st.measured[k]:
				st.scale[k] = st.sig0[k]
			case st.x0[k] != 0:
				st.scale[k] = math.Abs(st.x0[k])
			default:
				st.scale[k] = 1
			}
		}
	}
	st.args = make([][][]float64, len(s.constraints))
	for c, con := range s.constraints {
		st.args[c] = make([][]float64, len(con.vars))
	}

	return st
}

// eval evaluates all constraints at x and concatenates their residuals.
func (st *fitState) eval(x []float64) []float64 {
	st.nfunc++
	var out []float64
	for c, con := range st.s.constraints {
		for i, vi := range con.vars {
			v := st.s.vars[vi]
			st.args[c][i] = x[v.offset : v.offset+len(v.handles)]
		}
		out = append(out, con.fn(st.args[c])...)
	}

	return out
}

// jacobian returns ∂f/∂u in scaled coordinates u = x/scale.
func (st *fitState) jacobian(x []float64, m int) *mat.Dense {
	n := len(x)
	J := mat.NewDense(m, n, nil)
	h := st.s.settings.StepFactor
	xp := append([]float64(nil), x...)
	for i := 0; i < n; i++ {
		if st.fixed[i] {
			continue
		}
		d := h * st.scale[i]
		xp[i] = x[i] + d
		fp := st.eval(xp)
		xp[i] = x[i] - d
		fm := st.eval(xp)
		xp[i] = x[i]
		for j := 0; j < m && j < len(fp) && j < len(fm); j++ {
			J.Set(j, i, (fp[j]-fm[j])/(2*h))
		}
	}

	return J
}

// kkt assembles the KKT matrix for Jacobian J.
func (st *fitState) kkt(J *mat.Dense) *mat.Dense {
	m, n := J.Dims()
	K := mat.NewDense(n+m, n+m, nil)
	for i := 0; i < n; i++ {
		if st.measured[i] || st.fixed[i] {
			K.Set(i, i, 1)
		}
	}
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			v := J.At(j, i)
			K.Set(n+j, i, v)
			K.Set(i, n+j, v)
		}
	}

	return K
}

// step solves one linearised problem and returns the new x.
func (st *fitState) step(x, f []float64, J *mat.Dense) ([]float64, bool) {
	m, n := J.Dims()
	K := st.kkt(J)
	rhs := mat.NewVecDense(n+m, nil)
	u := make([]float64, n)
	for i := 0; i < n; i++ {
		u[i] = x[i] / st.scale[i]
		if st.measured[i] || st.fixed[i] {
			rhs.SetVec(i, st.x0[i]/st.scale[i])
		}
	}
	uv := mat.NewVecDense(n, u)
	var ju mat.VecDense
	ju.MulVec(J, uv)
	for j := 0; j < m; j++ {
		rhs.SetVec(n+j, ju.AtVec(j)-f[j])
	}

	var sol mat.VecDense
	if err := sol.SolveVec(K, rhs); !usable(err) {
		return nil, false
	}
	next := make([]float64, n)
	for i := 0; i < n; i++ {
		next[i] = sol.AtVec(i) * st.scale[i]
	}

	return next, true
}

// covariance returns the upper-left n×n block of the inverse KKT matrix,
// in scaled coordinates, or nil if the matrix cannot be inverted.
func (st *fitState) covariance(J *mat.Dense, n int) *mat.Dense {
	var inv mat.Dense
	if err := inv.Inverse(st.kkt(J)); !usable(err) {
		return nil
	}
	return mat.DenseCopyOf(inv.Slice(0, n, 0, n))
}

func (st *fitState) chiSquare(x []float64) float64 {
	chi2 := 0.0
	for i := range x {
		if !st.measured[i] {
			continue
		}
		d := (x[i] - st.x0[i]) / st.sig0[i]
		chi2 += d * d
	}

	return chi2
}

// fillResult writes x (and, with a covariance, sigmas and pulls) back
// through the handles and records everything in res. Sigmas of
// unmeasured components are reported but their handles keep σ = 0.
func (s *Solver) fillResult(res *Result, st *fitState, x []float64, cov *mat.Dense) {
	for _, v := range s.vars {
		vr := VariableResult{
			ValuesBefore: make([]float64, len(v.handles)),
			SigmasBefore: make([]float64, len(v.handles)),
			Values:       make([]float64, len(v.handles)),
			Sigmas:       make([]float64, len(v.handles)),
			Pulls:        make([]float64, len(v.handles)),
		}
		for i, h := range v.handles {
			k := v.offset + i
			vr.ValuesBefore[i] = st.x0[k]
			vr.SigmasBefore[i] = st.sig0[k]
			vr.Values[i] = x[k]
			vr.Sigmas[i] = st.sig0[k]
			if cov != nil && !st.fixed[k] {
				ck := cov.At(k, k)
				vr.Sigmas[i] = st.scale[k] * math.Sqrt(math.Abs(ck))
				if st.measured[k] {
					if d := 1 - ck; d > 1e-12 {
						vr.Pulls[i] = (x[k] - st.x0[k]) / st.scale[k] / math.Sqrt(d)
					}
				}
			}

			*h.Value = x[k]
			if st.measured[k] {
				*h.Sigma = vr.Sigmas[i]
			}
			if h.Pull != nil {
				*h.Pull = vr.Pulls[i]
			}
		}
		res.Variables[v.name] = vr
	}
}

// usable accepts nil and finite condition-number warnings.
func usable(err error) bool {
	if err == nil {
		return true
	}
	var c mat.Condition
	if errors.As(err, &c) {
		return !math.IsInf(float64(c), 0) && !math.IsNaN(float64(c))
	}

	return false
}

func finite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

func maxAbs(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		m = math.Max(m, math.Abs(x))
	}

	return m
}
