package util

import "math"

// spec.md assumes a linear-algebra collaborator supplies eigendecomposition;
// that collaborator is out of scope for this module (§1), but the
// utilities that *consume* an eigendecomposition (sub-state extraction,
// entanglement's mutual-information test) are squarely Component A. None of
// the example repos in the retrieval pack ship a complex eigensolver, so
// the two specific decompositions this package needs are hand-rolled here
// rather than reaching for an unverified dependency:
//
//   - DominantEigenvector: a pure sub-state's reduced density matrix has
//     exactly one eigenvalue near 1 and the rest near 0, so plain complex
//     power iteration converges to it in a handful of steps.
//   - hermitianEigenvalues: entanglement only ever needs the full spectra
//     of a 4x4 (two-qubit) reduced density matrix and of its two 2x2
//     (one-qubit) marginals, so a classic Jacobi
//     sweep is run on the real symmetric 2n x 2n embedding of the complex
//     Hermitian matrix (each eigenvalue of the original appears twice in
//     the embedding), avoiding complex Givens rotations entirely.

// DominantEigenvector returns the (normalized) eigenvector associated with
// rho's largest-magnitude eigenvalue, found via power iteration. For a pure
// state's reduced density matrix this is the sub-state-vector up to a
// global phase.
func DominantEigenvector(rho Matrix) []complex128 {
	n := rho.Dim()
	// Start from the column with the largest diagonal entry: for a pure
	// rho = |psi><psi| it is psi times a non-zero scalar, so the start is
	// never orthogonal to the result (as a uniform start is for |->).
	best := 0
	for i := 1; i < n; i++ {
		if real(rho[i][i]) > real(rho[best][best]) {
			best = i
		}
	}
	v := make([]complex128, n)
	for i := range v {
		v[i] = rho[i][best]
	}
	normalizeVector(v)

	const iterations = 60
	for iter := 0; iter < iterations; iter++ {
		next := applyMatrix(rho, v)
		normalizeVector(next)
		v = next
	}
	return v
}

func applyMatrix(m Matrix, v []complex128) []complex128 {
	n := m.Dim()
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		var sum complex128
		for j := 0; j < n; j++ {
			sum += m[i][j] * v[j]
		}
		out[i] = sum
	}
	return out
}

func normalizeVector(v []complex128) {
	var normSq float64
	for _, a := range v {
		normSq += real(a)*real(a) + imag(a)*imag(a)
	}
	if normSq < DefaultEpsilon*DefaultEpsilon {
		return
	}
	norm := math.Sqrt(normSq)
	for i := range v {
		v[i] = v[i] / complex(norm, 0)
	}
}

// hermitianEigenvalues returns the eigenvalues of a complex Hermitian
// matrix, found by running the classic cyclic Jacobi eigenvalue algorithm
// on its real symmetric 2n x 2n embedding
//
//	[ Re(H)  -Im(H) ]
//	[ Im(H)   Re(H) ]
//
// whose spectrum is exactly that of H, each value repeated twice.
func hermitianEigenvalues(h Matrix) []float64 {
	n := h.Dim()
	size := 2 * n
	a := make([][]float64, size)
	for i := range a {
		a[i] = make([]float64, size)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a[i][j] = real(h[i][j])
			a[i+n][j+n] = real(h[i][j])
			a[i][j+n] = -imag(h[i][j])
			a[i+n][j] = imag(h[i][j])
		}
	}

	eigs := jacobiEigenvalues(a)

	// Each true eigenvalue appears twice; pair them up by sorting and
	// taking every other entry.
	sortFloats(eigs)
	result := make([]float64, 0, n)
	for i := 0; i < len(eigs); i += 2 {
		result = append(result, eigs[i])
	}
	return result
}

// jacobiEigenvalues runs the cyclic Jacobi eigenvalue algorithm on a real
// symmetric matrix (modified in place) and returns its eigenvalues.
func jacobiEigenvalues(a [][]float64) []float64 {
	n := len(a)
	const maxSweeps = 100

	for sweep := 0; sweep < maxSweeps; sweep++ {
		offDiag := 0.0
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				offDiag += a[p][q] * a[p][q]
			}
		}
		if offDiag < DefaultEpsilon*DefaultEpsilon {
			break
		}

		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(a[p][q]) < 1e-14 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				app, aqq, apq := a[p][p], a[q][q], a[p][q]
				a[p][p] = c*c*app - 2*s*c*apq + s*s*aqq
				a[q][q] = s*s*app + 2*s*c*apq + c*c*aqq
				a[p][q] = 0
				a[q][p] = 0

				for i := 0; i < n; i++ {
					if i == p || i == q {
						continue
					}
					aip, aiq := a[i][p], a[i][q]
					a[i][p] = c*aip - s*aiq
					a[p][i] = a[i][p]
					a[i][q] = s*aip + c*aiq
					a[q][i] = a[i][q]
				}
			}
		}
	}

	eigs := make([]float64, n)
	for i := range eigs {
		eigs[i] = a[i][i]
	}
	return eigs
}

func sortFloats(v []float64) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j-1] > v[j]; j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
}

// VonNeumannEntropy returns S(rho) = -sum(lambda * log2(lambda)) over rho's
// eigenvalues, treating any eigenvalue in (-epsilon, epsilon) as exactly
// zero (it contributes 0 to the sum rather than NaN from log2(0)).
func VonNeumannEntropy(rho Matrix) float64 {
	eigs := hermitianEigenvalues(rho)
	var s float64
	for _, lambda := range eigs {
		if lambda > -DefaultEpsilon && lambda < DefaultEpsilon {
			continue
		}
		if lambda < 0 {
			lambda = 0
		}
		s -= lambda * math.Log2(lambda)
	}
	return s
}

// MutualInformationPositive reports whether two qubits described by a 4x4
// reduced density matrix rhoAB (qubit indices 0 and 1 of it) have strictly
// positive quantum mutual information S(A)+S(B)-S(AB), the operational
// definition of entanglement used throughout this module.
func MutualInformationPositive(rhoAB Matrix) bool {
	rhoA := PartialTrace(rhoAB, 2, []int{0})
	rhoB := PartialTrace(rhoAB, 2, []int{1})

	sA := VonNeumannEntropy(rhoA)
	sB := VonNeumannEntropy(rhoB)
	sAB := VonNeumannEntropy(rhoAB)

	mutual := sA + sB - sAB
	return mutual > DefaultEpsilon
}
