// Package internal builds the dense {0,1} sub-matrices ("Δ" blocks) that
// the Hsiao parity-check matrix is assembled from, using
// github.com/nathanhack/sparsemat as the GF(2) matrix primitive — the same
// library and stacking idiom the teacher uses to build generator matrices.
package internal

import (
	mat "github.com/nathanhack/sparsemat"
	"gonum.org/v1/gonum/stat/combin"
)

// Binomial returns C(n, r) as an int, clamping out-of-domain inputs to 0.
func Binomial(n, r int) int {
	if r < 0 || n < 0 || r > n {
		return 0
	}
	return int(combin.Binomial(n, r))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// selectRows returns a new matrix containing m's rows in the order given
// by order (order[i] names the source row that becomes row i).
func selectRows(m mat.SparseMat, order []int) mat.SparseMat {
	_, cols := m.Dims()
	result := mat.CSRMat(len(order), cols)
	for i, src := range order {
		for _, c := range m.Row(src).NonzeroArray() {
			result.Set(i, c, 1)
		}
	}
	return result
}

// Delta implements the recursive Δ(rows, cols, weight) construction: a
// rows×cols GF(2) matrix containing distinct columns of the given Hamming
// weight, built so that resulting parity-check matrix rows carry
// near-equal weight.
func Delta(rows, cols, weight int) mat.SparseMat {
	switch {
	case cols == 0:
		return mat.CSRMat(rows, 0)
	case weight == 0:
		return mat.CSRMat(rows, 1)
	case weight == rows:
		m := mat.CSRMat(rows, 1)
		for r := 0; r < rows; r++ {
			m.Set(r, 0, 1)
		}
		return m
	case cols == 1:
		m := mat.CSRMat(rows, 1)
		for r := 0; r < weight; r++ {
			m.Set(r, 0, 1)
		}
		return m
	case weight == 1:
		m := mat.CSRMat(rows, cols)
		for c := 0; c < cols; c++ {
			m.Set(c, c, 1)
		}
		return m
	case weight == rows-1:
		m := mat.CSRMat(rows, cols)
		top := rows - cols
		for r := 0; r < top; r++ {
			for c := 0; c < cols; c++ {
				m.Set(r, c, 1)
			}
		}
		for i := 0; i < cols; i++ {
			for j := 0; j < cols; j++ {
				if i != j {
					m.Set(top+i, j, 1)
				}
			}
		}
		return m
	default:
		return deltaGeneral(rows, cols, weight)
	}
}

func deltaGeneral(rows, cols, weight int) mat.SparseMat {
	m1 := ceilDiv(cols*weight, rows)
	delta1 := Delta(rows-1, m1, weight-1)
	delta2 := Delta(rows-1, cols-m1, weight)

	r1 := ((weight - 1) * m1) % (rows - 1)
	r2 := (weight * (cols - m1)) % (rows - 1)

	var order []int
	if r1+r2 > rows-1 {
		rp := r1 + r2 - (rows - 1)
		for i := r2 - rp; i < rows-1; i++ {
			order = append(order, i)
		}
		for i := 0; i < r2-rp; i++ {
			order = append(order, i)
		}
	} else {
		for i := 0; i < min(r1+1, rows-1-r2); i++ {
			order = append(order, r2+i)
		}
		for i := 0; i < r2; i++ {
			order = append(order, i)
		}
		for i := r1 + 1; i < rows-1-r2; i++ {
			order = append(order, r2+i)
		}
	}
	delta2Prime := selectRows(delta2, order)

	result := mat.CSRMat(rows, cols)
	for c := 0; c < m1; c++ {
		result.Set(0, c, 1)
	}
	result.SetMatrix(delta1, 1, 0)
	result.SetMatrix(delta2Prime, 1, m1)
	return result
}
