package tensor

import "fmt"

// MatMul multiplies matrices with NumPy-style batch semantics: both
// operands must have rank >= 2; the trailing two axes are the matrix
// [m, k] @ [k, n], and any leading axes broadcast as batch dimensions.
//
// Both operands must share one floating dtype.
func MatMul(a, b *ExTensor) (*ExTensor, error) {
	if a.dtype.IsQuantized() || b.dtype.IsQuantized() {
		return nil, &DTypeError{Op: "matmul", A: a.dtype, B: b.dtype, Reason: "quantized operands must be decoded first"}
	}
	if a.dtype != b.dtype {
		return nil, &DTypeError{Op: "matmul", A: a.dtype, B: b.dtype}
	}
	if !a.dtype.IsFloat() {
		return nil, &DTypeError{Op: "matmul", A: a.dtype, B: b.dtype, Reason: "requires a floating dtype"}
	}
	if len(a.shape) < 2 || len(b.shape) < 2 {
		return nil, &ShapeError{
			Op: "matmul", A: a.shape.Clone(), B: b.shape.Clone(),
			Detail: fmt.Sprintf("operands must have rank >= 2, got %v and %v", a.shape, b.shape),
		}
	}

	m, ka := a.shape[len(a.shape)-2], a.shape[len(a.shape)-1]
	kb, n := b.shape[len(b.shape)-2], b.shape[len(b.shape)-1]
	if ka != kb {
		return nil, &ShapeError{
			Op: "matmul", A: a.shape.Clone(), B: b.shape.Clone(),
			Detail: fmt.Sprintf("cannot multiply shapes %v and %v: inner dimensions %d and %d differ", a.shape, b.shape, ka, kb),
		}
	}

	aBatch := a.shape[:len(a.shape)-2]
	bBatch := b.shape[:len(b.shape)-2]
	batch, err := BroadcastShapes(aBatch, bBatch)
	if err != nil {
		return nil, &ShapeError{
			Op: "matmul", A: a.shape.Clone(), B: b.shape.Clone(),
			Detail: fmt.Sprintf("cannot broadcast batch dimensions of %v and %v", a.shape, b.shape),
		}
	}

	outShape := append(batch.Clone(), m, n)
	out, err := New(outShape, a.dtype)
	if err != nil {
		return nil, err
	}

	// Fast path: plain 2-D contiguous float32.
	if len(batch) == 0 && a.dtype == Float32 && a.IsContiguous() && b.IsContiguous() {
		matmul2DF32(a.AsFloat32(), b.AsFloat32(), out.AsFloat32(), m, ka, n)
		return out, nil
	}

	aRow, aCol := a.strides[len(a.strides)-2], a.strides[len(a.strides)-1]
	bRow, bCol := b.strides[len(b.strides)-2], b.strides[len(b.strides)-1]
	aBatchStr := broadcastStrides(aBatch, a.strides[:len(a.strides)-2], batch)
	bBatchStr := broadcastStrides(bBatch, b.strides[:len(b.strides)-2], batch)

	outMat := m * n
	it := newIndexIter(batch)
	batchIdx := 0
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		aBase, bBase := a.offset, b.offset
		for d, x := range idx {
			aBase += x * aBatchStr[d]
			bBase += x * bBatchStr[d]
		}
		outBase := batchIdx * outMat
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				var acc float64
				for k := 0; k < ka; k++ {
					acc += a.loadF64(aBase+i*aRow+k*aCol) * b.loadF64(bBase+k*bRow+j*bCol)
				}
				out.storeF64(outBase+i*n+j, acc)
			}
		}
		batchIdx++
	}
	return out, nil
}

// matmul2DF32 is the dense row-major float32 kernel, loop-ordered i-k-j
// so the inner loop walks both b and out sequentially.
func matmul2DF32(a, b, out []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		for kk := 0; kk < k; kk++ {
			av := a[i*k+kk]
			if av == 0 {
				continue
			}
			bRow := b[kk*n : kk*n+n]
			outRow := out[i*n : i*n+n]
			for j := range bRow {
				outRow[j] += av * bRow[j]
			}
		}
	}
}
