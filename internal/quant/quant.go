// Package quant implements the block-quantization codecs for the Q4A
// and Q4B dtypes.
//
// Both codecs work on blocks of 32 consecutive float32 elements. Each
// block stores one scale byte followed by the packed payload:
//
//	Q4A: |8 bit scale|32 x 4 bit values| = 17 bytes/block
//	Q4B: |8 bit scale|32 x 2 bit values| =  9 bytes/block
//
// A tensor whose element count is not a multiple of 32 is padded with
// zeros up to the next block boundary before encoding. The encoded
// tensor keeps the original logical shape, so the true (unpadded)
// element count survives the round trip; Decode returns a flat
// [blocks*32] tensor that callers truncate and reshape, or use
// Dequantize to do both in one step.
package quant

import (
	"math"

	"github.com/extensor-ml/extensor/internal/tensor"
)

// BlockSize is the number of logical elements per block.
const BlockSize = tensor.BlockSize

// EncodeQ4A packs a contiguous float32 tensor into the Q4A format:
// signed 4-bit values in [-8, 7] with a per-block scale of maxabs/7.
func EncodeQ4A(t *tensor.ExTensor) (*tensor.ExTensor, error) {
	return encode(t, tensor.Q4A)
}

// EncodeQ4B packs a contiguous float32 tensor into the Q4B format:
// signed 2-bit values in [-2, 1] with a per-block scale of maxabs/2.
// Half the footprint of Q4A, four times the quantization step.
func EncodeQ4B(t *tensor.ExTensor) (*tensor.ExTensor, error) {
	return encode(t, tensor.Q4B)
}

// DecodeQ4A unpacks a Q4A tensor into a flat float32 tensor of shape
// [blocks*32], padding included.
func DecodeQ4A(q *tensor.ExTensor) (*tensor.ExTensor, error) {
	return decode(q, tensor.Q4A)
}

// DecodeQ4B unpacks a Q4B tensor into a flat float32 tensor of shape
// [blocks*32], padding included.
func DecodeQ4B(q *tensor.ExTensor) (*tensor.ExTensor, error) {
	return decode(q, tensor.Q4B)
}

// Dequantize decodes either quantized format and restores the original
// logical shape, dropping block padding.
func Dequantize(q *tensor.ExTensor) (*tensor.ExTensor, error) {
	var flat *tensor.ExTensor
	var err error
	switch q.DType() {
	case tensor.Q4A:
		flat, err = decode(q, tensor.Q4A)
	case tensor.Q4B:
		flat, err = decode(q, tensor.Q4B)
	default:
		return nil, &tensor.DTypeError{Op: "dequantize", A: q.DType(), B: q.DType(), Reason: "not a quantized dtype"}
	}
	if err != nil {
		return nil, err
	}
	numel := q.NumElements()
	trimmed, err := flat.Slice(0, 0, numel)
	if err != nil {
		return nil, err
	}
	return trimmed.Reshape(q.Shape())
}

func encode(t *tensor.ExTensor, dtype tensor.DataType) (*tensor.ExTensor, error) {
	if t.DType() != tensor.Float32 {
		return nil, &tensor.DTypeError{Op: "encode", A: t.DType(), B: tensor.Float32, Reason: "codec input must be float32"}
	}
	if !t.IsContiguous() {
		return nil, &tensor.NotContiguousError{Op: "encode"}
	}

	// The output tensor is constructed with the input's explicit,
	// validated shape; required_bytes sizes the buffer per block.
	out, err := tensor.New(t.Shape(), dtype)
	if err != nil {
		return nil, err
	}
	raw, err := out.Data()
	if err != nil {
		return nil, err
	}

	src := t.AsFloat32()
	numel := t.NumElements()
	blocks := (numel + BlockSize - 1) / BlockSize
	blockBytes := dtype.BlockBytes()

	var block [BlockSize]float32
	for b := 0; b < blocks; b++ {
		// Gather one block, zero-padding past the end.
		for i := range block {
			if idx := b*BlockSize + i; idx < numel {
				block[i] = src[idx]
			} else {
				block[i] = 0
			}
		}
		dst := raw[b*blockBytes : (b+1)*blockBytes]
		switch dtype {
		case tensor.Q4A:
			packQ4A(&block, dst)
		case tensor.Q4B:
			packQ4B(&block, dst)
		default:
			panic("quant: not a quantized dtype")
		}
	}
	return out, nil
}

func decode(q *tensor.ExTensor, dtype tensor.DataType) (*tensor.ExTensor, error) {
	if q.DType() != dtype {
		return nil, &tensor.DTypeError{Op: "decode", A: q.DType(), B: dtype}
	}
	raw, err := q.Data()
	if err != nil {
		return nil, err
	}

	numel := q.NumElements()
	blocks := (numel + BlockSize - 1) / BlockSize
	blockBytes := dtype.BlockBytes()

	// Allocate with an explicit, non-empty shape: an empty shape list
	// would silently mean numel == 1.
	flatShape := tensor.Shape{blocks * BlockSize}
	out, err := tensor.New(flatShape, tensor.Float32)
	if err != nil {
		return nil, err
	}
	dst := out.AsFloat32()

	for b := 0; b < blocks; b++ {
		src := raw[b*blockBytes : (b+1)*blockBytes]
		buf := dst[b*BlockSize : (b+1)*BlockSize]
		switch dtype {
		case tensor.Q4A:
			unpackQ4A(src, buf)
		case tensor.Q4B:
			unpackQ4B(src, buf)
		default:
			panic("quant: not a quantized dtype")
		}
	}
	return out, nil
}

// packQ4A quantizes one block to 4-bit values: q = round(x/scale)
// clamped to [-8, 7], stored biased by +8, two values per byte.
func packQ4A(block *[BlockSize]float32, dst []byte) {
	scale := blockScale(block, 7)
	code := scaleToCode(scale)
	dst[0] = code
	scale = scaleFromCode(code) // quantize through the stored scale

	for j := 0; j < BlockSize/2; j++ {
		lo := quantize(block[2*j], scale, -8, 7) + 8
		hi := quantize(block[2*j+1], scale, -8, 7) + 8
		dst[1+j] = byte(lo) | byte(hi)<<4
	}
}

// unpackQ4A reverses packQ4A.
func unpackQ4A(src []byte, dst []float32) {
	scale := scaleFromCode(src[0])
	for j := 0; j < BlockSize/2; j++ {
		b := src[1+j]
		dst[2*j] = float32(int(b&0x0f)-8) * scale
		dst[2*j+1] = float32(int(b>>4)-8) * scale
	}
}

// packQ4B quantizes one block to 2-bit values: q = round(x/scale)
// clamped to [-2, 1], stored biased by +2, four values per byte.
func packQ4B(block *[BlockSize]float32, dst []byte) {
	scale := blockScale(block, 2)
	code := scaleToCode(scale)
	dst[0] = code
	scale = scaleFromCode(code)

	for j := 0; j < BlockSize/4; j++ {
		var packed byte
		for k := 0; k < 4; k++ {
			q := quantize(block[4*j+k], scale, -2, 1) + 2
			packed |= byte(q) << (2 * k)
		}
		dst[1+j] = packed
	}
}

// unpackQ4B reverses packQ4B.
func unpackQ4B(src []byte, dst []float32) {
	scale := scaleFromCode(src[0])
	for j := 0; j < BlockSize/4; j++ {
		b := src[1+j]
		for k := 0; k < 4; k++ {
			dst[4*j+k] = float32(int(b>>(2*k)&0x03)-2) * scale
		}
	}
}

// blockScale returns maxabs/divisor for one block, 0 for an all-zero
// block.
func blockScale(block *[BlockSize]float32, divisor float32) float32 {
	var maxAbs float32
	for _, v := range block {
		if a := float32(math.Abs(float64(v))); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs / divisor
}

// quantize maps x to the nearest integer step of scale, clamped.
func quantize(x, scale float32, lo, hi int) int {
	if scale == 0 {
		return 0
	}
	q := int(math.Round(float64(x / scale)))
	if q < lo {
		q = lo
	}
	if q > hi {
		q = hi
	}
	return q
}
