// Copyright 2025 The Extensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package quant exposes the block-quantization codecs. Both formats
// pack 32 Float32 elements into a fixed-size block with a shared 8-bit
// scale: Q4A stores 4-bit symmetric values (17 bytes per block), Q4B
// stores 2-bit values (9 bytes per block).
//
// Encoding keeps the original logical shape on the packed tensor, so
//
//	q, _ := quant.EncodeQ4A(w)
//	d, _ := quant.Dequantize(q)
//
// yields d with w's exact shape even when the element count is not a
// multiple of the block size.
package quant

import (
	"github.com/extensor-ml/extensor/internal/quant"
	"github.com/extensor-ml/extensor/internal/tensor"
)

// EncodeQ4A packs a contiguous Float32 tensor into Q4A blocks.
func EncodeQ4A(t *tensor.ExTensor) (*tensor.ExTensor, error) { return quant.EncodeQ4A(t) }

// EncodeQ4B packs a contiguous Float32 tensor into Q4B blocks.
func EncodeQ4B(t *tensor.ExTensor) (*tensor.ExTensor, error) { return quant.EncodeQ4B(t) }

// DecodeQ4A expands Q4A blocks into a flat Float32 tensor, padding
// included.
func DecodeQ4A(t *tensor.ExTensor) (*tensor.ExTensor, error) { return quant.DecodeQ4A(t) }

// DecodeQ4B expands Q4B blocks into a flat Float32 tensor, padding
// included.
func DecodeQ4B(t *tensor.ExTensor) (*tensor.ExTensor, error) { return quant.DecodeQ4B(t) }

// Dequantize decodes a quantized tensor and restores its logical shape.
func Dequantize(t *tensor.ExTensor) (*tensor.ExTensor, error) { return quant.Dequantize(t) }
