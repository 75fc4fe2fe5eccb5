// Package main provides the Extensor CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/extensor-ml/extensor/quant"
	"github.com/extensor-ml/extensor/tensor"
)

const version = "v0.0.1-dev"

func usage() {
	fmt.Println("Extensor - Tensors and Autograd for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version     Show version")
	fmt.Println("  quantize    Round-trip a random tensor through a block codec")
	fmt.Println("  bench       Time float32 matrix multiplication")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "version":
		fmt.Printf("Extensor %s\n", version)
	case "quantize":
		runQuantize(os.Args[2:])
	case "bench":
		runBench(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

// runQuantize encodes a random normal tensor with the chosen codec and
// reports the compression ratio and reconstruction error.
func runQuantize(args []string) {
	fs := flag.NewFlagSet("quantize", flag.ExitOnError)
	n := fs.Int("n", 4096, "Number of elements")
	codec := fs.String("codec", "q4a", "Block codec: q4a or q4b")
	seed := fs.Int64("seed", 42, "Random seed")
	fs.Parse(args)

	x, err := tensor.Randn(tensor.Shape{*n}, rand.New(rand.NewSource(*seed)))
	if err != nil {
		log.Fatalf("randn: %v", err)
	}

	var q *tensor.ExTensor
	switch *codec {
	case "q4a":
		q, err = quant.EncodeQ4A(x)
	case "q4b":
		q, err = quant.EncodeQ4B(x)
	default:
		log.Fatalf("unknown codec %q (want q4a or q4b)", *codec)
	}
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	d, err := quant.Dequantize(q)
	if err != nil {
		log.Fatalf("dequantize: %v", err)
	}

	var maxErr, sumSq float64
	orig := x.AsFloat32()
	rec := d.AsFloat32()
	for i := range orig {
		e := math.Abs(float64(orig[i] - rec[i]))
		if e > maxErr {
			maxErr = e
		}
		sumSq += e * e
	}

	fmt.Printf("codec:       %s\n", *codec)
	fmt.Printf("elements:    %d\n", *n)
	fmt.Printf("bytes:       %d -> %d (%.2fx)\n",
		x.ByteSize(), q.ByteSize(), float64(x.ByteSize())/float64(q.ByteSize()))
	fmt.Printf("max error:   %.6f\n", maxErr)
	fmt.Printf("rms error:   %.6f\n", math.Sqrt(sumSq/float64(*n)))
}

// runBench multiplies two square random matrices repeatedly and
// reports wall time per iteration and throughput.
func runBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	size := fs.Int("size", 256, "Square matrix dimension")
	iters := fs.Int("iters", 10, "Number of multiplications")
	seed := fs.Int64("seed", 42, "Random seed")
	fs.Parse(args)

	rng := rand.New(rand.NewSource(*seed))
	a, err := tensor.Randn(tensor.Shape{*size, *size}, rng)
	if err != nil {
		log.Fatalf("randn: %v", err)
	}
	b, err := tensor.Randn(tensor.Shape{*size, *size}, rng)
	if err != nil {
		log.Fatalf("randn: %v", err)
	}

	start := time.Now()
	for i := 0; i < *iters; i++ {
		if _, err := tensor.MatMul(a, b); err != nil {
			log.Fatalf("matmul: %v", err)
		}
	}
	elapsed := time.Since(start)

	perIter := elapsed / time.Duration(*iters)
	flops := 2 * float64(*size) * float64(*size) * float64(*size)
	fmt.Printf("matmul %dx%d, %d iters\n", *size, *size, *iters)
	fmt.Printf("per iter:    %v\n", perIter)
	fmt.Printf("throughput:  %.2f GFLOP/s\n", flops/perIter.Seconds()/1e9)
}
