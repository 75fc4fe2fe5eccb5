package autograd_test

import (
	"testing"

	"github.com/extensor-ml/extensor/internal/autograd"
	"github.com/extensor-ml/extensor/internal/tensor"
)

// mlpBlock is a small differentiable function used as the checkpointed
// region: out = sum(relu(x * y) * y).
func mlpBlock(t *autograd.Tape, inputs []*autograd.Variable) (*autograd.Variable, error) {
	x, y := inputs[0], inputs[1]
	p, err := t.Mul(x, y)
	if err != nil {
		return nil, err
	}
	r, err := t.ReLU(p)
	if err != nil {
		return nil, err
	}
	q, err := t.Mul(r, y)
	if err != nil {
		return nil, err
	}
	return t.Sum(q)
}

func TestCheckpoint_RecordsSingleNode(t *testing.T) {
	tape := autograd.NewTape()
	stop := tape.StartRecording()
	defer stop()

	x := autograd.NewVariable(fromFloat32(t, []float32{1, -2, 3}, tensor.Shape{3}), true)
	y := autograd.NewVariable(fromFloat32(t, []float32{2, 2, 2}, tensor.Shape{3}), true)

	out, err := tape.Checkpoint(mlpBlock, x, y)
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if tape.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (the stand-in node)", tape.Len())
	}

	v, err := out.Value().Item()
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	// relu([2, -4, 6]) * 2 = [4, 0, 12], sum = 16.
	if v != 16 {
		t.Errorf("checkpointed forward = %v, want 16", v)
	}
}

func TestCheckpoint_GradientsMatchPlainRun(t *testing.T) {
	xData := []float32{1, -2, 3, 0.5}
	yData := []float32{2, 1, -1, 4}

	// Plain run.
	plain := autograd.NewTape()
	stopPlain := plain.StartRecording()
	px := autograd.NewVariable(fromFloat32(t, xData, tensor.Shape{4}), true)
	py := autograd.NewVariable(fromFloat32(t, yData, tensor.Shape{4}), true)
	pOut, err := mlpBlock(plain, []*autograd.Variable{px, py})
	if err != nil {
		t.Fatalf("plain forward: %v", err)
	}
	if err := plain.Backward(pOut); err != nil {
		t.Fatalf("plain Backward: %v", err)
	}
	stopPlain()

	// Checkpointed run.
	ck := autograd.NewTape()
	stopCk := ck.StartRecording()
	cx := autograd.NewVariable(fromFloat32(t, xData, tensor.Shape{4}), true)
	cy := autograd.NewVariable(fromFloat32(t, yData, tensor.Shape{4}), true)
	cOut, err := ck.Checkpoint(mlpBlock, cx, cy)
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if err := ck.Backward(cOut); err != nil {
		t.Fatalf("checkpoint Backward: %v", err)
	}
	stopCk()

	pv, _ := pOut.Value().Item()
	cv, _ := cOut.Value().Item()
	if pv != cv {
		t.Errorf("forward values differ: plain %v, checkpointed %v", pv, cv)
	}

	pgx, _ := px.Grad().Float32s()
	pgy, _ := py.Grad().Float32s()
	assertGrad(t, cx, pgx, "x gradient vs plain run")
	assertGrad(t, cy, pgy, "y gradient vs plain run")
}

func TestCheckpoint_UntrackedInputs(t *testing.T) {
	tape := autograd.NewTape()
	stop := tape.StartRecording()
	defer stop()

	x := autograd.NewVariable(fromFloat32(t, []float32{1, 2}, tensor.Shape{2}), false)
	y := autograd.NewVariable(fromFloat32(t, []float32{3, 4}, tensor.Shape{2}), false)

	out, err := tape.Checkpoint(mlpBlock, x, y)
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if out.RequiresGrad() {
		t.Error("checkpoint over untracked inputs requires grad")
	}
	if tape.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tape.Len())
	}
}

func TestCheckpoint_ComposesWithOtherOps(t *testing.T) {
	tape := autograd.NewTape()
	stop := tape.StartRecording()
	defer stop()

	x := autograd.NewVariable(fromFloat32(t, []float32{1, 2, 3}, tensor.Shape{3}), true)
	y := autograd.NewVariable(fromFloat32(t, []float32{1, 1, 1}, tensor.Shape{3}), true)

	mid, err := tape.Checkpoint(mlpBlock, x, y)
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	// Keep differentiating past the checkpoint.
	two := autograd.NewVariable(tensor.Scalar(2), false)
	loss, err := tape.Mul(mid, two)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if err := tape.Backward(loss); err != nil {
		t.Fatalf("Backward: %v", err)
	}

	// d(2 * sum(relu(x*y)*y))/dx = 2*y*y for positive x*y.
	assertGrad(t, x, []float32{2, 2, 2}, "gradient through checkpoint")
}
