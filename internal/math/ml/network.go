package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/drakos74/go-ex-machina/xmath"
	nnmath "github.com/drakos74/nn-playground/internal/math"
)

const (
	// Inputs is the number of input units, e.g. the point coordinates.
	Inputs = 2
	// MaxHiddenUnits is the largest supported hidden layer.
	MaxHiddenUnits = 64
	// DefaultMomentum is the momentum coefficient for the velocity updates.
	DefaultMomentum = 0.9
)

var (
	InvalidConfigErr   = errors.New("invalid configuration")
	InvalidArgumentErr = errors.New("invalid argument")
	NoForwardPassErr   = errors.New("backward pass without preceding forward pass")
	EmptyDatasetErr    = errors.New("empty dataset")
)

// pass caches the intermediate values of the last forward pass.
type pass struct {
	ready     bool
	input     xmath.Vector
	hiddenPre xmath.Vector
	hidden    xmath.Vector
	outputPre float64
	output    float64
}

// Network is a 2-H-1 feed forward network trained with momentum gradient descent.
// It exclusively owns its weights, velocities and the forward cache,
// so it must not be shared between goroutines without external synchronisation.
type Network struct {
	hiddenUnits  int
	learningRate float64
	momentum     float64
	activation   nnmath.Activation

	// weightsIH is indexed by [input][hidden]
	weightsIH xmath.Matrix
	biasH     xmath.Vector
	weightsHO xmath.Vector
	biasO     float64

	velocityIH    xmath.Matrix
	velocityBiasH xmath.Vector
	velocityHO    xmath.Vector
	velocityBiasO float64

	cache pass
	rnd   *rand.Rand
}

// initWeight creates a fan-in scaled uniform initialiser.
func initWeight(rnd *rand.Rand, fanIn int) func() float64 {
	scale := math.Sqrt(2.0 / float64(fanIn))
	return func() float64 {
		return (rnd.Float64() - 0.5) * scale
	}
}

func initVec(n int, gen func() float64) xmath.Vector {
	v := xmath.Vec(n)
	for i := range v {
		v[i] = gen()
	}
	return v
}

func validRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("learning rate must be a positive number '%v': %w", rate, InvalidConfigErr)
	}
	return nil
}

// NewNetwork creates a new network with randomised weights and zero velocities.
// The random source is used for initialisation and the per-epoch shuffling,
// a nil source falls back to a time seeded one.
func NewNetwork(hiddenUnits int, learningRate float64, rnd *rand.Rand) (*Network, error) {
	if hiddenUnits < 1 || hiddenUnits > MaxHiddenUnits {
		return nil, fmt.Errorf("hidden units must be within [1,%d] '%d': %w", MaxHiddenUnits, hiddenUnits, InvalidConfigErr)
	}
	if err := validRate(learningRate); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = nnmath.Random()
	}

	initInput := initWeight(rnd, Inputs)
	initHidden := initWeight(rnd, hiddenUnits)

	weightsIH := xmath.Mat(Inputs)
	for j := range weightsIH {
		weightsIH[j] = initVec(hiddenUnits, initInput)
	}
	biasH := initVec(hiddenUnits, initInput)
	weightsHO := initVec(hiddenUnits, initHidden)
	biasO := initHidden()

	return &Network{
		hiddenUnits:   hiddenUnits,
		learningRate:  learningRate,
		momentum:      DefaultMomentum,
		activation:    nnmath.ActivationReLU,
		weightsIH:     weightsIH,
		biasH:         biasH,
		weightsHO:     weightsHO,
		biasO:         biasO,
		velocityIH:    xmath.Mat(Inputs).Of(hiddenUnits),
		velocityBiasH: xmath.Vec(hiddenUnits),
		velocityHO:    xmath.Vec(hiddenUnits),
		rnd:           rnd,
	}, nil
}

// WithMomentum overrides the momentum coefficient.
// It is meant to be used right after construction.
func (n *Network) WithMomentum(momentum float64) (*Network, error) {
	if math.IsNaN(momentum) || momentum < 0 || momentum >= 1 {
		return n, fmt.Errorf("momentum must be within [0,1) '%v': %w", momentum, InvalidConfigErr)
	}
	n.momentum = momentum
	return n, nil
}

// SetActivation switches the hidden layer activation, weights are left as they are.
func (n *Network) SetActivation(kind nnmath.Activation) error {
	if err := kind.Validate(); err != nil {
		return fmt.Errorf("could not set activation: %w", err)
	}
	n.activation = kind
	return nil
}

// SetLearningRate changes the learning rate for the next updates.
func (n *Network) SetLearningRate(rate float64) error {
	if err := validRate(rate); err != nil {
		return err
	}
	n.learningRate = rate
	return nil
}

func (n *Network) HiddenUnits() int {
	return n.hiddenUnits
}

func (n *Network) LearningRate() float64 {
	return n.learningRate
}

func (n *Network) Momentum() float64 {
	return n.momentum
}

func (n *Network) Activation() nnmath.Activation {
	return n.activation
}

// Forward evaluates the network for the given input and caches the intermediate values
// for the following Backward call.
func (n *Network) Forward(input xmath.Vector) float64 {
	xmath.MustHaveSize(input, Inputs)

	hiddenPre := n.biasH.Copy()
	for j := 0; j < Inputs; j++ {
		for i := 0; i < n.hiddenUnits; i++ {
			hiddenPre[i] += n.weightsIH[j][i] * input[j]
		}
	}
	hidden := hiddenPre.Op(n.activation.Apply)

	// the output is a probability, so it is always a sigmoid
	outputPre := n.biasO + n.weightsHO.Dot(hidden)
	output := nnmath.Sigmoid(outputPre)

	n.cache = pass{
		ready:     true,
		input:     input.Copy(),
		hiddenPre: hiddenPre,
		hidden:    hidden,
		outputPre: outputPre,
		output:    output,
	}
	return output
}

// Backward applies one momentum gradient descent update for the squared error
// between the last forward output and the target.
// It consumes the forward cache, so it must follow exactly one Forward call.
func (n *Network) Backward(target float64) error {
	if !n.cache.ready {
		return NoForwardPassErr
	}
	c := n.cache
	n.cache.ready = false

	outputDelta := (c.output - target) * nnmath.SigmoidDerivative(c.outputPre)

	hiddenDelta := xmath.Vec(n.hiddenUnits)
	for i := range hiddenDelta {
		hiddenDelta[i] = n.weightsHO[i] * outputDelta * n.activation.Derivative(c.hiddenPre[i])
	}

	for i := 0; i < n.hiddenUnits; i++ {
		n.velocityHO[i] = n.step(n.velocityHO[i], outputDelta*c.hidden[i])
		n.weightsHO[i] += n.velocityHO[i]
	}

	n.velocityBiasO = n.step(n.velocityBiasO, outputDelta)
	n.biasO += n.velocityBiasO

	for j := 0; j < Inputs; j++ {
		for i := 0; i < n.hiddenUnits; i++ {
			n.velocityIH[j][i] = n.step(n.velocityIH[j][i], hiddenDelta[i]*c.input[j])
			n.weightsIH[j][i] += n.velocityIH[j][i]
		}
	}

	for i := 0; i < n.hiddenUnits; i++ {
		n.velocityBiasH[i] = n.step(n.velocityBiasH[i], hiddenDelta[i])
		n.biasH[i] += n.velocityBiasH[i]
	}

	return nil
}

// step returns the new velocity for the given gradient.
func (n *Network) step(velocity, gradient float64) float64 {
	return n.momentum*velocity - n.learningRate*gradient
}

// Predict returns the class 1 probability for the given point.
func (n *Network) Predict(x, y float64) float64 {
	return n.Forward(xmath.Vec(Inputs).With(x, y))
}

// Weights is a detached copy of the network connection weights.
type Weights struct {
	InputHidden  xmath.Matrix `json:"input_hidden"`
	HiddenOutput xmath.Vector `json:"hidden_output"`
}

// Weights returns a copy of the current connection weights.
func (n *Network) Weights() Weights {
	return Weights{
		InputHidden:  n.weightsIH.Copy(),
		HiddenOutput: n.weightsHO.Copy(),
	}
}
