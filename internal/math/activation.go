package math

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/drakos74/go-ex-machina/xmath"
)

// SigmoidBound is the absolute limit applied to the sigmoid argument before the exponential.
const SigmoidBound = 10.0

var (
	InvalidArgumentErr = errors.New("invalid argument")

	clip = xmath.Clip(-SigmoidBound, SigmoidBound)
)

// Sigmoid is the logistic function on the clipped argument.
// The result is always within (0,1).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-clip(x)))
}

// SigmoidDerivative returns sigmoid(x) * (1 - sigmoid(x)).
func SigmoidDerivative(x float64) float64 {
	s := Sigmoid(x)
	return s * (1 - s)
}

// Relu returns max(0,x).
func Relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// ReluDerivative is 1 for a strictly positive argument and 0 otherwise.
func ReluDerivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Activation is the non-linearity applied to the hidden units.
// The output unit is not affected by it.
type Activation string

const (
	ActivationReLU    Activation = "relu"
	ActivationSigmoid Activation = "sigmoid"
)

// Activations lists the supported activation kinds.
func Activations() []Activation {
	return []Activation{ActivationReLU, ActivationSigmoid}
}

// ParseActivation resolves the activation kind from its name, ignoring case.
func ParseActivation(s string) (Activation, error) {
	a := Activation(strings.ToLower(strings.TrimSpace(s)))
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// Validate checks that the activation is one of the known kinds.
func (a Activation) Validate() error {
	switch a {
	case ActivationReLU, ActivationSigmoid:
		return nil
	}
	return fmt.Errorf("unknown activation '%s': %w", a, InvalidArgumentErr)
}

// Apply evaluates the activation function.
func (a Activation) Apply(x float64) float64 {
	if a == ActivationSigmoid {
		return Sigmoid(x)
	}
	return Relu(x)
}

// Derivative evaluates the derivative of the activation function.
func (a Activation) Derivative(x float64) float64 {
	if a == ActivationSigmoid {
		return SigmoidDerivative(x)
	}
	return ReluDerivative(x)
}

func (a Activation) String() string {
	return string(a)
}
