// Package operation implements the configurable-operation model shared
// by promotion conditions and actions, shipping checkers and
// calculators, payment method handlers and order merge strategies: a
// named strategy with a declared argument schema and typed, validated
// argument values.
package operation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Common operation errors.
var (
	ErrDuplicateCode    = errors.New("duplicate operation code")
	ErrUnknownOperation = errors.New("operation not registered")
	ErrUnknownArgument  = errors.New("argument not declared")
	ErrMissingArgument  = errors.New("argument not provided")
	ErrTypeMismatch     = errors.New("argument type mismatch")
)

// Arg is one named argument value as configured by an administrator.
// Values are always carried as strings and coerced against the owning
// operation's ArgSpec at evaluation time. List values are JSON arrays.
type Arg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ConfigurableOperation is the persisted form of one configured
// strategy: a code identifying the implementation plus its argument
// values.
type ConfigurableOperation struct {
	Code string `json:"code"`
	Args []Arg  `json:"arguments"`
}

// EncodeList serializes operations to the JSON text-column form.
func EncodeList(ops []ConfigurableOperation) (string, error) {
	if len(ops) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return "", fmt.Errorf("encode operations: %w", err)
	}
	return string(raw), nil
}

// DecodeList parses the JSON text-column form back into operations.
// Malformed input is a fatal error, never masked.
func DecodeList(raw string) ([]ConfigurableOperation, error) {
	if raw == "" {
		return nil, nil
	}
	var ops []ConfigurableOperation
	if err := json.Unmarshal([]byte(raw), &ops); err != nil {
		return nil, fmt.Errorf("decode operations: %w", err)
	}
	return ops, nil
}

// Encode serializes a single operation to its JSON column form.
func Encode(op ConfigurableOperation) (string, error) {
	raw, err := json.Marshal(op)
	if err != nil {
		return "", fmt.Errorf("encode operation: %w", err)
	}
	return string(raw), nil
}

// Decode parses a single operation from its JSON column form.
func Decode(raw string) (ConfigurableOperation, error) {
	var op ConfigurableOperation
	if raw == "" {
		return op, nil
	}
	if err := json.Unmarshal([]byte(raw), &op); err != nil {
		return op, fmt.Errorf("decode operation: %w", err)
	}
	return op, nil
}

// Operation is the common surface of every configurable strategy.
type Operation interface {
	// Code uniquely identifies the operation within its category.
	Code() string

	// Description is the human-readable summary shown to administrators.
	Description() string

	// ArgSpec declares the arguments the operation accepts.
	ArgSpec() ArgSpec

	// Priority orders operations of the same category. Lower values run
	// first; ties keep declaration order.
	Priority() int
}

// BaseOperation carries the descriptive part of an operation. Concrete
// conditions, checkers, calculators and handlers embed it.
type BaseOperation struct {
	code        string
	description string
	priority    int
	args        ArgSpec
}

// NewBaseOperation creates the descriptive base of an operation.
func NewBaseOperation(code, description string, priority int, args ArgSpec) BaseOperation {
	return BaseOperation{
		code:        code,
		description: description,
		priority:    priority,
		args:        args,
	}
}

// Code returns the unique operation code.
func (b BaseOperation) Code() string {
	return b.code
}

// Description returns the operation description.
func (b BaseOperation) Description() string {
	return b.description
}

// ArgSpec returns the declared argument schema.
func (b BaseOperation) ArgSpec() ArgSpec {
	return b.args
}

// Priority returns the evaluation priority.
func (b BaseOperation) Priority() int {
	return b.priority
}
