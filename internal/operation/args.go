package operation

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ArgType enumerates the value types an operation argument may declare.
type ArgType string

const (
	ArgTypeInt      ArgType = "int"
	ArgTypeFloat    ArgType = "float"
	ArgTypeString   ArgType = "string"
	ArgTypeBoolean  ArgType = "boolean"
	ArgTypeID       ArgType = "ID"
	ArgTypeDatetime ArgType = "datetime"
)

// ArgDef declares a single argument: its type, whether it is a list,
// and UI metadata for the admin configuration surface.
type ArgDef struct {
	Type        ArgType           `json:"type"`
	List        bool              `json:"list,omitempty"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	UI          map[string]string `json:"ui,omitempty"`
}

// ArgSpec is the declared argument schema of an operation, keyed by
// argument name. It is built once per operation and never mutated.
type ArgSpec map[string]ArgDef

// ArgValues holds the raw argument values of one configured operation,
// validated against the owning operation's ArgSpec. Typed getters
// coerce on access and fail on any mismatch between the requested type
// and the declared one.
type ArgValues struct {
	spec ArgSpec
	raw  map[string]string
}

// Resolve validates op's arguments against spec and returns typed
// accessors. Arguments not declared in spec are rejected.
func Resolve(op ConfigurableOperation, spec ArgSpec) (*ArgValues, error) {
	raw := make(map[string]string, len(op.Args))
	for _, arg := range op.Args {
		if _, ok := spec[arg.Name]; !ok {
			return nil, fmt.Errorf("%w: %q for operation %q", ErrUnknownArgument, arg.Name, op.Code)
		}
		raw[arg.Name] = arg.Value
	}
	return &ArgValues{spec: spec, raw: raw}, nil
}

// lookup fetches the raw value of name, checking the declared type and
// list flag against what the caller asked for.
func (v *ArgValues) lookup(name string, want ArgType, wantList bool) (string, error) {
	def, ok := v.spec[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownArgument, name)
	}
	if def.Type != want || def.List != wantList {
		return "", fmt.Errorf("%w: %q is declared as %s (list=%v)", ErrTypeMismatch, name, def.Type, def.List)
	}
	raw, ok := v.raw[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingArgument, name)
	}
	return raw, nil
}

// Int returns the named int argument.
func (v *ArgValues) Int(name string) (int, error) {
	raw, err := v.lookup(name, ArgTypeInt, false)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an int: %q", ErrTypeMismatch, name, raw)
	}
	return n, nil
}

// Float returns the named float argument.
func (v *ArgValues) Float(name string) (float64, error) {
	raw, err := v.lookup(name, ArgTypeFloat, false)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a float: %q", ErrTypeMismatch, name, raw)
	}
	return f, nil
}

// String returns the named string argument.
func (v *ArgValues) String(name string) (string, error) {
	return v.lookup(name, ArgTypeString, false)
}

// Bool returns the named boolean argument.
func (v *ArgValues) Bool(name string) (bool, error) {
	raw, err := v.lookup(name, ArgTypeBoolean, false)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not a boolean: %q", ErrTypeMismatch, name, raw)
	}
	return b, nil
}

// ID returns the named ID argument.
func (v *ArgValues) ID(name string) (string, error) {
	return v.lookup(name, ArgTypeID, false)
}

// IDList returns the named ID-list argument. List values are stored as
// JSON arrays of strings.
func (v *ArgValues) IDList(name string) ([]string, error) {
	raw, err := v.lookup(name, ArgTypeID, true)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %q is not an ID list: %q", ErrTypeMismatch, name, raw)
	}
	return ids, nil
}

// IntList returns the named int-list argument.
func (v *ArgValues) IntList(name string) ([]int, error) {
	raw, err := v.lookup(name, ArgTypeInt, true)
	if err != nil {
		return nil, err
	}
	var ns []int
	if err := json.Unmarshal([]byte(raw), &ns); err != nil {
		return nil, fmt.Errorf("%w: %q is not an int list: %q", ErrTypeMismatch, name, raw)
	}
	return ns, nil
}
