package domain

import "fmt"

// EntityID identifies an object or rig joint inside the engine.
type EntityID uint32

// Vec3 is a position or Euler rotation in engine space.
type Vec3 struct {
	X float64 `msgpack:"x" toml:"x"`
	Y float64 `msgpack:"y" toml:"y"`
	Z float64 `msgpack:"z" toml:"z"`
}

// Param is one named command parameter. Parameter order is significant on the
// wire: the engine receives parameters exactly as they were constructed.
type Param struct {
	Name  string
	Value any
}

// Command is one structured instruction for the engine. Commands are immutable
// once constructed; mutate by building a new one.
type Command struct {
	typ    string
	params []Param
}

// New builds a command with the given instruction type and parameters.
func New(typ string, params ...Param) Command {
	ps := make([]Param, len(params))
	copy(ps, params)
	return Command{typ: typ, params: ps}
}

// P is shorthand for a named parameter.
func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

func (c Command) Type() string { return c.typ }

// Params returns the parameters in construction order. The returned slice is
// a copy.
func (c Command) Params() []Param {
	ps := make([]Param, len(c.params))
	copy(ps, c.params)
	return ps
}

func (c Command) String() string {
	return fmt.Sprintf("%s(%d params)", c.typ, len(c.params))
}

// AddObject returns a valid add_object command.
func AddObject(name string, id EntityID, position Vec3) Command {
	return New("add_object",
		P("name", name),
		P("id", id),
		P("position", position),
	)
}

// SendTransforms asks the engine to emit object transforms every frame.
func SendTransforms() Command {
	return New("send_transforms", P("frequency", "always"))
}

// SendRigState asks the engine to emit rig joint state every frame.
func SendRigState() Command {
	return New("send_rig_state", P("frequency", "always"))
}

// SendVersion asks the engine to report its version once.
func SendVersion() Command {
	return New("send_version")
}
