// Package object defines the Object type: a named descriptor identifying a
// domain of values. Objects carry no runtime payload beyond their identity,
// compare by value, and are freely copyable. They are the endpoints every
// morphism is typed against.
package object

// Object identifies a domain of values by name.
//
// The zero Object is invalid; construct with Of. Two Objects are equal
// exactly when their names are equal, so Objects work as map keys and as
// index fields.
type Object struct {
	name string
}

// Of returns the Object identifying the domain with the given name.
func Of(name string) Object {
	return Object{name: name}
}

// Name returns the identifying name of the Object.
func (o Object) Name() string {
	return o.name
}

// String implements fmt.Stringer.
func (o Object) String() string {
	return o.name
}

// IsZero reports whether o is the invalid zero Object.
func (o Object) IsZero() bool {
	return o.name == ""
}
