package bitpool

// Validatable is implemented by types that can check their own internal
// consistency. DebugValidate acts on any Validatable when the debug build
// tag is present.
type Validatable interface {
	Validate() error
}
