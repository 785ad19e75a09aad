package container

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigurationFrozen is returned by mutating registry operations after
// Freeze() has been called.
var ErrConfigurationFrozen = errors.New("container: configuration is frozen")

// BeanNotFoundError reports a lookup for a name (or type) with no definition.
type BeanNotFoundError struct {
	Name string
}

func (e *BeanNotFoundError) Error() string {
	return fmt.Sprintf("container: bean %q not found", e.Name)
}

// BeanAlreadyExistsError reports a duplicate registration before freeze.
type BeanAlreadyExistsError struct {
	Name string
}

func (e *BeanAlreadyExistsError) Error() string {
	return fmt.Sprintf("container: bean %q already exists", e.Name)
}

// BeanCreationError wraps a factory, post-processor, or init failure that is
// not itself a container-kind error.
type BeanCreationError struct {
	Name  string
	Cause error
}

func (e *BeanCreationError) Error() string {
	return fmt.Sprintf("container: creating bean %q: %v", e.Name, e.Cause)
}

func (e *BeanCreationError) Unwrap() error { return e.Cause }

// CircularDependencyError carries the full creation chain that closed the
// cycle. It is preserved verbatim through wrapping layers so callers can
// distinguish it from other factory failures with errors.As.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return "container: circular dependency detected: " + strings.Join(e.Chain, " -> ")
}

// TypeMismatchError reports a failed assertion after a type-directed lookup.
type TypeMismatchError struct {
	Expected string
	Found    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: type mismatch: expected %s, found %s", e.Expected, e.Found)
}

// MissingDependencyError reports a declared dependency with no definition.
type MissingDependencyError struct {
	Bean    string
	Missing string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("container: bean %q depends on %q which is not registered", e.Bean, e.Missing)
}

// DependencyValidationError wraps the first problem found by the static
// dependency validator.
type DependencyValidationError struct {
	Cause error
}

func (e *DependencyValidationError) Error() string {
	return fmt.Sprintf("container: dependency validation failed: %v", e.Cause)
}

func (e *DependencyValidationError) Unwrap() error { return e.Cause }
