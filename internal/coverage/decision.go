package coverage

import "fmt"

// Decision is the result of an installation check.
type Decision int

const (
	// Indeterminate means that the installation status could not be
	// retrieved.
	Indeterminate Decision = iota
	// Covered means that the automated update app is installed for the
	// repository.
	Covered
	// NotCovered means that the automated update app is not installed for
	// the repository.
	NotCovered
)

func (d Decision) String() string {
	switch d {
	case Covered:
		return "covered"
	case NotCovered:
		return "not_covered"
	case Indeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Policy defines how an Indeterminate decision is reported by
// Checker.IsCoverageInstalled.
type Policy int

const (
	// FailClosed reports Indeterminate decisions as not covered, without
	// an error.
	FailClosed Policy = iota
	// PropagateError reports Indeterminate decisions as error.
	PropagateError
)

const (
	PolicyFailClosedName     = "fail_closed"
	PolicyPropagateErrorName = "propagate_error"
)

// ParsePolicy converts a policy name to a Policy.
// An empty string results in FailClosed.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", PolicyFailClosedName:
		return FailClosed, nil
	case PolicyPropagateErrorName:
		return PropagateError, nil
	default:
		return FailClosed, fmt.Errorf("unsupported policy %q, supported: %q, %q",
			name, PolicyFailClosedName, PolicyPropagateErrorName,
		)
	}
}

func (p Policy) String() string {
	if p == PropagateError {
		return PolicyPropagateErrorName
	}

	return PolicyFailClosedName
}
