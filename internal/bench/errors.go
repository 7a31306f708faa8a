// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrDeadline is returned, wrapped, by waits that go past the global
// simulated time deadline.
//
var ErrDeadline = errors.New("simulated time deadline exceeded")

// A TimeoutError is returned by a bounded wait that expired before the
// expected edge.
//
type TimeoutError struct {
	Signal string
	Edge   Edge
	Budget time.Duration // bound of the wait
	At     time.Duration // simulated time when the wait expired
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("at %v: no %s edge on %s within %v", e.At, e.Edge, e.Signal, e.Budget)
}

// An AssertionError reports a failed comparison.
//
type AssertionError struct {
	What      string
	Got       int64
	Want      int64
	At        time.Duration // simulated time of the comparison
	Iteration int           // stimulus iteration, -1 if not applicable
}

func (e *AssertionError) Error() string {
	if e.Iteration < 0 {
		return fmt.Sprintf("at %v: %s: got %d, want %d", e.At, e.What, e.Got, e.Want)
	}
	return fmt.Sprintf("at %v, iteration %d: %s: got %d, want %d", e.At, e.Iteration, e.What, e.Got, e.Want)
}

// IsFailure returns true if err reports a verification failure (timeout,
// assertion or deadline) as opposed to a setup or usage error.
//
func IsFailure(err error) bool {
	var te *TimeoutError
	var ae *AssertionError
	return errors.As(err, &te) || errors.As(err, &ae) || errors.Cause(err) == ErrDeadline
}
