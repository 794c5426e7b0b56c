package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner is the part of a terminal spinner the CLI drives.
type Spinner interface {
	Start()
	Stop()
}

var newSpinner = func(w io.Writer, label string) Spinner {
	s := spinner.New(spinner.CharSets[11], spinnerInterval, spinner.WithWriter(w))
	s.Suffix = " " + label
	return s
}

// WithSpinner shows a spinner on w while fn runs.
func WithSpinner(w io.Writer, label string, fn func() error) error {
	s := newSpinner(w, label)
	s.Start()
	defer s.Stop()
	return fn()
}
