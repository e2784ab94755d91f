package workflow

import "fmt"

// StoreError marks a profile read/write failure. The caller's form
// state is preserved so the user can retry manually; there is no
// automatic retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
