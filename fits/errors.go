package fits

import (
	"errors"
	"fmt"
)

var (
	ErrFormat     = errors.New("malformed header")
	ErrNoSuchAxis = errors.New("no such axis")
)

type CardError struct {
	Err  error
	Name string
}

func (err *CardError) Error() string {
	return fmt.Sprintf("fits: card: %s: %s", err.Name, err.Err.Error())
}

func (err *CardError) Unwrap() error {
	return err.Err
}

func (err *CardError) Is(target error) bool {
	switch target.(type) {
	case *CardError:
		return true
	default:
		return errors.Is(err.Err, target)
	}
}
