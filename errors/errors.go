package errors

import (
	"fmt"
)

type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// Default code defines the code that will be used by default when
// none is given. It is set to 500, Internal Server Error
var DefaultCode = 500

type myError struct {
	code  int
	msg   string
	cause *myError
}

func (err *myError) Error() string {
	if err.cause == nil {
		return err.msg
	}

	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *myError) Code() int {
	return err.code
}

func (err *myError) Message() string {
	return err.msg
}

func (err *myError) Cause() error {
	if err.cause == nil {
		return nil
	}
	return err.cause
}

// Unwrap makes the cause reachable by the standard errors.Is and errors.As.
func (err *myError) Unwrap() error {
	return err.Cause()
}

type ErrorEnricher func(error) error

func WithCode(code int) ErrorEnricher {
	return func(err error) error {
		switch err := err.(type) {
		case nil:
			return nil
		case *myError:
			err.code = code
			return err
		}

		// default
		return &myError{
			msg:   err.Error(),
			code:  code,
			cause: nil,
		}
	}
}

func WithCause(cause error) ErrorEnricher {
	var myCause *myError
	switch cause := cause.(type) {
	case nil:
	case *myError:
		myCause = cause
	default:
		myCause = &myError{msg: cause.Error(), code: DefaultCode, cause: nil}
	}

	return func(err error) error {
		if err == nil {
			return nil
		}

		if myErr, ok := err.(*myError); ok {
			myErr.cause = myCause
			return myErr
		}

		code := DefaultCode
		if myCause != nil {
			code = myCause.code
		}
		return &myError{
			msg:   err.Error(),
			code:  code,
			cause: myCause,
		}
	}
}

func New(msg string, fs ...ErrorEnricher) error {
	var err error
	err = &myError{
		msg:   msg,
		code:  DefaultCode,
		cause: nil,
	}

	for _, f := range fs {
		err = f(err)
	}

	return err
}
