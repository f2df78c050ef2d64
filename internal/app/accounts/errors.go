package accounts

import "errors"

var ErrInvalidRequest = errors.New("validation")
