package officenetwork

import "errors"

var (
	ErrOfficeNetworkNotFound = errors.New("office network not found")
)
