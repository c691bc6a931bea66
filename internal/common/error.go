package common

import "fmt"

var (
	ErrDescriptorExistsError = fmt.Errorf("descriptor already exists")
	ErrNoIdentifierError     = fmt.Errorf("descriptor has no download identifier")
	ErrUnexpectedStatusError = fmt.Errorf("unexpected http status")
)
