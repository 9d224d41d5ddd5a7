package audit

import "errors"

var (
	ErrEmptyFieldName = errors.New("audit record requires a field name")
	ErrMissingEntity  = errors.New("audit record requires tenant and entity id")
)
