package summary

import "errors"

var ErrForbidden = errors.New("not allowed to view another user's summary")
