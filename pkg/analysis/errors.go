package analysis

import "errors"

var ErrConditions = errors.New("impossible conditions")
