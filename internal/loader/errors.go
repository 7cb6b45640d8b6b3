package loader

import "errors"

var errNoImage = errors.New("decoder returned no image")
