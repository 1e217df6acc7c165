//go:build gojson

package compare_test

import (
	jskema "github.com/reoring/jskema"
	drv "github.com/reoring/jskema/source/gojson"
)

func init() { jskema.SetJSONDriver(drv.Driver()) }
