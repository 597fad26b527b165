package source

import (
	argbind "github.com/motoki-dev/argbind"
	drvgojson "github.com/motoki-dev/argbind/source/gojson"
)

// init in a separate package to avoid import cycle in root. Blank-importing
// this package promotes go-json to the process-wide default JSON driver.
func init() { argbind.SetJSONDriver(drvgojson.Driver()) }
