package checkpointer

import (
	"fmt"
	"time"
)

// timestampLayout sorts lexically in time order
const timestampLayout = "20060102T150405.000000000"

// FileTimer returns a function which returns filenames suffixed by the
// current UTC time, e.g. returns-20240102T150405.000000000.bin
func FileTimer(filename, extension string) func() string {
	return fileTimer(filename, extension, time.Now)
}

func fileTimer(filename, extension string, now func() time.Time) func() string {
	return func() string {
		return fmt.Sprintf("%v-%v%v", filename,
			now().UTC().Format(timestampLayout), extension)
	}
}
