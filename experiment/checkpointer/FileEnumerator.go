package checkpointer

import "fmt"

// FilenameEnumerator returns a function which returns filenames with
// an increasing integer suffix. The first filename returned has suffix
// start+1. Checkpointers are called from a single experiment
// goroutine, so the returned function is not safe for concurrent use.
func FilenameEnumerator(start int, filename, extension string) func() string {
	i := start
	return func() string {
		i++
		return fmt.Sprintf("%v%v%v", filename, i, extension)
	}
}
