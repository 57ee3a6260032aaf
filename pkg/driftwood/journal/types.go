package journal

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

// keySeparator splits the record prefix, timestamp, and ID in keys.
const keySeparator = '\x00'

// runPrefix namespaces journal entries within the store.
const runPrefix = "run"

// Entry records one completed operation against a worktree.
type Entry struct {
	ID      string        // unique run identifier
	Time    time.Time     // when the operation finished
	Op      string        // list, classify, plan, clean, or drift
	Root    string        // absolute worktree root
	Policy  string        // cleanup policy, empty for non-cleanup ops
	Count   int           // primary count: ignored files, candidates, or changes
	Bytes   int64         // byte total the count refers to
	Deleted int           // clean only
	Failed  int           // clean only
	Elapsed time.Duration // scan-to-report duration

	// Manifest is the deletion manifest ID for clean runs that wrote
	// one, empty otherwise.
	Manifest string
}

// Encode serializes the entry with gob.
func (e *Entry) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes gob bytes into the entry.
func (e *Entry) Decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(e)
}

// makeKey builds a key that sorts chronologically: the timestamp is a
// fixed-width decimal, so lexicographic order is time order, and the ID
// suffix keeps same-nanosecond entries distinct.
func makeKey(at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%c%020d%c%s",
		runPrefix, keySeparator, at.UnixNano(), keySeparator, id))
}

// makeTimeBound builds the smallest possible key at the given instant,
// for use as an iteration bound.
func makeTimeBound(at time.Time) []byte {
	return []byte(fmt.Sprintf("%s%c%020d", runPrefix, keySeparator, at.UnixNano()))
}

// makePrefix returns the prefix shared by all journal entries.
func makePrefix() []byte {
	return []byte(fmt.Sprintf("%s%c", runPrefix, keySeparator))
}
