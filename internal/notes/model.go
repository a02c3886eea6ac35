package notes

// TimestampLayout is the human-readable format stamped onto new notes. The
// value is captured once at creation, in server local time, and edits never
// touch it.
const TimestampLayout = "2006-01-02 15:04:05"

// Note is one entry of the note collection, persisted inside a single JSON
// array. The collection keeps insertion order; edits and deletes preserve the
// relative order of the remaining notes.
type Note struct {
	// ID is a randomly generated unique identifier, stable for the note's
	// lifetime and the sole lookup key for edit and delete.
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Time    string `json:"time"`
}
