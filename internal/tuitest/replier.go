package tuitest

import (
	"bytes"
	"io"
)

// terminal queries the program may issue on startup, with canned answers a
// plain dark terminal would give.
var cannedReplies = []struct {
	query []byte
	reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// queryReplier watches the output stream for terminal capability queries
// and answers them, so the program does not stall waiting on a response.
type queryReplier struct {
	w    io.Writer
	tail []byte
}

func newQueryReplier(w io.Writer) *queryReplier {
	return &queryReplier{w: w, tail: make([]byte, 0, 128)}
}

func (q *queryReplier) Feed(chunk []byte) {
	q.tail = append(q.tail, chunk...)
	for q.answerOne() {
	}
	// Keep a short tail so queries split across reads still match.
	if len(q.tail) > 256 {
		q.tail = q.tail[len(q.tail)-64:]
	}
}

func (q *queryReplier) answerOne() bool {
	for _, canned := range cannedReplies {
		if idx := bytes.Index(q.tail, canned.query); idx >= 0 {
			q.tail = q.tail[idx+len(canned.query):]
			_, _ = q.w.Write(canned.reply)
			return true
		}
	}
	return false
}
