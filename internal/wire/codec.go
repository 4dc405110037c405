package wire

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
)

// Encode gob-encodes env and frames it for writing to w.
func Encode(w io.Writer, env Envelope) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return fmt.Errorf("wire: encode envelope: %w", err)
	}
	return WriteFrame(w, buf.Bytes())
}

// Decode reads one framed envelope from r.
func Decode(r io.Reader) (Envelope, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return Envelope{}, err
	}
	var env Envelope
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("wire: decode envelope: %w", err)
	}
	return env, nil
}

// ErrUnexpectedResponse describes a well-formed envelope whose Kind does
// not match what the caller expected — a protocol mismatch. No caller in
// this module returns it: they check the response payload's type and
// treat a mismatch as an unavailable result, or ignore the response.
type ErrUnexpectedResponse struct {
	Want, Got MessageKind
}

func (e *ErrUnexpectedResponse) Error() string {
	return fmt.Sprintf("wire: unexpected response: want %s, got %s", e.Want, e.Got)
}
