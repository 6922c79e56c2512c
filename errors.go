package bink

import "errors"

// Error taxonomy for the decoder. Callers should use errors.Is against
// these sentinels rather than matching on message text.
var (
	// ErrSourceExhausted is returned when the byte source ended before the
	// expected number of bytes were delivered for a header, a table, or a
	// frame body.
	ErrSourceExhausted = errors.New("bink: source exhausted")

	// ErrInvalidFormat is returned when the fixed header's magic does not
	// match a Bink file.
	ErrInvalidFormat = errors.New("bink: invalid format")

	// ErrUnsupportedFormat names the case where the header parses but
	// Header.Supported is false (version 2, revision b, c or e, or
	// unknown). No function in this package returns it: on such a header
	// Decoder.NextFrame and Decoder.Skip return ErrNoMoreFrames.
	ErrUnsupportedFormat = errors.New("bink: unsupported format")

	// ErrCorruptStream is returned when a frame's video payload contains
	// an unrecognized block type or sub-block type, and by
	// Demuxer.ReadFrame when a frame body's audio segments run past the
	// end of the body. It is fatal for the current Decoder; callers
	// should drop it.
	ErrCorruptStream = errors.New("bink: corrupt stream")

	// ErrNoMoreFrames is the terminal result of NextFrame once every
	// frame in the offset table has been produced, and the immediate
	// result when the stream is unsupported.
	ErrNoMoreFrames = errors.New("bink: no more frames")
)
