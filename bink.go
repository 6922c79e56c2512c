// Package bink decodes the Bink 1 video container format (revisions d
// through i, excluding e): per-frame planar YUV(A) video plus
// zero or more per-track PCM audio packets.
//
// Open parses the fixed header, audio track table and frame-offset
// table from a Source, then hands back a Decoder whose NextFrame
// produces frames strictly in encoded order. A Decoder is not safe for
// concurrent use; transfer ownership instead of sharing it.
package bink

import "context"

// DecodedFrame is the combined video image and per-track audio packets
// produced by one NextFrame call, per spec §3.
type DecodedFrame struct {
	Video *Frame
	Audio []*AudioPacket
}

// Decoder combines a Demuxer, a VideoDecoder and one AudioDecoder per
// track into the high-level interface described in spec §3-§5.
type Decoder struct {
	demux   *Demuxer
	video   *VideoDecoder
	audio   []*AudioDecoder
	scratch *Frame
}

// Open parses src's header and constructs the per-track audio decoders
// and single video decoder that live for the Decoder's lifetime, per
// spec §4.1's Lifecycles note.
func Open(ctx context.Context, src Source) (*Decoder, error) {
	demux, err := OpenDemuxer(ctx, src)
	if err != nil {
		return nil, err
	}

	d := &Decoder{demux: demux}

	h := demux.Header()

	if h.Supported() {
		d.video = NewVideoDecoder(h.Width, h.Height, h.HasAlpha, h.HasSwappedUVPlanes, h.SubVersion)

		d.audio = make([]*AudioDecoder, len(h.AudioTracks))
		for i, t := range h.AudioTracks {
			d.audio[i] = NewAudioDecoder(t.SampleRate, t.NumChannels, t.UseDCT)
		}
	}

	return d, nil
}

// Header returns the parsed file header.
func (d *Decoder) Header() *Header {
	return d.demux.Header()
}

// NextFrame decodes the next frame's video image and audio packets. dst,
// if non-nil, is reused and overwritten in place rather than allocating
// a new Frame; dst must have been returned by a prior NextFrame call on
// this same Decoder (or be nil). Returns ErrNoMoreFrames once every
// frame has been produced, and immediately if the header is
// unsupported, per spec §4.5's support predicate.
func (d *Decoder) NextFrame(ctx context.Context, dst *Frame) (*DecodedFrame, error) {
	if !d.Header().Supported() {
		return nil, ErrNoMoreFrames
	}

	payloads, err := d.demux.ReadFrame(ctx)
	if err != nil {
		return nil, err
	}

	if dst == nil {
		dst = NewFrame(d.Header().Width, d.Header().Height, d.Header().HasAlpha)
	}

	if err := d.video.DecodeFrame(payloads.Video, dst); err != nil {
		return nil, err
	}

	out := &DecodedFrame{Video: dst, Audio: make([]*AudioPacket, len(d.audio))}

	for i, ad := range d.audio {
		if payloads.Audio[i] == nil {
			out.Audio[i] = &AudioPacket{}

			continue
		}

		out.Audio[i] = ad.DecodePacket(payloads.Audio[i])
	}

	return out, nil
}

// Skip decodes and discards the next frame, advancing the decoder's
// position exactly as NextFrame would without returning output, per
// spec §5's replay-by-skip note. It decodes fully (not just slices the
// payload) so the previous-frame and overlap-window state stays correct
// for subsequent calls.
func (d *Decoder) Skip(ctx context.Context) error {
	_, err := d.NextFrame(ctx, d.skipScratch())

	return err
}

// skipScratch lazily allocates a throwaway Frame reused by every Skip
// call, so Skip allocates that Frame only once.
func (d *Decoder) skipScratch() *Frame {
	if d.scratch == nil {
		d.scratch = NewFrame(d.Header().Width, d.Header().Height, d.Header().HasAlpha)
	}

	return d.scratch
}

// Reset rewinds the Decoder to its first frame, clearing the video
// decoder's previous-frame reference and every audio decoder's overlap
// window, per spec §4.1's reset+replay idempotency requirement.
func (d *Decoder) Reset() {
	d.demux.Reset()

	if d.video != nil {
		d.video.Reset()
	}

	for _, ad := range d.audio {
		ad.Reset()
	}
}
