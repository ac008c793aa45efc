// Package cobs implements Consistent Overhead Byte Stuffing framing for
// the illustrative debug transport named in the FOC kernel's external
// interfaces (spec.md §6): an 8-bit endpoint id followed by a payload,
// delimited by a single reserved zero byte so a reader can always find
// frame boundaries on a byte stream.
//
// This package is a stand-in for the full RTT/COBS/postcard RPC stack
// that talks to host tooling in the real system; that stack (and its
// wire schema for telemetry/commands) is out of scope per spec.md §1.
// What's implemented here is just the framing technique itself, grounded
// in the same byte-stuffing idea as the teacher's KISS framing
// (kiss_frame.go's FEND/FESC escaping), adapted to COBS's run-length
// scheme instead of escape bytes.
package cobs

import "fmt"

// delimiter is the single byte value COBS removes from the payload by
// encoding run lengths instead. A decoded frame is terminated by this
// byte on the wire; it never appears inside an encoded frame's body.
const delimiter = 0x00

// Encode returns data encoded as a COBS frame, including the trailing
// delimiter byte. The encoded length is at most len(data) + len(data)/254 + 2
// (integer division).
func Encode(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/254+2)

	// codePos holds the index (in out) of the length byte for the run
	// currently being built; it starts as a placeholder and is patched in
	// once the run's length (or a forced split at 254 bytes) is known.
	codePos := 0
	out = append(out, 0) // placeholder
	code := byte(1)

	for _, b := range data {
		if b == delimiter {
			out[codePos] = code
			codePos = len(out)
			out = append(out, 0)
			code = 1
			continue
		}

		out = append(out, b)
		code++

		if code == 0xFF {
			out[codePos] = code
			codePos = len(out)
			out = append(out, 0)
			code = 1
		}
	}

	out[codePos] = code
	out = append(out, delimiter)
	return out
}

// Decode reverses Encode. frame must include the trailing delimiter byte.
// Decode returns an error if frame is malformed (missing delimiter, or a
// run length that runs past the frame).
func Decode(frame []byte) ([]byte, error) {
	if len(frame) == 0 || frame[len(frame)-1] != delimiter {
		return nil, fmt.Errorf("cobs: frame missing trailing delimiter")
	}
	body := frame[:len(frame)-1]

	out := make([]byte, 0, len(body))
	i := 0
	for i < len(body) {
		code := int(body[i])
		if code == 0 {
			return nil, fmt.Errorf("cobs: zero run length at offset %d", i)
		}
		i++
		end := i + code - 1
		if end > len(body) {
			return nil, fmt.Errorf("cobs: run length %d at offset %d overruns frame", code, i-1)
		}
		out = append(out, body[i:end]...)
		i = end
		if code != 0xFF && i < len(body) {
			out = append(out, delimiter)
		}
	}
	return out, nil
}

// EndpointFrame is the debug-transport wire unit spec.md §6 describes: an
// 8-bit endpoint id followed by a payload. Encode/Decode on this type
// handle the COBS framing around that layout; the payload's own encoding
// (postcard, in the real system) is the caller's concern.
type EndpointFrame struct {
	Endpoint uint8
	Payload  []byte
}

// Encode returns the COBS-framed bytes for f, ready to write to a stream.
func (f EndpointFrame) Encode() []byte {
	raw := make([]byte, 0, len(f.Payload)+1)
	raw = append(raw, f.Endpoint)
	raw = append(raw, f.Payload...)
	return Encode(raw)
}

// DecodeEndpointFrame decodes a single COBS frame into its endpoint id
// and payload.
func DecodeEndpointFrame(frame []byte) (EndpointFrame, error) {
	raw, err := Decode(frame)
	if err != nil {
		return EndpointFrame{}, err
	}
	if len(raw) < 1 {
		return EndpointFrame{}, fmt.Errorf("cobs: frame too short for an endpoint id")
	}
	return EndpointFrame{Endpoint: raw[0], Payload: raw[1:]}, nil
}
