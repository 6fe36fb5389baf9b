// Package capture turns image payloads sent by browser clients into frames.
package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// ErrInvalidDataURL is returned when an image payload cannot be decoded into a frame.
var ErrInvalidDataURL = errors.New("invalid image data url")

// Payload is a decoded client capture.
type Payload struct {
	// Frame is the decoded BGR image. The caller owns it and must Close it.
	Frame gocv.Mat

	// Base64 is the raw base64 body of the data URL, kept for echoing the
	// capture back to clients.
	Base64 string
}

// Close releases the frame.
func (p *Payload) Close() error {
	return p.Frame.Close()
}

// DecodeDataURL decodes "data:image/<type>;base64,<body>" into a frame.
// A bare base64 body without the data URL header is accepted too.
func DecodeDataURL(s string) (*Payload, error) {
	body := s
	if i := strings.IndexByte(s, ','); i >= 0 {
		header := s[:i]
		if !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: unsupported header %q", ErrInvalidDataURL, header)
		}
		body = s[i+1:]
	}
	if body == "" {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidDataURL)
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	frame, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if frame.Empty() {
		frame.Close()
		return nil, fmt.Errorf("%w: not an image", ErrInvalidDataURL)
	}

	return &Payload{Frame: frame, Base64: body}, nil
}

// EncodeDataURL encodes a frame as a JPEG data URL.
func EncodeDataURL(frame gocv.Mat) (string, error) {
	if frame.Empty() {
		return "", fmt.Errorf("encode frame: empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.GetBytes()), nil
}
