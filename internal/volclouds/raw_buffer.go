package volclouds

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveRawRGB64 dumps frames as: W, H, N as int32 little-endian, followed by
// N*H*W*3 float64 values (frame-major, then row-major RGB).
func SaveRawRGB64(frames []*Buffer, path string) error {
	if len(frames) == 0 {
		return fmt.Errorf("raw: no frames")
	}
	w, h := frames[0].W, frames[0].H
	for i, fr := range frames {
		if fr.W != w || fr.H != h || len(fr.Buf) != w*h*3 {
			return fmt.Errorf("raw: frame %d: %w", i, ErrSizeMismatch)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, v := range []int32{int32(w), int32(h), int32(len(frames))} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, fr := range frames {
		if err := binary.Write(bw, binary.LittleEndian, fr.Buf); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// ReadRawRGB64 is the inverse of SaveRawRGB64.
func ReadRawRGB64(r io.Reader) ([]*Buffer, error) {
	br := bufio.NewReader(r)
	var hdr [3]int32
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	w, h, n := int(hdr[0]), int(hdr[1]), int(hdr[2])
	if w <= 0 || h <= 0 || w > MaxFrameDim || h > MaxFrameDim {
		return nil, fmt.Errorf("raw: bad frame size %dx%d", w, h)
	}
	if n < 0 || n > MaxFrames {
		return nil, fmt.Errorf("raw: bad frame count %d", n)
	}
	// frames are allocated as they are read, a short file fails before n buffers exist
	frames := make([]*Buffer, 0, min(n, 16))
	for i := 0; i < n; i++ {
		fr, err := NewBuffer(w, h)
		if err != nil {
			return nil, err
		}
		if err := binary.Read(br, binary.LittleEndian, fr.Buf); err != nil {
			return nil, fmt.Errorf("raw: frame %d: %w", i, err)
		}
		frames = append(frames, fr)
	}
	return frames, nil
}
