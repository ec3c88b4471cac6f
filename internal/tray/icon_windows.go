package tray

import (
	"bytes"
	"encoding/binary"
)

// trayIcon wraps the PNG icon in an ICO container, which the Windows tray
// requires.
func trayIcon() ([]byte, error) {
	data, err := iconPNG(IconSize)
	if err != nil {
		return nil, err
	}
	return pngToICO(data, IconSize), nil
}

func pngToICO(data []byte, size int) []byte {
	var buf bytes.Buffer
	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	dim := uint8(size)
	if size >= 256 {
		dim = 0
	}
	// ICONDIRENTRY
	buf.Write([]byte{dim, dim, 0, 0})
	binary.Write(&buf, binary.LittleEndian, [2]uint16{1, 32})
	binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(data)), 22})
	buf.Write(data)
	return buf.Bytes()
}
