package pack

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
)

const (
	// FormatVersion is the only package version this runtime reads.
	FormatVersion uint16 = 1

	headerSize     = 12
	maxPayloadSize = 256 << 20
)

var magic = []byte("EUPK")

// Decode parses a package buffer. It returns the decoded data and the number
// of bytes consumed; bytes after the payload are left unread.
//
// Layout: "EUPK", uint16 version, uint16 flags, uint32 payload length, then a
// zstd frame holding the gob-encoded RuntimeData. Integers are little endian.
func Decode(b []byte) (*RuntimeData, int, error) {
	if len(b) < headerSize {
		return nil, 0, corrupt("short header: %d bytes", len(b))
	}
	if !bytes.Equal(b[:4], magic) {
		return nil, 0, corrupt("bad magic %q", b[:4])
	}

	version := binary.LittleEndian.Uint16(b[4:6])
	if version != FormatVersion {
		return nil, 0, versionMismatch("package version %d, runtime reads version %d", version, FormatVersion)
	}
	if flags := binary.LittleEndian.Uint16(b[6:8]); flags != 0 {
		return nil, 0, versionMismatch("unsupported package flags %#04x", flags)
	}

	length := int(binary.LittleEndian.Uint32(b[8:12]))
	if length > maxPayloadSize || length > len(b)-headerSize {
		return nil, 0, corrupt("truncated payload: want %d bytes, have %d", length, len(b)-headerSize)
	}
	end := headerSize + length

	data, err := decodePayload(b[headerSize:end])
	if err != nil {
		return nil, 0, err
	}
	if field, ok := invalidText(data); ok {
		return nil, 0, versionMismatch("%s is not valid UTF-8", field)
	}

	return data, end, nil
}

func decodePayload(payload []byte) (data *RuntimeData, err error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, corrupt("zstd: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = corrupt("gob decode panicked: %v", r)
		}
	}()

	data = &RuntimeData{}
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(data); err != nil {
		return nil, corrupt("gob decode: %v", err)
	}
	return data, nil
}

// Encode writes data in the package layout read by Decode.
func Encode(data *RuntimeData) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(data); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	payload := enc.EncodeAll(raw.Bytes(), nil)
	if err := enc.Close(); err != nil {
		return nil, err
	}
	if len(payload) > maxPayloadSize {
		return nil, fmt.Errorf("payload of %d bytes exceeds %d", len(payload), maxPayloadSize)
	}

	out := make([]byte, headerSize, headerSize+len(payload))
	copy(out, magic)
	binary.LittleEndian.PutUint16(out[4:6], FormatVersion)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(payload)))
	return append(out, payload...), nil
}

// invalidText reports the first string field that is not valid UTF-8.
func invalidText(data *RuntimeData) (string, bool) {
	for name, source := range data.Scripts {
		if !utf8.ValidString(name) {
			return "script name", true
		}
		if !utf8.ValidString(source) {
			return fmt.Sprintf("script %q", name), true
		}
	}

	for _, scene := range data.Scenes {
		if !utf8.ValidString(scene.Name) {
			return "scene name", true
		}
		for _, entity := range scene.Entities {
			if !utf8.ValidString(entity.Label) || !utf8.ValidString(entity.ModelPath) {
				return fmt.Sprintf("entity in scene %q", scene.Name), true
			}
			if entity.Script != nil && (!utf8.ValidString(entity.Script.Name) || !utf8.ValidString(entity.Script.Path)) {
				return fmt.Sprintf("script reference of %q", entity.Label), true
			}
			for key, value := range entity.Properties {
				s, isString := value.(string)
				if !utf8.ValidString(key) || (isString && !utf8.ValidString(s)) {
					return fmt.Sprintf("property of %q", entity.Label), true
				}
			}
		}
		for _, cam := range scene.Cameras {
			if !utf8.ValidString(cam.Label) || (cam.Follow != nil && !utf8.ValidString(cam.Follow.Label)) {
				return fmt.Sprintf("camera in scene %q", scene.Name), true
			}
		}
		for _, light := range scene.Lights {
			if !utf8.ValidString(light.Label) {
				return fmt.Sprintf("light in scene %q", scene.Name), true
			}
		}
	}

	return "", false
}
