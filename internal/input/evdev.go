package input

import (
	"encoding/binary"

	"github.com/rook-computer/framekit/internal/event"
)

const evKey = 0x01

// Linux input-event-codes.h
var evdevKeys = map[uint16]KeyEvent{
	1:   {Key: KeyEscape},
	14:  {Key: KeyBackspace},
	15:  {Key: KeyTab},
	28:  {Key: KeyEnter},
	57:  {Key: KeySpace},
	59:  {Key: KeyF1},
	60:  {Key: KeyF2},
	61:  {Key: KeyF3},
	62:  {Key: KeyF4},
	63:  {Key: KeyF5},
	103: {Key: KeyUp},
	105: {Key: KeyLeft},
	106: {Key: KeyRight},
	108: {Key: KeyDown},
}

// Letter rows of a US layout, keyed by their first scan code.
var evdevRows = []struct {
	first uint16
	runes string
}{
	{2, "1234567890"},
	{16, "qwertyuiop"},
	{30, "asdfghjkl"},
	{44, "zxcvbnm"},
}

func evdevKey(code uint16) (KeyEvent, bool) {
	if ke, ok := evdevKeys[code]; ok {
		return ke, true
	}
	for _, row := range evdevRows {
		if code >= row.first && int(code-row.first) < len(row.runes) {
			return KeyEvent{Key: KeyRune, Rune: rune(row.runes[code-row.first])}, true
		}
	}
	return KeyEvent{}, false
}

// parseEvdev decodes a buffer of input_event records (timeval, u16 type,
// u16 code, s32 value). Autorepeat (value 2) is reported as another press.
func parseEvdev(buf []byte, tvSize int) []event.Event {
	eventSize := tvSize + 2 + 2 + 4
	var out []event.Event
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey {
			continue
		}
		ke, ok := evdevKey(code)
		if !ok {
			continue
		}
		if value == 0 {
			out = append(out, Release(ke))
		} else {
			out = append(out, Press(ke))
		}
	}
	return out
}
