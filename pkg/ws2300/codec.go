package ws2300

const (
	// ResetCommand returns the station to idle. It is also accepted by
	// EncodeAddress as a sentinel address.
	ResetCommand byte = 0x06

	// resetBusy and resetIdle are the station's answers to ResetCommand.
	resetBusy byte = 0x01
	resetIdle byte = 0x02

	addressBase byte = 0x82
	lengthBase  byte = 0xC2
	lengthMax        = 0xFE
	lengthEcho  byte = 0x30

	// commandLength is the number of bytes in an addressed read request.
	commandLength = 5
)

// EncodeAddress builds the read request for a memory cell: one byte per
// address nibble, most significant first, followed by the length byte.
func EncodeAddress(cell MemoryCell) []byte {
	if cell.Address == uint32(ResetCommand) {
		return []byte{ResetCommand}
	}

	command := make([]byte, 0, commandLength)
	for i := 0; i < 4; i++ {
		nibble := (cell.Address >> (4 * (3 - i))) & 0x0F
		command = append(command, addressBase+byte(nibble*4))
	}

	length := int(lengthBase) + cell.Size*4
	if length > lengthMax {
		length = lengthMax
	}
	command = append(command, byte(length))

	return command
}

// expectedEcho is the byte the station answers with after receiving command
// at the given position of a request.
func expectedEcho(command byte, position int) byte {
	if position < 4 {
		return byte(position)*16 + (command-addressBase)/4
	}
	return lengthEcho + (command-lengthBase)/4
}

// Check reports whether echo is the station's correct answer to command
// sent at position.
func Check(command byte, position int, echo byte) bool {
	return expectedEcho(command, position) == echo
}

// CheckData reports whether trailer is the 8-bit sum of payload.
func CheckData(trailer byte, payload []byte) bool {
	return checksum(payload) == trailer
}

func checksum(payload []byte) byte {
	var sum uint32
	for _, b := range payload {
		sum += uint32(b)
	}
	return byte(sum & 0xFF)
}
