package ws2300

import "errors"

var (
	// ErrIO marks a failed or short read/write on the channel.
	ErrIO = errors.New("ws2300: link i/o error")

	// ErrEchoMismatch marks a command byte the station echoed incorrectly.
	ErrEchoMismatch = errors.New("ws2300: command echo mismatch")

	// ErrChecksum marks a payload whose trailer does not match its sum.
	ErrChecksum = errors.New("ws2300: payload checksum mismatch")

	// ErrResetFailed is returned by a strict Reset that never saw the
	// station go idle.
	ErrResetFailed = errors.New("ws2300: reset handshake failed")

	// ErrUnreadable is returned once every read attempt for a cell failed.
	ErrUnreadable = errors.New("ws2300: unable to read memory cell")

	// ErrDecode marks a payload that passed its checksum but cannot be
	// decoded.
	ErrDecode = errors.New("ws2300: decode fault")

	// ErrUnknownField is returned by ReadField for a name not in the snapshot.
	ErrUnknownField = errors.New("ws2300: unknown field")
)

// errNotIdle is an internal signal: the station answered a reset with
// something other than busy or idle.
var errNotIdle = errors.New("ws2300: station not idle")

// ErrInvalidCell is returned for a cell whose size is outside 1..MaxCellSize.
var ErrInvalidCell = errors.New("ws2300: invalid memory cell")
