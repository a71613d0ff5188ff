package emulator

import (
	"errors"
	"io"
)

// Serve runs one session over conn until the peer hangs up. Answers are
// written back as soon as the bytes that caused them have been handled.
func (s *Station) Serve(conn io.ReadWriter) error {
	session := s.NewSession()
	buf := make([]byte, 64)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			session.Write(buf[:n])
			if _, werr := session.WriteTo(conn); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
