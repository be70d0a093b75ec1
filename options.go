package sneak

import (
	"fmt"
	"log"
)

// Option configures a Sneak.
type Option func(*Sneak) error

// WithLogger reports candidate sizes, the chosen method and row counts
// to l. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(s *Sneak) error {
		s.logger = l
		return nil
	}
}

// WithStrictSentinels makes Extract reject images where a payload row
// follows a row with filter type 4. By default such rows are skipped
// wherever they appear.
func WithStrictSentinels() Option {
	return func(s *Sneak) error {
		s.strict = true
		return nil
	}
}

// WithMethod forces the payload representation instead of choosing the
// smallest. SevenBit fails at Embed time for payloads with bytes >= 0x80.
func WithMethod(m Method) Option {
	return func(s *Sneak) error {
		if !m.Valid() {
			return fmt.Errorf("%w: %d", ErrUnsupportedMethod, uint8(m))
		}
		s.method = m
		s.forced = true
		return nil
	}
}
