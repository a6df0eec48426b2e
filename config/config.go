package config

import (
	"log"
)

// Logger is satisfied by *log.Logger, and by most of the structured loggers as well.
type Logger interface {
	Printf(fmt string, v ...any)
}

type (
	Decoding struct {
		// Strict makes keys and values containing a malformed escape sequence (a percent sign
		// not followed by two hex digits) an error. Otherwise, such sequences are kept as-is.
		Strict bool `test:"nullable"`
	}

	Brackets struct {
		// MaxDepth limits how deep nested nodes are descended into. Deeper nodes result in an
		// error instead. Zero or less falls back to DefaultMaxDepth.
		MaxDepth int
	}

	Fields struct {
		// FoldCase enables falling back to case-insensitive matching of struct field names, if
		// no field matches the key exactly.
		FoldCase bool
	}
)

const DefaultMaxDepth = 32

type Config struct {
	Decoding Decoding
	Brackets Brackets
	Fields   Fields
	// Logger reports malformed escape sequences, which were kept as-is due to non-strict
	// decoding. Nil disables the reporting.
	Logger Logger `test:"nullable"`
}

// Default returns default config. Those are initially well-balanced.
func Default() *Config {
	return &Config{
		Decoding: Decoding{
			Strict: false,
		},
		Brackets: Brackets{
			MaxDepth: DefaultMaxDepth,
		},
		Fields: Fields{
			FoldCase: true,
		},
	}
}

// Verbose returns the default config reporting malformed escapes into the standard logger.
func Verbose() *Config {
	cfg := Default()
	cfg.Logger = log.Default()
	return cfg
}

// Depth returns the effective depth limit.
func (b Brackets) Depth() int {
	if b.MaxDepth <= 0 {
		return DefaultMaxDepth
	}

	return b.MaxDepth
}
