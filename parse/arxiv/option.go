package arxiv

import (
	"fmt"

	"go.uber.org/zap"
)

// Mode 决定遇到格式错误的条目时是跳过还是中止
type Mode int

const (
	Lenient Mode = iota
	Strict
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	}

	return Lenient, fmt.Errorf("unknown extractor mode %q", s)
}

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}

	return "lenient"
}

// PairingPolicy 决定 header 与 body 数量不一致时的行为
type PairingPolicy int

const (
	PairTruncate PairingPolicy = iota
	PairStrict
)

func ParsePairingPolicy(s string) (PairingPolicy, error) {
	switch s {
	case "", "truncate":
		return PairTruncate, nil
	case "strict":
		return PairStrict, nil
	}

	return PairTruncate, fmt.Errorf("unknown pairing policy %q", s)
}

// DescriptionPolicy picks how paragraphs from several description blocks combine.
type DescriptionPolicy int

const (
	// DescriptionLast keeps the last paragraph seen.
	DescriptionLast DescriptionPolicy = iota
	// DescriptionJoin joins all paragraphs with a blank line.
	DescriptionJoin
)

func ParseDescriptionPolicy(s string) (DescriptionPolicy, error) {
	switch s {
	case "", "last":
		return DescriptionLast, nil
	case "join":
		return DescriptionJoin, nil
	}

	return DescriptionLast, fmt.Errorf("unknown description policy %q", s)
}

type options struct {
	logger      *zap.Logger
	mode        Mode
	pairing     PairingPolicy
	description DescriptionPolicy
}

var defaultOptions = options{
	logger:      zap.NewNop(),
	mode:        Lenient,
	pairing:     PairTruncate,
	description: DescriptionLast,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithMode(mode Mode) Option {
	return func(opts *options) {
		opts.mode = mode
	}
}

func WithPairing(p PairingPolicy) Option {
	return func(opts *options) {
		opts.pairing = p
	}
}

func WithDescription(d DescriptionPolicy) Option {
	return func(opts *options) {
		opts.description = d
	}
}
