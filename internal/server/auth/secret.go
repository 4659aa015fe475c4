package auth

import "log/slog"

const secretRedacted = "[REDACTED]"

// Secret holds signing material. It never prints or serializes its value.
type Secret string

func (s Secret) String() string { return secretRedacted }

func (s Secret) GoString() string { return secretRedacted }

// MarshalText keeps the value out of JSON, YAML and other text encodings.
func (s Secret) MarshalText() ([]byte, error) { return []byte(secretRedacted), nil }

// Value returns the raw secret.
func (s Secret) Value() string { return string(s) }

// LogValue keeps the value out of structured log attributes.
func (s Secret) LogValue() slog.Value { return slog.StringValue(secretRedacted) }
