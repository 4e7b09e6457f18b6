package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidValue is wrapped by every parse failure in this package
var ErrInvalidValue = errors.New("invalid value")

// Address is an opaque identifier minted by the producer of a stream.
// It is only ever compared for equality.
type Address uint64

// NullAddress is the zero address
const NullAddress Address = 0

// ParseAddress parses a 0x-prefixed hexadecimal or a decimal address
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: address %q", ErrInvalidValue, s)
	}
	return Address(v), nil
}

// String formats the address as hexadecimal
func (a Address) String() string {
	return "0x" + strconv.FormatUint(uint64(a), 16)
}

// MarshalText implements encoding.TextMarshaler
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Address) UnmarshalText(text []byte) error {
	v, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Vector3 is a cartesian 3-vector
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Magnitude returns the euclidean length of the vector
func (v Vector3) Magnitude() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// String formats the vector the way it is written in a stream
func (v Vector3) String() string {
	return FormatFloats([]float32{v.X, v.Y, v.Z})
}

// ParseVector3 parses three whitespace separated components
func ParseVector3(s string) (Vector3, error) {
	c, err := parseFixed(s, 3)
	if err != nil {
		return Vector3{}, fmt.Errorf("vector: %w", err)
	}
	return Vector3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// TrackState is a track position and momentum at a reference point
type TrackState struct {
	Position Vector3 `json:"position"`
	Momentum Vector3 `json:"momentum"`
}

// ParseTrackState parses six whitespace separated components: x y z px py pz
func ParseTrackState(s string) (TrackState, error) {
	c, err := parseFixed(s, 6)
	if err != nil {
		return TrackState{}, fmt.Errorf("track state: %w", err)
	}
	return TrackState{
		Position: Vector3{X: c[0], Y: c[1], Z: c[2]},
		Momentum: Vector3{X: c[3], Y: c[4], Z: c[5]},
	}, nil
}

// ParseFloat parses a single-precision float
func ParseFloat(s string) (float32, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: float %q", ErrInvalidValue, s)
	}
	return float32(v), nil
}

// ParseFloats parses a whitespace separated float sequence. An empty string
// yields an empty sequence.
func ParseFloats(s string) ([]float32, error) {
	fields := strings.Fields(s)
	out := make([]float32, 0, len(fields))
	for _, f := range fields {
		v, err := ParseFloat(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatFloats is the inverse of ParseFloats
func FormatFloats(values []float32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}

// ParseInt parses a signed 32-bit integer
func ParseInt(s string) (int32, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: int %q", ErrInvalidValue, s)
	}
	return int32(v), nil
}

// ParseUint parses an unsigned 32-bit integer
func ParseUint(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: uint %q", ErrInvalidValue, s)
	}
	return uint32(v), nil
}

// ParseBool accepts 1, 0, true and false (case insensitive)
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: bool %q", ErrInvalidValue, s)
}

func parseFixed(s string, n int) ([]float32, error) {
	values, err := ParseFloats(s)
	if err != nil {
		return nil, err
	}
	if len(values) != n {
		return nil, fmt.Errorf("%w: expected %d components, got %d", ErrInvalidValue, n, len(values))
	}
	return values, nil
}
