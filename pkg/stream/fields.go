package stream

import (
	"encoding"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/pfostream/pkg/codec"
)

// ErrUnsupportedType is returned for a destination the decoder cannot fill
var ErrUnsupportedType = errors.New("unsupported destination type")

// ReadVariable decodes the named field of the current record into dst. A
// field missing from the record fails with ErrFieldAbsent and one that cannot
// be parsed with ErrMalformedField, both wrapped in a *FieldError.
func (r *Reader) ReadVariable(name string, dst any) error {
	if r.record == nil {
		return &FieldError{Name: name, Err: ErrNoRecord}
	}

	text, ok := r.record.Field(name)
	if !ok {
		return &FieldError{Name: name, Err: ErrFieldAbsent}
	}

	if err := decodeValue(text, dst); err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			return &FieldError{Name: name, Err: err}
		}
		return &FieldError{Name: name, Err: fmt.Errorf("%w: %w", ErrMalformedField, err)}
	}
	return nil
}

func decodeValue(text string, dst any) error {
	var err error
	switch d := dst.(type) {
	case encoding.TextUnmarshaler:
		return d.UnmarshalText([]byte(text))
	case *string:
		*d = text
	case *bool:
		*d, err = codec.ParseBool(text)
	case *float32:
		*d, err = codec.ParseFloat(text)
	case *float64:
		*d, err = strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			err = fmt.Errorf("%w: float %q", codec.ErrInvalidValue, text)
		}
	case *int32:
		*d, err = codec.ParseInt(text)
	case *int:
		*d, err = strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			err = fmt.Errorf("%w: int %q", codec.ErrInvalidValue, text)
		}
	case *uint32:
		*d, err = codec.ParseUint(text)
	case *codec.Vector3:
		*d, err = codec.ParseVector3(text)
	case *codec.TrackState:
		*d, err = codec.ParseTrackState(text)
	case *[]float32:
		*d, err = codec.ParseFloats(text)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, dst)
	}
	return err
}

type field struct {
	name string
	dst  any
}

// readFields decodes fields in order and stops at the first failure
func (r *Reader) readFields(record string, fields []field) error {
	for _, f := range fields {
		if err := r.ReadVariable(f.name, f.dst); err != nil {
			return &RecordError{Record: record, Err: err}
		}
	}
	return nil
}
