package hex

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for malformed directions, radii and
// coordinates. It marks a caller bug, not a runtime condition.
var ErrInvalidArgument = errors.New("invalid argument")

// Axis names one of the three cube axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// Sign is +1 or -1.
type Sign int8

const (
	Positive Sign = 1
	Negative Sign = -1
)

// Direction is a signed axis, e.g. "-z".
type Direction struct {
	Axis Axis
	Sign Sign
}

// Valid reports whether d names one of the six signed axes.
func (d Direction) Valid() bool {
	return d.Axis <= AxisZ && (d.Sign == Positive || d.Sign == Negative)
}

func (d Direction) String() string {
	if d.Sign == Negative {
		return "-" + d.Axis.String()
	}
	return "+" + d.Axis.String()
}

// DirectionError reports a direction token that could not be parsed.
type DirectionError struct {
	Token string
}

func (e *DirectionError) Error() string {
	return fmt.Sprintf("invalid direction %q: must be one of x, y, z, +x, +y, +z, -x, -y, -z", e.Token)
}

// Unwrap lets errors.Is match ErrInvalidArgument.
func (e *DirectionError) Unwrap() error { return ErrInvalidArgument }

// ParseDirection parses a signed axis token. A bare axis means positive.
func ParseDirection(token string) (Direction, error) {
	s := token
	sign := Positive
	if len(s) == 2 {
		switch s[0] {
		case '+':
		case '-':
			sign = Negative
		default:
			return Direction{}, &DirectionError{Token: token}
		}
		s = s[1:]
	}
	if len(s) != 1 {
		return Direction{}, &DirectionError{Token: token}
	}
	switch s[0] {
	case 'x':
		return Direction{AxisX, sign}, nil
	case 'y':
		return Direction{AxisY, sign}, nil
	case 'z':
		return Direction{AxisZ, sign}, nil
	}
	return Direction{}, &DirectionError{Token: token}
}

// MustDirection is ParseDirection for tokens known at compile time.
func MustDirection(token string) Direction {
	d, err := ParseDirection(token)
	if err != nil {
		panic(err)
	}
	return d
}
