package supervisor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joeycumines/go-rtpendulum/rtshare"
)

type (
	// Command is an operator request, applied to the shared control state.
	Command interface {
		fmt.Stringer
		Apply(shared *rtshare.SharedContext)
	}

	// SetGains replaces the PID gains.
	SetGains struct {
		Gains rtshare.PIDGains
	}

	// SetDesiredPosition sets the pendulum setpoint, in radians.
	SetDesiredPosition struct {
		Position float64
	}

	// Reset requests the controller return the pendulum to its initial
	// state.
	Reset struct{}
)

var (
	_ Command = SetGains{}
	_ Command = SetDesiredPosition{}
	_ Command = Reset{}
)

func (x SetGains) Apply(shared *rtshare.SharedContext) { shared.Config().SetGains(x.Gains) }

func (x SetGains) String() string {
	return fmt.Sprintf("gains %g %g %g", x.Gains.Proportional, x.Gains.Integral, x.Gains.Derivative)
}

func (x SetDesiredPosition) Apply(shared *rtshare.SharedContext) {
	shared.Signals().SetDesiredPosition(x.Position)
}

func (x SetDesiredPosition) String() string { return fmt.Sprintf("setpoint %g", x.Position) }

func (Reset) Apply(shared *rtshare.SharedContext) { shared.Signals().SetReset(true) }

func (Reset) String() string { return "reset" }

// ParseCommand parses a single line of the operator protocol, one of:
//
//	gains <kp> <ki> <kd>
//	setpoint <radians>
//	reset
//
// Keywords are case-insensitive, and fields are separated by whitespace.
// Values must be finite.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidCommand)
	}

	args := fields[1:]
	switch keyword := strings.ToLower(fields[0]); keyword {
	case "gains":
		values, err := parseArgs(keyword, args, 3)
		if err != nil {
			return nil, err
		}
		return SetGains{Gains: rtshare.PIDGains{
			Proportional: values[0],
			Integral:     values[1],
			Derivative:   values[2],
		}}, nil

	case "setpoint":
		values, err := parseArgs(keyword, args, 1)
		if err != nil {
			return nil, err
		}
		return SetDesiredPosition{Position: values[0]}, nil

	case "reset":
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: reset takes no arguments", ErrInvalidCommand)
		}
		return Reset{}, nil

	default:
		return nil, fmt.Errorf("%w: unknown keyword %q", ErrInvalidCommand, fields[0])
	}
}

func parseArgs(keyword string, args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrInvalidCommand, keyword, n, len(args))
	}
	values := make([]float64, n)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCommand, keyword, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s: value %q is not finite", ErrInvalidCommand, keyword, arg)
		}
		values[i] = v
	}
	return values, nil
}
