package supervisor

import (
	"testing"

	"github.com/joeycumines/go-rtpendulum/rtshare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	for _, tc := range [...]struct {
		line string
		want Command
	}{
		{`gains 1 2 3`, SetGains{Gains: rtshare.PIDGains{Proportional: 1, Integral: 2, Derivative: 3}}},
		{"  GAINS\t-0.5 0 1e2 ", SetGains{Gains: rtshare.PIDGains{Proportional: -0.5, Derivative: 100}}},
		{`setpoint 0.25`, SetDesiredPosition{Position: 0.25}},
		{`SetPoint -1`, SetDesiredPosition{Position: -1}},
		{`reset`, Reset{}},
	} {
		t.Run(tc.line, func(t *testing.T) {
			cmd, err := ParseCommand(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, cmd)
		})
	}
}

func TestParseCommand_invalid(t *testing.T) {
	for _, line := range [...]string{
		``,
		`   `,
		`gains 1 2`,
		`gains 1 2 3 4`,
		`gains 1 x 3`,
		`gains 1 NaN 3`,
		`setpoint`,
		`setpoint +Inf`,
		`setpoint 1 2`,
		`reset now`,
		`jump`,
	} {
		t.Run(line, func(t *testing.T) {
			cmd, err := ParseCommand(line)
			assert.ErrorIs(t, err, ErrInvalidCommand)
			assert.Nil(t, cmd)
		})
	}
}

func TestCommand_String_roundTrip(t *testing.T) {
	for _, cmd := range []Command{
		SetGains{Gains: rtshare.PIDGains{Proportional: 1.5, Integral: 0, Derivative: -2}},
		SetDesiredPosition{Position: 0.125},
		Reset{},
	} {
		parsed, err := ParseCommand(cmd.String())
		require.NoError(t, err)
		assert.Equal(t, cmd, parsed)
	}
}

func TestCommand_Apply(t *testing.T) {
	shared := newTestShared(t)

	SetGains{Gains: rtshare.PIDGains{Proportional: 4, Integral: 5, Derivative: 6}}.Apply(shared)
	assert.Equal(t, rtshare.PIDGains{Proportional: 4, Integral: 5, Derivative: 6}, shared.Config().Gains())

	SetDesiredPosition{Position: -0.3}.Apply(shared)
	assert.Equal(t, -0.3, shared.Signals().DesiredPosition())

	assert.False(t, shared.Signals().Reset())
	Reset{}.Apply(shared)
	assert.True(t, shared.Signals().Reset())
}
