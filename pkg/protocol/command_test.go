package protocol

import (
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{"step into", "STEP_INTO", Command{Keyword: CmdStepInto}},
		{"step over", "STEP_OVER\r", Command{Keyword: CmdStepOver}},
		{"step return", "  STEP_RETURN  ", Command{Keyword: CmdStepReturn}},
		{"resume", "RESUME", Command{Keyword: CmdResume}},
		{"add breakpoint", "ADD_BREAKPOINT|build.xml|10", Command{
			Keyword:    CmdAddBreakpoint,
			Breakpoint: domain.Breakpoint{File: "build.xml", Line: 10},
		}},
		{"remove breakpoint with pipe in path", "REMOVE_BREAKPOINT|odd|name.yaml|7", Command{
			Keyword:    CmdRemoveBreakpoint,
			Breakpoint: domain.Breakpoint{File: "odd|name.yaml", Line: 7},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Malformed(t *testing.T) {
	lines := []string{
		"",
		"JUMP",
		"step_into",
		"RESUME|now",
		"ADD_BREAKPOINT",
		"ADD_BREAKPOINT|build.xml",
		"ADD_BREAKPOINT|build.xml|ten",
		"ADD_BREAKPOINT||10",
		"REMOVE_BREAKPOINT|build.xml|0",
	}
	for _, line := range lines {
		_, err := ParseCommand(line)
		assert.ErrorIs(t, err, domain.ErrMalformedCommand, "line %q", line)
	}
}

func TestCommand_StringRoundTrip(t *testing.T) {
	for _, kw := range Keywords {
		cmd := Command{Keyword: kw}
		if kw == CmdAddBreakpoint || kw == CmdRemoveBreakpoint {
			cmd.Breakpoint = domain.Breakpoint{File: "plan.yaml", Line: 3}
		}
		parsed, err := ParseCommand(cmd.String())
		require.NoError(t, err)
		assert.Equal(t, cmd, parsed)
	}
}
