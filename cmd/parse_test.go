package cmd

import (
	"strings"
	"testing"

	"github.com/huangsam/slipstat/core/moves"
	"github.com/stretchr/testify/assert"
)

func TestParseHelpListsTechniques(t *testing.T) {
	for _, rule := range moves.Techniques() {
		assert.Contains(t, parseCmd.Long, rule.Name)
	}
	for _, name := range []string{"waveshine", "multishine"} {
		assert.False(t, strings.Contains(parseCmd.Long, name), "unknown technique %s in help", name)
	}
}

func TestParseExtractMovesDefault(t *testing.T) {
	flag := parseCmd.Flags().Lookup("extract-moves")
	if assert.NotNil(t, flag) {
		assert.Equal(t, "true", flag.DefValue)
	}
}
