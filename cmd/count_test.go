package cmd

import (
	"bytes"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountCmd(t *testing.T) {
	cmd := &Count{}
	buf := &bytes.Buffer{}
	cmd.out = buf

	_, err := flags.ParseArgs(cmd, []string{"-l", "-w", "mon", "-x", "15", "2", "2021"})
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(nil))

	exp := "3\n" +
		"1\t2021-02-01\tmon\n" +
		"2\t2021-02-08\tmon\n" +
		"3\t2021-02-22\tmon\n"
	assert.Equal(t, exp, buf.String())

	cmd = &Count{}
	buf = &bytes.Buffer{}
	cmd.out = buf
	_, err = flags.ParseArgs(cmd, []string{"--holidays=testdata/override.yml", "1", "2021"})
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(nil))
	assert.Equal(t, "15\n", buf.String())

	cmd = &Count{}
	_, err = flags.ParseArgs(cmd, []string{"0", "2021"})
	require.NoError(t, err)
	assert.ErrorContains(t, cmd.Execute(nil), "month out of range")
}
