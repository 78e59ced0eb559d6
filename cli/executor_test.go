package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-keystore/cli/app"
	"github.com/nspcc-dev/neo-keystore/cli/input"
	"github.com/nspcc-dev/neo-keystore/internal/keytestcases"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

const (
	// unitTestConfig has cheap scrypt parameters and UnitTestNet magic.
	unitTestConfig = "../config/keystore.unit_testnet.yml"

	// testWallet is a wallet with the first two key test cases encrypted
	// with testWalletPass under cheap scrypt parameters.
	testWallet       = "testdata/wallet.json"
	testWalletConfig = "testdata/wallet-config.yml"
	testWalletPass   = "one"
)

var (
	defaultAcc = keytestcases.Arr[0]
	secondAcc  = keytestcases.Arr[1]
)

// executor represents context for a test instance.
// It can be safely used in multiple tests, but not in parallel.
type executor struct {
	// CLI is a cli application to test.
	CLI *cli.App
	// Out contains command output.
	Out *bytes.Buffer
	// Err contains command errors.
	Err *bytes.Buffer
	// In contains command input.
	In *bytes.Buffer
}

func newExecutor(t *testing.T) *executor {
	e := &executor{
		CLI: app.New(),
		Out: bytes.NewBuffer(nil),
		Err: bytes.NewBuffer(nil),
		In:  bytes.NewBuffer(nil),
	}
	e.CLI.Writer = e.Out
	e.CLI.ErrWriter = e.Err
	t.Cleanup(func() {
		e.Close(t)
	})
	return e
}

func (e *executor) Close(t *testing.T) {
	input.Terminal = nil
}

func (e *executor) getNextLine(t *testing.T) string {
	line, err := e.Out.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

func (e *executor) checkNextLine(t *testing.T, expected string) {
	line := e.getNextLine(t)
	e.checkLine(t, line, expected)
}

func (e *executor) checkLine(t *testing.T, line, expected string) {
	require.Regexp(t, expected, line)
}

func (e *executor) checkEOF(t *testing.T) {
	_, err := e.Out.ReadString('\n')
	require.True(t, errors.Is(err, io.EOF))
}

func setExitFunc() <-chan int {
	ch := make(chan int, 1)
	cli.OsExiter = func(code int) {
		ch <- code
	}
	return ch
}

func checkExit(t *testing.T, ch <-chan int, code int) {
	select {
	case c := <-ch:
		require.Equal(t, code, c)
	default:
		if code != 0 {
			require.Fail(t, "no exit was called")
		}
	}
}

// RunWithError runs command and checks that is exits with error.
func (e *executor) RunWithError(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.Error(t, e.run(args...))
	checkExit(t, ch, 1)
}

// RunWithErrorCheck runs command and checks that it exits with an error
// containing msg.
func (e *executor) RunWithErrorCheck(t *testing.T, msg string, args ...string) {
	ch := setExitFunc()
	require.ErrorContains(t, e.run(args...), msg)
	checkExit(t, ch, 1)
}

// Run runs command and checks that there were no errors.
func (e *executor) Run(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.NoError(t, e.run(args...))
	checkExit(t, ch, 0)
}

func (e *executor) run(args ...string) error {
	e.Out.Reset()
	e.Err.Reset()
	input.Terminal = term.NewTerminal(input.ReadWriter{
		Reader: e.In,
		Writer: io.Discard,
	}, "")
	err := e.CLI.Run(args)
	input.Terminal = nil
	e.In.Reset()
	return err
}
