// Package execpipe runs external programs with their standard streams wired
// to Go readers and writers.
package execpipe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/goaux/iter/bufioscanner"
	"github.com/goaux/stacktrace/v2"
)

// CheckPath checks if the given executable exists in the system's PATH.
// It returns an error if the executable is not found, or nil if it is.
func CheckPath(executable string) error {
	_, err := stacktrace.Trace2(exec.LookPath(executable))
	return err
}

// Run executes name with args, reading stdin from r and writing stdout to w.
// The returned error carries the captured stderr.
func Run(w io.Writer, r io.Reader, name string, args ...string) error {
	cmd := &Command{Name: name, Args: args, Stdin: r, Stdout: w}
	return cmd.Run(context.Background())
}

// Command describes one invocation of an external program.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is appended to the environment of the current process.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer

	// OnStderr, when set, receives every line the program writes to stderr
	// as soon as it is written.
	OnStderr func(line string)
}

// String returns the command line, for logging.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Run starts the program and waits for it. Cancelling ctx kills it together
// with the processes it started.
//
// A non-zero exit is reported together with the last lines of stderr.
func (c *Command) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}
	cmd.Stdin = c.Stdin
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	} else {
		cmd.Stdout = io.Discard
	}
	cmd.WaitDelay = WaitDelay
	killGroup(cmd)

	pr, pw := io.Pipe()
	cmd.Stderr = pw

	tail := new(bytes.Buffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.scanStderr(pr, tail)
	}()

	err := cmd.Start()
	if err == nil {
		err = cmd.Wait()
	}
	pw.Close()
	<-done

	if err != nil {
		return fmt.Errorf("error: %s, cause=%w, stderr=%q", c.Name, stacktrace.Trace(err), tail.String())
	}
	return nil
}

// WaitDelay bounds how long Run waits for the output of a killed program.
var WaitDelay = 500 * time.Millisecond

const (
	// maxTail bounds the stderr kept for error messages.
	maxTail = 4096

	// maxLine is the longest stderr line passed to OnStderr.
	maxLine = 1 << 20
)

func (c *Command) scanStderr(r io.Reader, tail *bytes.Buffer) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for _, line := range bufioscanner.New(sc).Text() {
		if c.OnStderr != nil {
			c.OnStderr(line)
		}
		appendTail(tail, line)
	}
	if err := sc.Err(); err != nil {
		appendTail(tail, fmt.Sprintf("(stderr truncated: %v)", err))
	}
	// drain whatever the scanner gave up on so the program never blocks
	io.Copy(io.Discard, r)
}

func appendTail(tail *bytes.Buffer, line string) {
	tail.WriteString(line)
	tail.WriteByte('\n')
	if over := tail.Len() - maxTail; over > 0 {
		tail.Next(over)
	}
}
