package reset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// console prints instructions and waits for the operator to press Enter.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: bufio.NewReader(in), out: out}
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) println(lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
}

// wait prints prompt and blocks until a line is read.
// Input that ends without a line yields ErrInputClosed.
func (c *console) wait(prompt string) error {
	fmt.Fprint(c.out, "\n"+prompt)
	line, err := c.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out)
		if line == "" {
			return ErrInputClosed
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
