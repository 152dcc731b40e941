package console

import (
	"bufio"
	"io"
)

// ReadLines feeds every line of r to the interpreter until r is exhausted or
// a command asks to stop. The caller decides what end of input means.
func ReadLines(r io.Reader, term *Terminal, interp *Interpreter) error {
	scanner := bufio.NewScanner(r)
	for {
		term.Prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		if interp.Handle(scanner.Text()) {
			return nil
		}
	}
}
