package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Console writes "Sending <Label>: <message>" to Out (stdout when nil).
type Console struct {
	Label string
	Out   io.Writer
}

func (c *Console) Name() string { return "Console:" + c.Label }

func (c *Console) Send(ctx context.Context, message string) error {
	_, err := fmt.Fprintf(writerOr(c.Out), "Sending %s: %s\n", c.Label, message)
	return err
}

// ConsoleSubscriber writes "<Name> received notification: <message>" to Out.
type ConsoleSubscriber struct {
	Name string
	Out  io.Writer
}

func (s *ConsoleSubscriber) Receive(message string) {
	fmt.Fprintf(writerOr(s.Out), "%s received notification: %s\n", s.Name, message)
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
