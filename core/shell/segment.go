package shell

import "fmt"

// Command is a single stage of a pipeline.
type Command struct {
	// Args holds the program name followed by its arguments.
	Args []string
}

// Name gets the program name.
func (c Command) Name() string {
	return c.Args[0]
}

// Segment splits tokens on OpPipe. Every stage must have at least one token.
func Segment(tokens []string) ([]Command, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty pipeline", ErrMalformedCommand)
	}

	var (
		commands []Command
		current  []string
	)
	for _, tok := range tokens {
		if tok != OpPipe {
			current = append(current, tok)
			continue
		}

		if len(current) == 0 {
			return nil, fmt.Errorf("%w: empty command before %s", ErrMalformedCommand, OpPipe)
		}
		commands = append(commands, Command{Args: current})
		current = nil
	}

	if len(current) == 0 {
		return nil, fmt.Errorf("%w: empty command after %s", ErrMalformedCommand, OpPipe)
	}
	commands = append(commands, Command{Args: current})

	return commands, nil
}
