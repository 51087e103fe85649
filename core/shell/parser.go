// Package shell turns a raw input line into a Pipeline that can be executed.
package shell

// The steps below are the subset of
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
// that nsh implements.

/**
1. The shell reads a single line of input from the terminal or from the -c
option. There are no scripts, continuation lines or here documents.

2. The shell breaks the input into tokens on the space character. Quoting and
escaping are not recognized, so a token can never contain a space.

3. The shell performs redirection and removes redirection operators and their
operands from the parameter list. At most one "<" and one ">" are allowed.

4. The shell splits what remains into simple commands on the "|" operator.

5. The shell executes each simple command as an external program found in
PATH, giving the tokens as its arguments, and waits for the last command of
the pipeline to complete. No expansions of any kind are performed.
**/

// Pipeline is a parsed command line ready to be resolved and executed.
type Pipeline struct {
	// Line holds the literal input the pipeline was parsed from.
	Line string
	// Commands holds the pipeline stages in order, each with at least one
	// argument.
	Commands []Command
	// Redirects holds the pipeline-wide redirection targets.
	Redirects Redirects
}

// Argv returns the argument list of every stage.
func (p *Pipeline) Argv() [][]string {
	out := make([][]string, 0, len(p.Commands))
	for _, cmd := range p.Commands {
		out = append(out, cmd.Args)
	}
	return out
}

// Parse tokenizes line, strips its redirections and splits it into stages.
//
// A line containing no tokens parses to a nil Pipeline and a nil error. No
// files are opened; call Redirects.Open once the Pipeline is known to be
// well formed.
func Parse(line string, limits Limits) (*Pipeline, error) {
	tokens, err := Tokenize(line, limits)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	redirects, tokens, err := StripRedirects(tokens)
	if err != nil {
		return nil, err
	}

	commands, err := Segment(tokens)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Line:      line,
		Commands:  commands,
		Redirects: redirects,
	}, nil
}
