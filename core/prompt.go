package core

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/nsh/core/config"
)

var (
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

// ColorPrinter decides whether output gets terminal colors.
type ColorPrinter struct {
	// Mode is one of config.ColorAlways, config.ColorAuto or config.ColorNever.
	Mode string
	// IsTerminal is consulted in auto mode.
	IsTerminal bool
}

func (c ColorPrinter) ShouldColor() bool {
	switch c.Mode {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		return c.IsTerminal
	}
}

func (c ColorPrinter) Sprintf(clr *color.Color, format string, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprintf(format, a...)
	}

	// Copy so forcing colors on doesn't leak into the shared value.
	forced := *clr
	forced.EnableColor()
	return forced.Sprintf(format, a...)
}

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\a`, "\a", // alert
		`\e`, "\x1b", // escape
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// PromptInfo holds the values substituted into a prompt template.
type PromptInfo struct {
	User     string
	Hostname string
	Dir      string
	Home     string
	Root     bool
}

// RenderPrompt expands the template escapes:
//
//	\u  user name
//	\h  host name
//	\w  working directory, with the home directory shown as ~
//	\$  # for root, $ otherwise
//
// followed by backslash escapes such as \n and \033.
func RenderPrompt(template string, info PromptInfo, printer ColorPrinter) string {
	prompt := template
	prompt = strings.ReplaceAll(prompt, `\u`, printer.Sprintf(ColorBoldGreen, "%s", info.User))
	prompt = strings.ReplaceAll(prompt, `\h`, info.Hostname)

	dir := info.Dir
	if info.Home != "" && strings.HasPrefix(dir, info.Home) {
		dir = "~" + strings.TrimPrefix(dir, info.Home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, printer.Sprintf(ColorBoldBlue, "%s", dir))

	if info.Root {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return unescape(prompt)
}

func (s *Shell) prompt() string {
	info := PromptInfo{
		User:     s.User,
		Hostname: s.Hostname,
		Root:     os.Geteuid() == 0,
	}
	info.Dir, _ = os.Getwd()
	info.Home, _ = os.UserHomeDir()

	return RenderPrompt(s.Config.Prompt, info, s.color)
}
