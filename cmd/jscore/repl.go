package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"jscore/pkg/environment"
	"jscore/pkg/errors"
	"jscore/pkg/jsonbridge"
	"jscore/pkg/realm"
	"jscore/pkg/values"
)

const replHelp = `Commands:
  let NAME = VALUE        declare a block-scoped binding (also const, var)
  NAME = VALUE            assign to an existing or implicit global binding
  NAME                    print a binding; NAME.key.key reads properties
  NAME(VALUE, ...)        call a function binding
  delete NAME             delete a binding
  {  /  }                 enter or leave a block scope
  :with VALUE             enter an object scope, left with }
  :this                   print the this binding
  :stringify VALUE [gap]  JSON.stringify with optional indentation
  :help                   show this text
  exit                    leave the REPL
VALUE is JSON text, undefined, or a binding path.`

var (
	declRe   = regexp.MustCompile(`^(let|const|var)\s+([A-Za-z_$][\w$]*)\s*(?:=\s*(.+))?$`)
	assignRe = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*=\s*(.+)$`)
	callRe   = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\((.*)\)$`)
	pathRe   = regexp.MustCompile(`^[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*$`)
)

// session is one REPL conversation with a realm: a single top-level context
// whose scope chain grows and shrinks with { and }.
type session struct {
	realm *realm.Realm
	ctx   *realm.Context
}

func newSession(r *realm.Realm) *session {
	return &session{realm: r, ctx: r.NewContext()}
}

// eval runs one line and returns what the REPL should print.
func (s *session) eval(line string) (string, error) {
	line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
	switch {
	case line == "":
		return "", nil
	case line == ":help":
		return replHelp, nil
	case line == "{":
		s.ctx.EnterBlock()
		return "", nil
	case line == "}":
		if _, ok := s.ctx.Scope().(*environment.GlobalRecord); ok {
			return "", errors.Syntaxf("Unexpected token '}'")
		}
		s.ctx.ExitBlock()
		return "", nil
	case line == ":this":
		v, err := s.ctx.This()
		if err != nil {
			return "", err
		}
		return v.Inspect(), nil
	case strings.HasPrefix(line, ":with "):
		v, err := s.value(strings.TrimPrefix(line, ":with "))
		if err != nil {
			return "", err
		}
		return "", s.ctx.EnterWith(v)
	case strings.HasPrefix(line, ":stringify "):
		return s.stringify(strings.TrimSpace(strings.TrimPrefix(line, ":stringify ")))
	case strings.HasPrefix(line, "delete "):
		ok, err := s.ctx.Delete(strings.TrimSpace(strings.TrimPrefix(line, "delete ")))
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(ok), nil
	}

	if m := declRe.FindStringSubmatch(line); m != nil {
		return "", s.declare(m[1], m[2], m[3])
	}
	if m := assignRe.FindStringSubmatch(line); m != nil {
		v, err := s.value(m[2])
		if err != nil {
			return "", err
		}
		return "", s.ctx.Assign(m[1], v)
	}
	if m := callRe.FindStringSubmatch(line); m != nil {
		args, err := s.arguments(m[2])
		if err != nil {
			return "", err
		}
		v, err := s.ctx.CallName(m[1], args...)
		if err != nil {
			return "", err
		}
		return v.Inspect(), nil
	}
	v, err := s.value(line)
	if err != nil {
		return "", err
	}
	return v.Inspect(), nil
}

func (s *session) declare(kind, name, init string) error {
	v := values.Undefined
	if init != "" {
		var err error
		if v, err = s.value(init); err != nil {
			return err
		}
	}
	switch kind {
	case "let":
		return s.ctx.DeclareLet(name, v)
	case "const":
		if init == "" {
			return errors.Syntaxf("Missing initializer in const declaration")
		}
		return s.ctx.DeclareConst(name, v)
	default:
		if init == "" {
			return s.ctx.DeclareVar(name)
		}
		return s.ctx.DeclareVar(name, v)
	}
}

// value evaluates a REPL operand: undefined, a binding path, or JSON text.
func (s *session) value(text string) (values.Value, error) {
	text = strings.TrimSpace(text)
	switch text {
	case "undefined":
		return values.Undefined, nil
	case "true", "false", "null":
		return jsonbridge.Parse(text)
	}
	if pathRe.MatchString(text) {
		return s.path(text)
	}
	return jsonbridge.Parse(text)
}

func (s *session) path(text string) (values.Value, error) {
	parts := strings.Split(text, ".")
	v, err := s.ctx.Lookup(parts[0])
	if err != nil {
		return values.Undefined, err
	}
	for _, key := range parts[1:] {
		o, err := v.ToObject()
		if err != nil {
			return values.Undefined, err
		}
		if v, err = o.Get(key); err != nil {
			return values.Undefined, err
		}
	}
	return v, nil
}

// arguments parses a call's argument list as the elements of a JSON array.
// A lone binding path or undefined is accepted as a single argument.
func (s *session) arguments(text string) ([]values.Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if text == "undefined" || pathRe.MatchString(text) {
		v, err := s.value(text)
		if err != nil {
			return nil, err
		}
		return []values.Value{v}, nil
	}
	list, err := jsonbridge.Parse("[" + text + "]")
	if err != nil {
		return nil, err
	}
	arr := list.AsObject()
	n, err := arr.Get("length")
	if err != nil {
		return nil, err
	}
	args := make([]values.Value, int(n.AsNumber()))
	for i := range args {
		if args[i], err = arr.Get(strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (s *session) stringify(text string) (string, error) {
	operand, space := text, values.Undefined
	if i := strings.LastIndexByte(text, ' '); i > 0 {
		if gap, err := jsonbridge.Parse(text[i+1:]); err == nil {
			operand, space = strings.TrimSpace(text[:i]), gap
		}
	}
	v, err := s.value(operand)
	if err != nil {
		return "", err
	}
	out, err := jsonbridge.Stringify(v, values.Undefined, space)
	if err != nil {
		return "", err
	}
	if out.IsUndefined() {
		return "undefined", nil
	}
	return out.AsString(), nil
}

// report renders an error the way an uncaught exception is shown.
func (s *session) report(err error) string {
	return values.ErrorText(err)
}

// completions offers global names and REPL keywords that extend the last word
// of line.
func (s *session) completions(line string) []string {
	start := strings.LastIndexAny(line, " (=,") + 1
	prefix := line[start:]
	names := append(s.realm.GlobalObject().OwnKeys(), "let", "const", "var", "delete", "exit", ":with", ":this", ":stringify", ":help")
	sort.Strings(names)
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) && name != prefix {
			out = append(out, line[:start]+name)
		}
	}
	return out
}

// runRepl reads lines with editing and history until exit or end of input.
func runRepl(s *session) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(s.completions)

	historyFile := filepath.Join(os.TempDir(), ".jscore_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("jscore REPL (:help for commands, exit to quit)")
	for {
		input, err := line.Prompt("> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			break
		}
		if strings.TrimSpace(input) == "exit" {
			break
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		out, err := s.eval(input)
		if err != nil {
			fmt.Println(s.report(err))
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
	fmt.Println("Goodbye!")
}
