// Command otctl runs the text OT algebra over sequences given as JSON.
//
// Sequences are JSON arrays where a positive number n retains n chars, a
// negative number -n deletes n chars, and a string inserts it:
//
//	otctl apply '["Hello ",5,-2]' 'World!!'
//	otctl compose '["Hello ",5,-2]' '["!!!",11]'
//	otctl -priority=right transform '[1,"a",1]' '[1,"b",1]'
//	otctl invert '["Hello ",5,-2]' 'World!!'
//	otctl diff 'World!!' 'Hello World'
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"
	"unicode/utf8"

	"github.com/brunokim/textop/ot"
	"github.com/fatih/color"
	"github.com/sanity-io/litter"
)

var (
	priority      = flag.String("priority", "left", "which sequence wins insertion ties in transform: left or right")
	dump          = flag.Bool("dump", false, "whether to print results as Go values")
	useColor      = flag.Bool("color", true, "whether to color the output")
	debug         = flag.Bool("debug", false, "whether to dump debug information. Default debug file is log_{{datetime}}.jsonl")
	maxDiffLen    = flag.Int("max_diff_len", 10000, "maximum number of chars in each input to diff")
	debugFilename = flag.String("debug_file", "", "file to dump debug information in JSONL format. Implies --debug")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [flags] <command> <args>

Commands:
  apply <seq> <doc>      apply sequence to document
  compose <a> <b>        compose a and b into a single sequence
  transform <a> <b>      transform concurrent sequences a and b
  invert <seq> <doc>     sequence that undoes seq applied on doc
  diff <from> <to>       sequence that transforms 'from' into 'to'

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	color.NoColor = color.NoColor || !*useColor

	side, err := parseSide(*priority)
	if err != nil {
		log.Fatal(err)
	}
	debugMsgs, debugDone := runDebug()
	s := &state{
		priority:   side,
		dump:       *dump,
		maxDiffLen: *maxDiffLen,
		out:        color.Output,
		debugMsgs:  debugMsgs,
	}
	err = s.run(flag.Args())
	if debugMsgs != nil {
		close(debugMsgs)
		<-debugDone
	}
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func parseSide(s string) (ot.Side, error) {
	switch s {
	case "left":
		return ot.Left, nil
	case "right":
		return ot.Right, nil
	}
	return ot.Left, fmt.Errorf("invalid priority %q, want 'left' or 'right'", s)
}

// -----

type state struct {
	priority ot.Side
	dump     bool
	out      io.Writer
	// maxDiffLen bounds the inputs to diff, whose memory is quadratic on their lengths.
	// Zero means no bound.
	maxDiffLen int

	debugMsgs chan<- debugMessage
}

// result is a named output of a command.
type result struct {
	Name  string
	Value interface{}
}

type command struct {
	numArgs int
	run     func(s *state, args []string) ([]result, error)
}

var commands = map[string]command{
	"apply":     {2, (*state).apply},
	"compose":   {2, (*state).compose},
	"transform": {2, (*state).transform},
	"invert":    {2, (*state).invert},
	"diff":      {2, (*state).diff},
}

func (s *state) run(args []string) error {
	name, args := args[0], args[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if len(args) != cmd.numArgs {
		return fmt.Errorf("want %d arguments, got %d", cmd.numArgs, len(args))
	}
	s.writeDebug(map[string]interface{}{
		"Type": "request",
		"Cmd":  name,
		"Args": args,
	})
	results, err := cmd.run(s, args)
	if err != nil {
		s.writeDebug(map[string]interface{}{
			"Type":  "error",
			"Cmd":   name,
			"Error": err.Error(),
		})
		return err
	}
	s.writeDebug(map[string]interface{}{
		"Type":    "response",
		"Cmd":     name,
		"Results": results,
	})
	return s.print(results)
}

func parseSequence(name, data string) (*ot.Sequence, error) {
	seq := ot.NewSequence()
	if err := json.Unmarshal([]byte(data), seq); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return seq, nil
}

func (s *state) apply(args []string) ([]result, error) {
	seq, err := parseSequence("seq", args[0])
	if err != nil {
		return nil, err
	}
	doc, err := seq.Apply(args[1])
	if err != nil {
		return nil, err
	}
	log.Printf("apply: %v (%d -> %d)", seq, seq.BaseLen(), seq.TargetLen())
	return []result{{"doc", doc}}, nil
}

func (s *state) compose(args []string) ([]result, error) {
	a, err := parseSequence("a", args[0])
	if err != nil {
		return nil, err
	}
	b, err := parseSequence("b", args[1])
	if err != nil {
		return nil, err
	}
	ab, err := ot.Compose(a, b)
	if err != nil {
		return nil, err
	}
	log.Printf("compose: %v . %v = %v", a, b, ab)
	return []result{{"seq", ab}}, nil
}

func (s *state) transform(args []string) ([]result, error) {
	a, err := parseSequence("a", args[0])
	if err != nil {
		return nil, err
	}
	b, err := parseSequence("b", args[1])
	if err != nil {
		return nil, err
	}
	aPrime, bPrime, err := ot.TransformPriority(a, b, s.priority)
	if err != nil {
		return nil, err
	}
	log.Printf("transform (%v wins): a' = %v, b' = %v", s.priority, aPrime, bPrime)
	return []result{{"a'", aPrime}, {"b'", bPrime}}, nil
}

func (s *state) invert(args []string) ([]result, error) {
	seq, err := parseSequence("seq", args[0])
	if err != nil {
		return nil, err
	}
	inverse, err := ot.Invert(seq, args[1])
	if err != nil {
		return nil, err
	}
	log.Printf("invert: %v", inverse)
	return []result{{"seq", inverse}}, nil
}

func (s *state) diff(args []string) ([]result, error) {
	if s.maxDiffLen > 0 {
		for _, arg := range args {
			if n := utf8.RuneCountInString(arg); n > s.maxDiffLen {
				return nil, fmt.Errorf("input has %d chars, more than -max_diff_len=%d", n, s.maxDiffLen)
			}
		}
	}
	seq, err := ot.Diff(args[0], args[1])
	if err != nil {
		return nil, err
	}
	log.Printf("diff: %v", seq)
	return []result{{"seq", seq}}, nil
}

// -----

var (
	nameColor = color.New(color.FgCyan, color.Bold)
	seqColor  = color.New(color.FgGreen)
	docColor  = color.New(color.FgYellow)
)

func (s *state) print(results []result) error {
	if s.dump {
		dumper := litter.Options{HidePrivateFields: false}
		for _, r := range results {
			fmt.Fprintf(s.out, "%s = %s\n", nameColor.Sprint(r.Name), dumper.Sdump(r.Value))
		}
		return nil
	}
	for _, r := range results {
		var value string
		switch v := r.Value.(type) {
		case *ot.Sequence:
			bs, err := json.Marshal(v)
			if err != nil {
				return err
			}
			value = seqColor.Sprint(string(bs))
		case string:
			value = docColor.Sprint(v)
		default:
			value = fmt.Sprint(v)
		}
		fmt.Fprintf(s.out, "%s: %s\n", nameColor.Sprint(r.Name), value)
	}
	return nil
}

// -----

type debugMsgType int

const (
	writeDebug debugMsgType = iota
	syncDebug
)

type debugMessage struct {
	msgType debugMsgType
	payload interface{}
}

func (s *state) isDebug() bool {
	return s.debugMsgs != nil
}

func (s *state) writeDebug(x interface{}) {
	if s.isDebug() {
		s.debugMsgs <- debugMessage{
			msgType: writeDebug,
			payload: x,
		}
		s.debugMsgs <- debugMessage{msgType: syncDebug}
	}
}

// runDebug starts a writer for debug messages. The returned done channel is
// closed after the messages channel is closed and the file is flushed.
func runDebug() (chan<- debugMessage, <-chan struct{}) {
	f := createDebug()
	if f == nil {
		return nil, nil
	}
	ch := make(chan debugMessage, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ch {
			switch msg.msgType {
			case writeDebug:
				if bs, err := json.Marshal(msg.payload); err != nil {
					log.Printf("Error while writing to debug file: %v", err)
				} else {
					f.Write(bs)
					f.WriteString("\n")
				}
			case syncDebug:
				f.Sync()
			}
		}
		f.Close()
	}()
	return ch, done
}

func createDebug() *os.File {
	if !*debug && *debugFilename == "" {
		return nil
	}
	if *debugFilename == "" {
		datetime := time.Now().Format("2006-01-02T15:04:05")
		*debugFilename = fmt.Sprintf("log_%s.jsonl", datetime)
	}
	debugFile, err := os.Create(*debugFilename)
	if err != nil {
		log.Printf("Error opening debug file: %v", err)
		return nil
	}
	return debugFile
}
