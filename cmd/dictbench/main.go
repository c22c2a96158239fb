// dictbench is a REPL for manually exercising and benchmarking a
// package dict table over string keys.
//
// Usage:
//
//	dictbench [--initial-exp N] [--resize-mode enable|avoid|forbid] [--config-dir DIR]
//
// Commands (in REPL):
//
//	put <key> <value>        Insert or overwrite an entry
//	get <key>                 Retrieve an entry by key
//	del <key>                 Delete an entry
//	scan                      Drive the cursor through the whole table once
//	cursor <n>                Scan a single step starting from cursor n
//	rehash <n>                Advance the incremental rehash by n buckets
//	stats                     Show bucket occupancy histograms for both halves
//	sample <n>                Draw n samples with SomeKeys
//	fairsample                Draw one sample with FairRandomKey
//	dump <path>               Atomically write the stats report to path
//	bench <count>             Timed put+get loop over count random keys
//	help                      Show this help
//	exit / quit / q           Exit
package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	mathrand "math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	"github.com/spf13/pflag"

	"github.com/kvfabric/dict/pkg/dict"
	"github.com/kvfabric/dict/pkg/dictconfig"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	initialExp := pflag.Int8("initial-exp", 0, "override the bucket-count exponent a half starts at (0 keeps the config/default)")
	resizeMode := pflag.String("resize-mode", "", "override the process-wide resize mode: enable, avoid, forbid")
	configDir := pflag.String("config-dir", ".", "directory to look for .dictrc.hujson in")
	pflag.Parse()

	cfg, err := dictconfig.Load(*configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	switch *resizeMode {
	case "":
	case "enable":
		dict.SetResizeEnabled(dict.ResizeEnable)
	case "avoid":
		dict.SetResizeEnabled(dict.ResizeAvoid)
	case "forbid":
		dict.SetResizeEnabled(dict.ResizeForbid)
	default:
		return fmt.Errorf("invalid --resize-mode: %s", *resizeMode)
	}
	if *resizeMode == "" {
		applyConfigResizeMode(cfg.ResizeMode)
	}

	td := &dict.TypeDescriptor{
		HashKey:   func(k any) uint64 { return dict.HashBytes([]byte(k.(string))) },
		KeysEqual: func(a, b any) bool { return a.(string) == b.(string) },
	}

	d, err := dict.New(td)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	d.SetForceResizeRatio(cfg.ForceResizeRatio)
	d.SetMinFillDivisor(cfg.MinFillDivisor)
	if *initialExp > 0 {
		d.SetInitialExp(*initialExp)
	} else {
		d.SetInitialExp(cfg.InitialExp)
	}

	repl := &REPL{d: d}
	return repl.Run()
}

func applyConfigResizeMode(mode string) {
	switch mode {
	case "avoid":
		dict.SetResizeEnabled(dict.ResizeAvoid)
	case "forbid":
		dict.SetResizeEnabled(dict.ResizeForbid)
	default:
		dict.SetResizeEnabled(dict.ResizeEnable)
	}
}

// REPL is the interactive command loop.
type REPL struct {
	d     *dict.Dict
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dictbench_history")
}

func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Println("dictbench - hash table REPL")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("dict> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "put":
			r.cmdPut(args)
		case "get":
			r.cmdGet(args)
		case "del", "delete":
			r.cmdDel(args)
		case "scan":
			r.cmdScan()
		case "cursor":
			r.cmdCursor(args)
		case "rehash":
			r.cmdRehash(args)
		case "stats":
			r.cmdStats()
		case "sample":
			r.cmdSample(args)
		case "fairsample":
			r.cmdFairSample()
		case "dump":
			r.cmdDump(args)
		case "bench":
			r.cmdBench(args)
		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()
	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"put", "get", "del", "delete", "scan", "cursor", "rehash",
		"stats", "sample", "fairsample", "dump", "bench",
		"help", "exit", "quit", "q",
	}
	var out []string
	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}
	return out
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  put <key> <value>   Insert or overwrite an entry")
	fmt.Println("  get <key>           Retrieve an entry by key")
	fmt.Println("  del <key>           Delete an entry")
	fmt.Println("  scan                Drive the cursor through the whole table once")
	fmt.Println("  cursor <n>          Scan a single step starting from cursor n")
	fmt.Println("  rehash <n>          Advance the incremental rehash by n buckets")
	fmt.Println("  stats               Show bucket occupancy histograms")
	fmt.Println("  sample <n>          Draw n samples with SomeKeys")
	fmt.Println("  fairsample          Draw one sample with FairRandomKey")
	fmt.Println("  dump <path>         Atomically write the stats report to path")
	fmt.Println("  bench <count>       Timed put+get loop over count random keys")
	fmt.Println("  help                Show this help")
	fmt.Println("  exit / quit / q     Exit")
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: put <key> <value>")
		return
	}
	existed := r.d.Replace(args[0], dict.Pointer(strings.Join(args[1:], " ")))
	if existed {
		fmt.Printf("OK: replaced %q\n", args[0])
	} else {
		fmt.Printf("OK: inserted %q\n", args[0])
	}
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <key>")
		return
	}
	v, ok := r.d.Find(args[0])
	if !ok {
		fmt.Println("(not found)")
		return
	}
	p, _ := v.AsPointer()
	fmt.Printf("%v\n", p)
}

func (r *REPL) cmdDel(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: del <key>")
		return
	}
	if r.d.Delete(args[0]) {
		fmt.Printf("OK: deleted %q\n", args[0])
	} else {
		fmt.Printf("OK: %q did not exist\n", args[0])
	}
}

func (r *REPL) cmdScan() {
	var cursor uint64
	var count int
	first := true
	for first || cursor != 0 {
		first = false
		cursor = r.d.Scan(cursor, func(_ any, key any, val dict.Value) {
			p, _ := val.AsPointer()
			fmt.Printf("%v => %v\n", key, p)
			count++
		}, nil)
	}
	fmt.Printf("(%d entries)\n", count)
}

func (r *REPL) cmdCursor(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: cursor <n>")
		return
	}
	start, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Error parsing cursor: %v\n", err)
		return
	}
	next := r.d.Scan(start, func(_ any, key any, val dict.Value) {
		p, _ := val.AsPointer()
		fmt.Printf("%v => %v\n", key, p)
	}, nil)
	fmt.Printf("next cursor: %d\n", next)
}

func (r *REPL) cmdRehash(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: rehash <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("Error parsing n: %v\n", err)
		return
	}
	if !r.d.IsRehashing() {
		fmt.Println(dict.ErrNotRehashing)
		return
	}
	more := r.d.Rehash(n)
	fmt.Printf("rehashing in progress: %v\n", more)
}

func (r *REPL) cmdStats() {
	t0, t1 := r.d.GetStats()
	fmt.Println("--- table 0 ---")
	fmt.Println(t0.String())
	if r.d.IsRehashing() {
		fmt.Println("--- table 1 ---")
		fmt.Println(t1.String())
	}
}

func (r *REPL) cmdSample(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: sample <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("Error parsing n: %v\n", err)
		return
	}
	for _, s := range r.d.SomeKeys(n) {
		p, _ := s.Val.AsPointer()
		fmt.Printf("%v => %v\n", s.Key, p)
	}
}

func (r *REPL) cmdFairSample() {
	key, val, ok := r.d.FairRandomKey()
	if !ok {
		fmt.Println("(empty)")
		return
	}
	p, _ := val.AsPointer()
	fmt.Printf("%v => %v\n", key, p)
}

func (r *REPL) cmdDump(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: dump <path>")
		return
	}
	t0, t1 := r.d.GetStats()
	report := t0.String()
	if r.d.IsRehashing() {
		report += "\n" + t1.String()
	}
	if err := atomic.WriteFile(args[0], strings.NewReader(report)); err != nil {
		fmt.Printf("Error writing dump: %v\n", err)
		return
	}
	fmt.Printf("OK: wrote stats to %s\n", args[0])
}

func (r *REPL) cmdBench(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: bench <count>")
		return
	}
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		fmt.Println("Error: count must be a positive integer")
		return
	}

	keys := make([]string, count)
	for i := range keys {
		buf := make([]byte, 12)
		rand.Read(buf)
		keys[i] = hex.EncodeToString(buf)
	}

	putStart := time.Now()
	for _, k := range keys {
		r.d.Add(k, dict.Int64(mathrand.Int64()))
	}
	putElapsed := time.Since(putStart)

	getStart := time.Now()
	hits := 0
	for _, k := range keys {
		if _, ok := r.d.Find(k); ok {
			hits++
		}
	}
	getElapsed := time.Since(getStart)

	fmt.Printf("Results:\n")
	fmt.Printf("  Puts: %d ops in %v (%.0f ops/sec)\n",
		count, putElapsed.Round(time.Millisecond), float64(count)/putElapsed.Seconds())
	fmt.Printf("  Gets: %d ops in %v (%.0f ops/sec), %d hits\n",
		count, getElapsed.Round(time.Millisecond), float64(count)/getElapsed.Seconds(), hits)
}
