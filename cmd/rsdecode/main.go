// Command rsdecode checks and corrects Reed-Solomon codewords, or appends
// check symbols to data, over any of the barcode Galois fields.
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/ericlevine/zxingrs/bitutil"
	"github.com/ericlevine/zxingrs/internal/config"
	"github.com/ericlevine/zxingrs/reedsolomon"
)

const (
	exitOK       = 0
	exitFailures = 1
	exitUsage    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	field   string
	ec      int
	format  string
	packed  int
	symbols int
	encode  bool
	verbose bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("rsdecode", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.StringP("config", "c", "", "YAML configuration file")
	field := flags.StringP("field", "f", "", "Galois field name (see --list-fields)")
	ec := flags.IntP("ec", "e", 0, "number of error correction symbols")
	format := flags.StringP("format", "F", "", "symbol notation: dec or hex")
	packed := flags.IntP("packed", "p", 0, "read and write hex byte strings of packed N-bit symbols")
	symbols := flags.IntP("symbols", "n", 0, "number of symbols in each packed input, when its length is ambiguous")
	encode := flags.Bool("encode", false, "append ec check symbols instead of decoding")
	verbose := flags.BoolP("verbose", "v", false, "log every codeword")
	listFields := flags.BoolP("list-fields", "l", false, "list known fields and exit")
	help := flags.BoolP("help", "h", false, "display help text")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rsdecode [flags] [codeword...]\n\n")
		fmt.Fprintf(stderr, "Correct Reed-Solomon codewords given as arguments, or one per line on stdin.\n")
		fmt.Fprintf(stderr, "Symbols are separated by commas or spaces.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if *help {
		flags.Usage()
		return exitOK
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "rsdecode", Level: log.WarnLevel})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading configuration", "err", err)
		return exitUsage
	}
	if err := cfg.RegisterFields(); err != nil {
		logger.Error("registering configured fields", "path", cfg.Path, "err", err)
		return exitUsage
	}

	opts := options{
		field:   cfg.Defaults.Field,
		ec:      cfg.Defaults.EC,
		format:  cfg.Defaults.Format,
		packed:  *packed,
		symbols: *symbols,
		encode:  *encode,
		verbose: cfg.Defaults.Verbose,
	}
	if flags.Changed("field") {
		opts.field = *field
	}
	if flags.Changed("ec") {
		opts.ec = *ec
	}
	if flags.Changed("format") {
		opts.format = *format
	}
	if flags.Changed("verbose") {
		opts.verbose = *verbose
	}
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.Path != "" {
		logger.Debug("loaded configuration", "path", cfg.Path)
	}

	if *listFields {
		for _, name := range reedsolomon.FieldNames() {
			gf, _ := reedsolomon.FieldByName(name)
			fmt.Fprintf(stdout, "%s\t%v\tbase %d\n", name, gf, gf.GeneratorBase())
		}
		return exitOK
	}

	gf, ok := reedsolomon.FieldByName(opts.field)
	if !ok {
		logger.Error("unknown field", "field", opts.field)
		return exitUsage
	}
	if opts.ec <= 0 {
		logger.Error("--ec must be positive", "ec", opts.ec)
		return exitUsage
	}
	if opts.format != "dec" && opts.format != "hex" {
		logger.Error("unknown format", "format", opts.format)
		return exitUsage
	}
	if opts.packed < 0 || opts.packed > 16 {
		logger.Error("--packed must be between 1 and 16", "packed", opts.packed)
		return exitUsage
	}
	if opts.symbols < 0 || (opts.symbols > 0 && opts.packed == 0) {
		logger.Error("--symbols needs --packed and a positive count", "symbols", opts.symbols)
		return exitUsage
	}

	p := &processor{
		opts:    opts,
		field:   gf,
		decoder: reedsolomon.NewDecoder(gf),
		encoder: reedsolomon.NewEncoder(gf),
		logger:  logger,
		out:     stdout,
	}

	failures := 0
	if flags.NArg() > 0 {
		for _, arg := range flags.Args() {
			if !p.process(arg) {
				failures++
			}
		}
	} else {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if !p.process(line) {
				failures++
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Error("reading input", "err", err)
			return exitFailures
		}
	}
	if failures > 0 {
		return exitFailures
	}
	return exitOK
}

type processor struct {
	opts    options
	field   *reedsolomon.GenericGF
	decoder *reedsolomon.Decoder
	encoder *reedsolomon.Encoder
	logger  *log.Logger
	out     io.Writer
	line    int
}

// process handles one codeword and reports whether it succeeded.
func (p *processor) process(input string) bool {
	p.line++
	symbols, err := p.parse(input)
	if err != nil {
		p.logger.Error("invalid codeword", "line", p.line, "err", err)
		return false
	}

	if p.opts.encode {
		codeword := make([]int, len(symbols)+p.opts.ec)
		copy(codeword, symbols)
		p.encoder.Encode(codeword, p.opts.ec)
		p.logger.Debug("encoded", "line", p.line, "field", p.field, "data", len(symbols), "ec", p.opts.ec)
		fmt.Fprintln(p.out, p.formatSymbols(codeword))
		return true
	}

	if p.opts.ec > len(symbols) {
		p.logger.Error("codeword shorter than ec", "line", p.line, "symbols", len(symbols), "ec", p.opts.ec)
		return false
	}
	corrected, status := p.decoder.Decode(symbols, p.opts.ec)
	if status != reedsolomon.StatusOK {
		p.logger.Error("uncorrectable codeword", "line", p.line, "field", p.field, "status", status)
		return false
	}
	p.logger.Debug("decoded", "line", p.line, "field", p.field, "ec", p.opts.ec, "corrected", corrected)
	fmt.Fprintln(p.out, p.formatSymbols(symbols))
	return true
}

var (
	errSymbolRange      = errors.New("symbol outside field")
	errAmbiguousPacking = errors.New("ambiguous packed length")
)

func (p *processor) parse(input string) ([]int, error) {
	var symbols []int
	if p.opts.packed > 0 {
		data, err := hex.DecodeString(strings.Join(strings.Fields(input), ""))
		if err != nil {
			return nil, err
		}
		count := p.opts.symbols
		if count == 0 {
			lo, hi := bitutil.PackedSymbolCounts(len(data), p.opts.packed)
			switch {
			case lo > hi:
				return nil, fmt.Errorf("%d bytes do not hold a whole %d-bit symbol", len(data), p.opts.packed)
			case lo < hi:
				return nil, fmt.Errorf("%w: %d bytes hold %d to %d symbols, set --symbols",
					errAmbiguousPacking, len(data), lo, hi)
			}
			count = hi
		}
		if symbols, err = bitutil.UnpackSymbolsN(data, p.opts.packed, count); err != nil {
			return nil, err
		}
	} else {
		base := 10
		if p.opts.format == "hex" {
			base = 16
		}
		fields := strings.FieldsFunc(input, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		symbols = make([]int, 0, len(fields))
		for _, f := range fields {
			if base == 16 {
				f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
			}
			v, err := strconv.ParseInt(f, base, 32)
			if err != nil {
				return nil, err
			}
			symbols = append(symbols, int(v))
		}
	}

	if len(symbols) == 0 {
		return nil, errors.New("empty codeword")
	}
	for i, s := range symbols {
		if s < 0 || s >= p.field.Size() {
			return nil, fmt.Errorf("%w: %d at index %d", errSymbolRange, s, i)
		}
	}
	return symbols, nil
}

func (p *processor) formatSymbols(symbols []int) string {
	if p.opts.packed > 0 {
		return hex.EncodeToString(bitutil.PackSymbols(symbols, p.opts.packed))
	}
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		if p.opts.format == "hex" {
			parts[i] = fmt.Sprintf("%02x", s)
		} else {
			parts[i] = strconv.Itoa(s)
		}
	}
	return strings.Join(parts, ",")
}
