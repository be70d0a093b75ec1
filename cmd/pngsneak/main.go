package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	sneak "github.com/yyyoichi/png_sneak"
	"github.com/yyyoichi/png_sneak/payload"
)

const usage = `usage:
  pngsneak [flags] encode <input.png> <output.png> <payload-file-or-string>
  pngsneak [flags] decode <input.png> <output-file>

flags:
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("pngsneak: ")

	verbose := flag.Bool("v", false, "log candidate sizes and row counts")
	strict := flag.Bool("strict", false, "reject payload rows after a filter-4 row when decoding")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	opts := []sneak.Option{}
	if *verbose {
		opts = append(opts, sneak.WithLogger(log.New(os.Stderr, "pngsneak: ", 0)))
	}
	if *strict {
		opts = append(opts, sneak.WithStrictSentinels())
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	var err error
	switch cmd, rest := args[0], args[1:]; {
	case cmd == "encode" && len(rest) == 3:
		err = encode(rest[0], rest[1], rest[2], opts)
	case cmd == "decode" && len(rest) == 2:
		err = decode(rest[0], rest[1], opts)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func encode(inPath, outPath, payloadArg string, opts []sneak.Option) error {
	data, err := payload.Load(payloadArg)
	if err != nil {
		return fmt.Errorf("%w: %w", sneak.ErrInputRead, err)
	}
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: %w", sneak.ErrInputRead, err)
	}
	defer in.Close()

	var buf bytes.Buffer
	report, err := sneak.Embed(&buf, in, data, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %w", sneak.ErrOutputWrite, err)
	}
	fmt.Printf("Embedded %d bytes (%s, %d of %d rows) → %s\n",
		len(data), report.Method, report.RequiredRows, report.Rows, outPath)
	return nil
}

func decode(inPath, outPath string, opts []sneak.Option) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: %w", sneak.ErrInputRead, err)
	}
	defer in.Close()

	res, err := sneak.Extract(in, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, res.Payload, 0o644); err != nil {
		return fmt.Errorf("%w: %w", sneak.ErrOutputWrite, err)
	}
	printPayload(os.Stdout, res, outPath)
	return nil
}

func printPayload(w io.Writer, res sneak.Result, outPath string) {
	fmt.Fprintf(w, "Extracted %d bytes (%s) → %s\n", len(res.Payload), res.Method, outPath)
	if !payload.IsText(res.Payload) {
		fmt.Fprintln(w, "(non-text payload)")
	}
	fmt.Fprintln(w, payload.Describe(res.Payload))
}
