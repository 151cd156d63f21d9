package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-enigma/pkg/config"
	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/parallel"
)

var (
	errNoInput      = errors.New("no input: use --text, --file or pipe to stdin")
	errBatchFlags   = errors.New("file arguments do not combine with --text, --file or --output")
	errBatchNoOut   = errors.New("file arguments need --out-dir")
	errBatchInPlace = errors.New("--out-dir would overwrite an input file")
	errBatchDupName = errors.New("inputs share an output name")
)

type cipherOptions struct {
	text       string
	file       string
	output     string
	config     string
	saveConfig string
	outDir     string
	workers    int
	group      int
	stepAll    bool
	metrics    bool
}

// keyFlags override single key file fields from the command line
var keyFlags = []struct{ name, usage string }{
	{config.FieldRotors, `Rotors left to right, e.g. "I,II,III"`},
	{config.FieldPositions, `Start positions as letters ("ADU") or numbers ("0,3,20")`},
	{config.FieldRings, "Ring settings as letters or numbers"},
	{config.FieldPlugboard, `Plugboard pairs, e.g. "AV BS CG"`},
	{config.FieldReflector, "Reflector: B or C"},
}

func newCipherCommand(a *app, name, short string) *cobra.Command {
	var opts cipherOptions

	cmd := &cobra.Command{
		Use:   name + " [files...]",
		Short: short,
		Long: short + `.

Letters are substituted with their case kept; everything else is copied
through unchanged and, unless --step-non-letters is set, does not move the
rotors. With --group the output is cut down to upper-case letters in
blocks, the way messages were transmitted.

INPUT METHODS:
  enigma ` + name + ` --text "Hello World"
  enigma ` + name + ` --file message.txt
  echo "Hello" | enigma ` + name + `

BATCH:
  enigma ` + name + ` --out-dir out/ a.txt b.txt c.txt
  Every file starts from the key's start positions and is written to
  --out-dir under its own name.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCipher(cmd, &opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.text, "text", "t", "", "Text to process")
	f.StringVarP(&opts.file, "file", "f", "", "File to process (default: stdin)")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	f.StringVarP(&opts.config, "config", "c", "", "Key file, YAML or JSON by extension")
	f.StringVar(&opts.saveConfig, "save-config", "", "Write the effective key to this file")
	f.StringVar(&opts.outDir, "out-dir", "", "Directory for the outputs of file arguments")
	f.IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "Files processed at once in batch mode")
	for _, kf := range keyFlags {
		f.String(kf.name, "", kf.usage)
	}
	f.IntVarP(&opts.group, "group", "g", 0, "Emit letters only, in blocks of this size (0 keeps the text layout)")
	f.BoolVar(&opts.stepAll, "step-non-letters", false, "Advance the rotors on every character, not only letters")
	f.BoolVar(&opts.metrics, "metrics", false, "Write Prometheus metrics to stderr when done")
	cmd.MarkFlagsMutuallyExclusive("text", "file")

	return cmd
}

func (a *app) runCipher(cmd *cobra.Command, opts *cipherOptions, files []string) (err error) {
	if len(files) > 0 {
		if cmd.Flags().Changed("text") || opts.file != "" || opts.output != "" {
			return errBatchFlags
		}
		if opts.outDir == "" {
			return errBatchNoOut
		}
	}

	kf, err := a.loadKey(cmd, opts.config)
	if err != nil {
		return err
	}
	if opts.saveConfig != "" {
		if err := config.Save(opts.saveConfig, kf); err != nil {
			return err
		}
		a.logger.Info("saved key file", logging.Path(opts.saveConfig))
	}

	m, err := a.newMachine(kf, enigma.WithNonLetterStepping(opts.stepAll))
	if err != nil {
		return err
	}

	if len(files) > 0 {
		if err := a.runBatch(cmd.Name(), m, files, opts); err != nil {
			return err
		}
		if opts.metrics {
			return a.registry.WriteText(cmd.ErrOrStderr())
		}
		return nil
	}

	in, source, err := openInput(cmd, opts)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(cmd, opts.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	if err := a.encipher(cmd.Name(), m, in, out, source, opts.group); err != nil {
		return err
	}
	if opts.metrics {
		return a.registry.WriteText(cmd.ErrOrStderr())
	}
	return nil
}

// runBatch enciphers each file on its own copy of m
func (a *app) runBatch(op string, m *enigma.Machine, files []string, opts *cipherOptions) error {
	if err := os.MkdirAll(opts.outDir, 0700); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := make([]parallel.Job, len(files))
	claimed := make(map[string]string, len(files))
	for i, path := range files {
		dst := filepath.Join(opts.outDir, filepath.Base(path))
		if prev, ok := claimed[dst]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", errBatchDupName, prev, path, dst)
		}
		claimed[dst] = path
		if sameFile(path, dst) {
			return fmt.Errorf("%w: %s", errBatchInPlace, path)
		}
		jobs[i] = parallel.Job{
			Name: path,
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
			Create: func() (io.WriteCloser, error) {
				return os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
			},
		}
	}

	timer := logging.StartTimer(a.logger, "processed batch",
		logging.Operation(op), logging.Count(len(files)))
	err := parallel.Run(m, jobs, opts.workers, func(m *enigma.Machine, in io.Reader, out io.Writer) error {
		return a.encipher(op, m, in, out, "batch", opts.group)
	}, a.logger)
	if err != nil {
		timer.EndError(err)
		return err
	}
	timer.End(logging.Path(opts.outDir))
	return nil
}

// sameFile reports whether a and b name the same file, following symlinks
// and hard links. A path that does not exist matches nothing.
func sameFile(a, b string) bool {
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// loadKey layers the key file, the environment and the flags
func (a *app) loadKey(cmd *cobra.Command, path string) (*config.KeyFile, error) {
	kf := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		kf = loaded
		a.logger.Debug("loaded key file", logging.Path(path))
	}

	if err := kf.ApplyEnv(a.lookupEnv); err != nil {
		return nil, err
	}
	for _, f := range keyFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return nil, err
		}
		if err := kf.Set(f.name, v); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.name, err)
		}
	}
	return kf, nil
}

func (a *app) newMachine(kf *config.KeyFile, opts ...enigma.Option) (*enigma.Machine, error) {
	s, err := kf.Settings()
	if err != nil {
		a.registry.RecordMachineConfigured(err)
		return nil, err
	}

	opts = append(opts, enigma.WithLogger(a.logger), enigma.WithObserver(a.registry))
	m, err := enigma.New(s, opts...)
	a.registry.RecordMachineConfigured(err)
	if err != nil {
		a.logger.Error("failed to configure machine", logging.Error(err))
		return nil, err
	}
	return m, nil
}

func (a *app) encipher(op string, m *enigma.Machine, in io.Reader, out io.Writer, source string, group int) error {
	var t tally
	timer := logging.StartTimer(a.logger, "processed input",
		logging.Operation(op), logging.String("source", source))

	src := enigma.NewReader(io.TeeReader(in, &t), m)
	var err error
	if group > 0 {
		var buf bytes.Buffer
		if _, err = io.Copy(&buf, src); err == nil {
			_, err = fmt.Fprintln(out, enigma.Group(buf.String(), group))
		}
	} else {
		_, err = io.Copy(out, src)
	}
	if err != nil {
		timer.EndError(err)
		return fmt.Errorf("failed to process %s: %w", source, err)
	}

	elapsed := timer.End(logging.Count(t.letters), logging.Window(m.Window()))
	a.registry.RecordProcess(source, t.letters, t.other, elapsed)
	return nil
}

func openInput(cmd *cobra.Command, opts *cipherOptions) (io.ReadCloser, string, error) {
	switch {
	case cmd.Flags().Changed("text"):
		return io.NopCloser(strings.NewReader(opts.text)), "text", nil
	case opts.file != "":
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open input: %w", err)
		}
		return f, "file", nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return nil, "", errNoInput
		}
	}
	return io.NopCloser(in), "stdin", nil
}

func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// tally counts the letters and other characters flowing past
type tally struct {
	letters int
	other   int
}

func (t *tally) Write(p []byte) (int, error) {
	for _, b := range p {
		switch {
		case 'A' <= b && b <= 'Z', 'a' <= b && b <= 'z':
			t.letters++
		case utf8.RuneStart(b):
			t.other++
		}
	}
	return len(p), nil
}
