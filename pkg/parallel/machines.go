// Package parallel enciphers independent inputs concurrently, one machine
// per input.
package parallel

import (
	"fmt"
	"io"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
)

// Job is one input enciphered from the key's start positions
type Job struct {
	Name   string
	Open   func() (io.ReadCloser, error)
	Create func() (io.WriteCloser, error)
}

// CipherFunc processes one job on the machine it is handed
type CipherFunc func(m *enigma.Machine, in io.Reader, out io.Writer) error

// Run processes every job on its own clone of template, at most workers at a
// time. template is never advanced. Errors from all jobs are joined.
func Run(template *enigma.Machine, jobs []Job, workers int, cipher CipherFunc, logger logging.Logger) error {
	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		m := template.Clone()
		pool.Submit(func() error {
			return runJob(job, m, cipher)
		})
	}
	return pool.Wait()
}

func runJob(job Job, m *enigma.Machine, cipher CipherFunc) (err error) {
	in, err := job.Open()
	if err != nil {
		return fmt.Errorf("%s: %w", job.Name, err)
	}
	defer in.Close()

	out, err := job.Create()
	if err != nil {
		return fmt.Errorf("%s: %w", job.Name, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: %w", job.Name, cerr)
		}
	}()

	if err := cipher(m, in, out); err != nil {
		return fmt.Errorf("%s: %w", job.Name, err)
	}
	return nil
}
