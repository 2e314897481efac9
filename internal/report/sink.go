package report

import "errors"

// Sink receives records one at a time. Sinks are not safe for concurrent use.
type Sink interface {
	Write(Record) error
	Close() error
}

type multi []Sink

// Multi fans records out to every sink. Write stops at the first error;
// Close closes all and joins their errors.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multi) Write(r Record) error {
	for _, s := range m {
		if err := s.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory keeps records in order; useful for summaries and tests.
type Memory struct {
	Records []Record
}

func (m *Memory) Write(r Record) error {
	m.Records = append(m.Records, r)
	return nil
}

func (m *Memory) Close() error { return nil }
