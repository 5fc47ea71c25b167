package imreg

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Transforms persist as a small human-readable JSON record:
//
//	{
//	  "parameters":  [1, 0, 0, 1, 10, 0],
//	  "dparameters": [0, 0, 0, 0, 0, 0],
//	  "origin":      [299.5, 399.5],
//	  "shape":       [600, 800]
//	}
//
// encoding/json emits the shortest float64 representation that parses
// back to the same bits, so a save/load round trip reproduces the
// transform exactly. Non-finite parameters cannot be represented and
// fail with ErrSerialization.

// Save writes the transform record to w.
func (t *Transform) Save(w io.Writer) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

// Load reads a transform record from r.
func Load(r io.Reader) (*Transform, error) {
	var t Transform
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if t.Shape[0] < 0 || t.Shape[1] < 0 {
		return nil, fmt.Errorf("%w: negative shape %dx%d", ErrSerialization, t.Shape[0], t.Shape[1])
	}
	return &t, nil
}

// SaveFile writes the transform record to a file.
func (t *Transform) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := t.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

// LoadFile reads a transform record from a file.
func LoadFile(path string) (*Transform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Load(f)
}
