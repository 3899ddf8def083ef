package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/gen2brain/bmpn"
)

// A job is one transform applied to the decoded input image, written to
// its own output file.
type job struct {
	Op     string `yaml:"op"` // quantize, crop or flip
	Output string `yaml:"output"`

	Bits int `yaml:"bits"` // quantize

	X int `yaml:"x"` // crop
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// A batch is the YAML job file: one input, any number of outputs.
//
//	input: images/input2.bmp
//	jobs:
//	  - {op: quantize, bits: 6, output: output2_1.bmp}
//	  - {op: quantize, bits: 4, output: output2_2.bmp}
//	  - {op: quantize, bits: 2, output: output2_3.bmp}
type batch struct {
	Input string `yaml:"input"`
	Jobs  []job  `yaml:"jobs"`
}

func loadBatch(path string) (*batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	if b.Input == "" || len(b.Jobs) == 0 {
		return nil, fmt.Errorf("job file %s: an input and at least one job are required", path)
	}

	return &b, nil
}

// runBatch decodes the input once and runs every job against its own
// clone of the image, so a size-changing or failing job cannot leak into
// the others. A failed job is logged and does not stop the remaining
// jobs. Returns the number of failed jobs.
func runBatch(b *batch) int {
	m, err := loadBMP(b.Input)
	if err != nil {
		log.Print(err)

		return len(b.Jobs)
	}

	failed := 0
	for i := range b.Jobs {
		j := &b.Jobs[i]
		if err := j.run(m.Clone()); err != nil {
			log.Printf("job %d (%s): %v", i+1, j.Op, err)
			failed++

			continue
		}
		log.Printf("job %d (%s): wrote %s", i+1, j.Op, j.Output)
	}

	return failed
}

// run applies the job's transform to m, which it may mutate, and writes
// the result to the job's output file.
func (j *job) run(m *bmpn.Image) error {
	switch j.Op {
	case "quantize":
		if err := bmpn.Quantize(m.Raster, j.Bits); err != nil {
			return err
		}
	case "crop":
		cropped, err := bmpn.Crop(m, j.X, j.Y, j.W, j.H)
		if err != nil {
			return err
		}
		m = cropped
	case "flip":
		bmpn.FlipHorizontal(m.Raster)
	default:
		return fmt.Errorf("unknown op %q", j.Op)
	}

	return writeBMP(j.Output, m)
}

func loadBMP(path string) (*bmpn.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := bmpn.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

func writeBMP(path string, m *bmpn.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmpn.Encode(f, m); err != nil {
		f.Close()

		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}
