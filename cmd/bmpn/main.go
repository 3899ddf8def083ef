// Command bmpn applies a pixel transform to an uncompressed 24- or
// 32-bit BMP file. It either runs a single transform given on the
// command line, or a batch of transforms from a YAML job file, where
// every job gets its own output produced from an independent copy of the
// decoded input.
//
// Usage:
//
//	bmpn -in input.bmp -out flipped.bmp -op flip
//	bmpn -in input.bmp -out small.bmp -op crop -x 120 -y 150 -w 100 -h 100
//	bmpn -in input.bmp -out posterized.bmp -op quantize -bits 4
//	bmpn -jobs jobs.yaml
package main

import (
	"flag"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("bmpn: ")

	var (
		in       = flag.String("in", "", "input BMP file")
		out      = flag.String("out", "", "output BMP file")
		op       = flag.String("op", "", "transform to apply: quantize, crop or flip")
		bits     = flag.Int("bits", 4, "quantize: bits per channel, 1 to 8")
		x        = flag.Int("x", 0, "crop: left edge of the region")
		y        = flag.Int("y", 0, "crop: top edge of the region")
		w        = flag.Int("w", 0, "crop: region width")
		h        = flag.Int("h", 0, "crop: region height")
		jobsFile = flag.String("jobs", "", "YAML job file; overrides the single-transform flags")
	)
	flag.Parse()

	if *jobsFile != "" {
		b, err := loadBatch(*jobsFile)
		if err != nil {
			log.Fatal(err)
		}
		if failed := runBatch(b); failed > 0 {
			log.Fatalf("%d of %d jobs failed", failed, len(b.Jobs))
		}

		return
	}

	if *in == "" || *out == "" || *op == "" {
		flag.Usage()
		os.Exit(2)
	}

	m, err := loadBMP(*in)
	if err != nil {
		log.Fatal(err)
	}

	j := job{Op: *op, Output: *out, Bits: *bits, X: *x, Y: *y, W: *w, H: *h}
	if err := j.run(m); err != nil {
		log.Fatal(err)
	}
}
