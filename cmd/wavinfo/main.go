// This tool prints the layout and INFO tags of the passed wav file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/wav"

	"github.com/cwbudde/wavsynth"
)

const missingPathMessage = "You must pass the path of the file to inspect"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	h, err := wavsynth.NewDecoder(file).ReadHeader()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Format: %s\n", h.Format)
	fmt.Fprintf(out, "ByteRate: %d\n", h.ByteRate)
	fmt.Fprintf(out, "BlockAlign: %d\n", h.BlockAlign)
	fmt.Fprintf(out, "RIFF size: %d\n", h.TotalSize)
	fmt.Fprintf(out, "Data size: %d\n", h.DataByteLength)
	fmt.Fprintf(out, "Frames: %d\n", h.Frames())
	fmt.Fprintf(out, "Duration: %s\n", h.Duration())

	// cross check against an independent reader
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	if dur, err := wav.NewDecoder(file).Duration(); err == nil {
		fmt.Fprintf(out, "Duration (go-audio/wav): %s\n", dur)
	}

	if h.Metadata == nil {
		fmt.Fprintln(out, "No metadata present")
		return nil
	}

	m := h.Metadata
	fmt.Fprintf(out, "Artist: %s\n", m.Artist)
	fmt.Fprintf(out, "Title: %s\n", m.Title)
	fmt.Fprintf(out, "Comments: %s\n", m.Comments)
	fmt.Fprintf(out, "Copyright: %s\n", m.Copyright)
	fmt.Fprintf(out, "CreationDate: %s\n", m.CreationDate)
	fmt.Fprintf(out, "Genre: %s\n", m.Genre)
	fmt.Fprintf(out, "Keywords: %s\n", m.Keywords)
	fmt.Fprintf(out, "Subject: %s\n", m.Subject)
	fmt.Fprintf(out, "Software: %s\n", m.Software)
	fmt.Fprintf(out, "Source: %s\n", m.Source)

	return nil
}
