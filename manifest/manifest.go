// Package manifest builds and serializes the drumkit.xml document that
// playback software reads from the packaged kit. The element layout is a
// fixed external contract: root drumkit_info with kit metadata children,
// then an instrumentList whose instruments carry id, name, midiOutNote,
// the merged attribute elements, and one layer element per velocity band.
package manifest

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"go-drumkit/config"
	"go-drumkit/kit"
)

// Filename is the manifest's fixed name inside the kit directory.
const Filename = "drumkit.xml"

// Document is the root drumkit_info element.
type Document struct {
	XMLName     xml.Name     `xml:"drumkit_info"`
	Name        string       `xml:"name"`
	Author      string       `xml:"author"`
	Info        string       `xml:"info"`
	License     string       `xml:"license"`
	Instruments []Instrument `xml:"instrumentList>instrument"`
}

// Instrument is one instrument entry. The id matches the instrument's
// position in declaration order; consumers rely on that correspondence.
type Instrument struct {
	ID         int        `xml:"id"`
	Name       string     `xml:"name"`
	MIDINote   int        `xml:"midiOutNote"`
	Attributes []Property `xml:"-"`
	Layers     []Layer    `xml:"layer"`
}

// Property is an attribute child element with a caller-chosen tag name.
type Property struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Layer describes one velocity band and the sample file serving it.
type Layer struct {
	Filename string `xml:"filename"`
	Min      string `xml:"min"`
	Max      string `xml:"max"`
	Gain     string `xml:"gain"`
	Pitch    string `xml:"pitch"`
}

// MarshalXML writes the instrument with its attribute elements between
// midiOutNote and the layers, which the struct tags alone cannot express.
func (i Instrument) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := encodeChild(e, "id", i.ID); err != nil {
		return err
	}
	if err := encodeChild(e, "name", i.Name); err != nil {
		return err
	}
	if err := encodeChild(e, "midiOutNote", i.MIDINote); err != nil {
		return err
	}
	for _, attr := range i.Attributes {
		if err := e.Encode(attr); err != nil {
			return err
		}
	}
	for _, layer := range i.Layers {
		if err := e.EncodeElement(layer, xml.StartElement{Name: xml.Name{Local: "layer"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func encodeChild(e *xml.Encoder, name string, value any) error {
	return e.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
}

// FormatBound renders a normalized range bound with the six-digit
// precision the manifest contract fixes.
func FormatBound(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

// Build assembles the manifest document from a resolved plan.
func Build(plan *kit.Plan) *Document {
	doc := &Document{
		Name:    plan.Kit.Name,
		Author:  plan.Kit.Author,
		Info:    plan.Kit.Info,
		License: plan.Kit.License,
	}
	for _, inst := range plan.Instruments {
		entry := Instrument{
			ID:       inst.ID,
			Name:     inst.Display,
			MIDINote: inst.Note,
		}
		for _, name := range config.SortedKeys(inst.Attributes) {
			entry.Attributes = append(entry.Attributes, Property{
				XMLName: xml.Name{Local: name},
				Value:   inst.Attributes[name],
			})
		}
		for _, layer := range inst.Layers {
			entry.Layers = append(entry.Layers, Layer{
				Filename: layer.Filename,
				Min:      FormatBound(layer.Range.Min),
				Max:      FormatBound(layer.Range.Max),
				Gain:     "1",
				Pitch:    "0",
			})
		}
		doc.Instruments = append(doc.Instruments, entry)
	}
	return doc
}

// Encode writes the document with an XML declaration and two-space
// indentation.
func (d *Document) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return err
	}
	// Encoder does not emit a trailing newline.
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile serializes the document to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := d.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
