package chapters

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

type xmlChapters struct {
	EditionEntries []xmlEdition `xml:"EditionEntry"`
}

type xmlEdition struct {
	Atoms []xmlAtom `xml:"ChapterAtom"`
}

type xmlAtom struct {
	TimeStart string     `xml:"ChapterTimeStart"`
	Display   xmlDisplay `xml:"ChapterDisplay"`
}

type xmlDisplay struct {
	String string `xml:"ChapterString"`
}

// ParseXML parses Matroska chapter XML into ordered chapters.
func ParseXML(r io.Reader) ([]Chapter, error) {
	var doc xmlChapters
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse chapter xml: %w", err)
	}
	var out []Chapter
	for _, edition := range doc.EditionEntries {
		for _, atom := range edition.Atoms {
			ts, err := ParseTimestamp(atom.TimeStart)
			if err != nil {
				return nil, err
			}
			out = append(out, Chapter{Time: ts, Name: atom.Display.String})
		}
	}
	return out, nil
}

// ParseXMLFile parses a Matroska chapter XML file.
func ParseXMLFile(path string) ([]Chapter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chapter xml: %w", err)
	}
	defer file.Close()
	return ParseXML(file)
}
