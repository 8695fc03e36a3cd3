// Package console holds the shell state: the selected section and the
// overview shown on the home section.
package console

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownSection = errors.New("unknown section")

type Section string

const (
	SectionHome     Section = "home"
	SectionEvents   Section = "events"
	SectionGallery  Section = "gallery"
	SectionBanners  Section = "banners"
	SectionMembers  Section = "members"
	SectionForms    Section = "forms"
	SectionSettings Section = "settings"
)

// Sections lists the sidebar entries in display order.
func Sections() []Section {
	return []Section{
		SectionHome,
		SectionEvents,
		SectionGallery,
		SectionBanners,
		SectionMembers,
		SectionForms,
		SectionSettings,
	}
}

func ParseSection(name string) (Section, error) {
	for _, s := range Sections() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

type Shell struct {
	mu      sync.RWMutex
	section Section
}

func NewShell() *Shell {
	return &Shell{section: SectionHome}
}

func (s *Shell) Section() Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.section
}

// Select switches the content area. An unknown name leaves the selection
// unchanged.
func (s *Shell) Select(name string) (Section, error) {
	section, err := ParseSection(name)
	if err != nil {
		return s.Section(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.section = section
	return section, nil
}
