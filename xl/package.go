package xl

// Part is one named file of the package.
type Part struct {
	Name string // path inside the archive, without a leading slash
	Blob []byte
}

// Package is the complete, ordered set of parts of an assembled workbook.
type Package struct {
	Parts []Part
}

// Part returns the content of the named part.
func (p *Package) Part(name string) ([]byte, bool) {
	for _, pt := range p.Parts {
		if pt.Name == name {
			return pt.Blob, true
		}
	}
	return nil, false
}

// Names lists the part names in package order.
func (p *Package) Names() []string {
	names := make([]string, len(p.Parts))
	for i, pt := range p.Parts {
		names[i] = pt.Name
	}
	return names
}

// WriteTo hands every part to s.
func (p *Package) WriteTo(s Storage) error {
	for _, pt := range p.Parts {
		if err := s.WriteBlob(pt.Name, pt.Blob); err != nil {
			return err
		}
	}
	return nil
}
