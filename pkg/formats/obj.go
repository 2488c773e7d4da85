// Package formats provides parsers for 3D mesh file formats.
package formats

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/objview/pkg/encoding"
)

// OBJ diagnostic errors.
var (
	ErrOBJMalformedFace      = errors.New("face line does not have exactly 3 corners")
	ErrOBJUnrecognizedCorner = errors.New("unrecognized face corner shape")
	ErrOBJInvalidNumber      = errors.New("invalid number")
	ErrOBJIndexOutOfRange    = errors.New("index out of range")
	ErrOBJMalformedVertex    = errors.New("vertex line needs 3 coordinates")
)

// OBJDiagnosticKind classifies a non-fatal problem found while parsing.
type OBJDiagnosticKind int

// Diagnostic kinds.
const (
	OBJMalformedFace OBJDiagnosticKind = iota
	OBJUnrecognizedCorner
	OBJInvalidNumber
	OBJIndexOutOfRange
	OBJMalformedVertex
)

// String returns a human-readable kind name.
func (k OBJDiagnosticKind) String() string {
	switch k {
	case OBJMalformedFace:
		return "MalformedFaceLine"
	case OBJUnrecognizedCorner:
		return "UnrecognizedCornerShape"
	case OBJInvalidNumber:
		return "InvalidNumber"
	case OBJIndexOutOfRange:
		return "IndexOutOfRange"
	case OBJMalformedVertex:
		return "MalformedVertex"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// OBJDiagnostic reports a problem on one input line. Parsing continues past it.
type OBJDiagnostic struct {
	Line  int // 1-based
	Kind  OBJDiagnosticKind
	Token string // offending token, empty when the whole line is at fault
	Err   error
}

// Error implements the error interface.
func (d OBJDiagnostic) Error() string {
	if d.Token != "" {
		return fmt.Sprintf("line %d: %v: %q", d.Line, d.Err, d.Token)
	}
	return fmt.Sprintf("line %d: %v", d.Line, d.Err)
}

// Unwrap returns the sentinel error for errors.Is.
func (d OBJDiagnostic) Unwrap() error {
	return d.Err
}

// OBJNormalRef is an optional reference into OBJ.Normals.
type OBJNormalRef struct {
	Index int
	Valid bool
}

// Get returns the index and whether it is present.
func (r OBJNormalRef) Get() (int, bool) {
	return r.Index, r.Valid
}

// OBJFace is a triangle. Indices are zero-based and already resolved.
type OBJFace struct {
	Vertices [3]int
	Normals  [3]OBJNormalRef
}

// OBJ represents a parsed Wavefront OBJ mesh.
type OBJ struct {
	Vertices [][3]float32
	Normals  [][3]float32
	Faces    []OBJFace

	// GroupFaceCounts holds the number of faces of every non-empty group,
	// in declaration order. Empty when the file declares no groups.
	// Faces before the first g form an implicit leading group.
	GroupFaceCounts []int
}

// HasGroups returns true if the file declared at least one non-empty group.
func (o *OBJ) HasGroups() bool {
	return len(o.GroupFaceCounts) > 0
}

// objParser holds the running state of a single parse.
type objParser struct {
	obj        *OBJ
	diags      []OBJDiagnostic
	line       int
	groupFaces int
	sawGroup   bool
}

// ParseOBJ parses OBJ text. It never fails: problems are returned as
// diagnostics and the offending data is skipped.
func ParseOBJ(text string) (*OBJ, []OBJDiagnostic) {
	p := &objParser{obj: &OBJ{}}

	for i, raw := range strings.Split(text, "\n") {
		p.line = i + 1
		p.parseLine(strings.TrimSpace(raw))
	}

	// Close the last group
	if p.sawGroup {
		p.obj.GroupFaceCounts = append(p.obj.GroupFaceCounts, p.groupFaces)
	}

	// Drop groups without faces
	counts := p.obj.GroupFaceCounts[:0]
	for _, n := range p.obj.GroupFaceCounts {
		if n != 0 {
			counts = append(counts, n)
		}
	}
	p.obj.GroupFaceCounts = counts

	return p.obj, p.diags
}

// ParseOBJFile parses an OBJ file from disk. charset selects the text
// decoding (see encoding.DecodeText); empty means UTF-8.
func ParseOBJFile(path, charset string) (*OBJ, []OBJDiagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	text, err := encoding.DecodeText(data, charset)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding OBJ file: %w", err)
	}
	obj, diags := ParseOBJ(text)
	return obj, diags, nil
}

func (p *objParser) report(kind OBJDiagnosticKind, token string, err error) {
	p.diags = append(p.diags, OBJDiagnostic{
		Line:  p.line,
		Kind:  kind,
		Token: token,
		Err:   err,
	})
}

func (p *objParser) parseLine(l string) {
	if l == "" || strings.HasPrefix(l, "#") {
		return
	}

	fields := strings.Fields(l)
	switch fields[0] {
	case "g":
		p.obj.GroupFaceCounts = append(p.obj.GroupFaceCounts, p.groupFaces)
		p.groupFaces = 0
		p.sawGroup = true
	case "v":
		if v, ok := p.parseVec3(fields); ok {
			p.obj.Vertices = append(p.obj.Vertices, v)
		}
	case "vn":
		if n, ok := p.parseVec3(fields); ok {
			p.obj.Normals = append(p.obj.Normals, n)
		}
	case "f":
		if f, ok := p.parseFace(fields); ok {
			p.obj.Faces = append(p.obj.Faces, f)
			p.groupFaces++
		}
	}
	// vt, o, s, usemtl, mtllib and anything else are ignored.
}

// parseVec3 parses the 3 coordinates of a v or vn line. A fourth
// component (vertex weight) is ignored.
func (p *objParser) parseVec3(fields []string) ([3]float32, bool) {
	var v [3]float32
	if len(fields) < 4 {
		p.report(OBJMalformedVertex, "", ErrOBJMalformedVertex)
		return v, false
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		// ParseFloat accepts nan and inf, which would poison the bbox
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			p.report(OBJInvalidNumber, fields[i+1], ErrOBJInvalidNumber)
			return v, false
		}
		v[i] = float32(f)
	}
	return v, true
}

func (p *objParser) parseFace(fields []string) (OBJFace, bool) {
	var face OBJFace

	corners := fields[1:]
	if len(corners) != 3 {
		p.report(OBJMalformedFace, "", ErrOBJMalformedFace)
		if len(corners) < 3 {
			return face, false
		}
		corners = corners[:3]
	}

	for i, tok := range corners {
		parts := strings.Split(tok, "/")

		var vertTok, normTok string
		switch len(parts) {
		case 1, 2:
			vertTok = parts[0]
		case 3:
			vertTok, normTok = parts[0], parts[2]
		default:
			p.report(OBJUnrecognizedCorner, tok, ErrOBJUnrecognizedCorner)
			return face, false
		}

		vi, err := resolveIndex(vertTok, len(p.obj.Vertices))
		if err != nil {
			p.reportIndex(vertTok, err)
			return face, false
		}
		face.Vertices[i] = vi

		if normTok == "" {
			continue
		}
		ni, err := resolveIndex(normTok, len(p.obj.Normals))
		if err != nil {
			p.reportIndex(normTok, err)
			if errors.Is(err, ErrOBJInvalidNumber) {
				return face, false
			}
			// A dangling normal only loses the normal, not the corner.
			continue
		}
		face.Normals[i] = OBJNormalRef{Index: ni, Valid: true}
	}

	return face, true
}

// resolveIndex converts a 1-based or negative (relative-from-end) index
// into a zero-based index into a list of length n.
func resolveIndex(tok string, n int) (int, error) {
	idx, err := strconv.Atoi(tok)
	if err != nil {
		return 0, ErrOBJInvalidNumber
	}

	if idx < 0 {
		idx = n + idx
	} else {
		idx = idx - 1
	}

	if idx < 0 || idx >= n {
		return 0, ErrOBJIndexOutOfRange
	}
	return idx, nil
}

func (p *objParser) reportIndex(tok string, err error) {
	kind := OBJIndexOutOfRange
	if errors.Is(err, ErrOBJInvalidNumber) {
		kind = OBJInvalidNumber
	}
	p.report(kind, tok, err)
}

// CountDiagnostics returns the count of diagnostics for each kind.
func CountDiagnostics(diags []OBJDiagnostic) map[OBJDiagnosticKind]int {
	counts := make(map[OBJDiagnosticKind]int)
	for _, d := range diags {
		counts[d.Kind]++
	}
	return counts
}
