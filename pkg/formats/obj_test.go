package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOBJ_Counts(t *testing.T) {
	text := `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vn 0 0 1
vn 0 1 0
f 1 2 3
f 1 3 4
`
	obj, diags := ParseOBJ(text)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}

	if len(obj.Vertices) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(obj.Vertices))
	}
	if len(obj.Normals) != 2 {
		t.Errorf("expected 2 normals, got %d", len(obj.Normals))
	}
	if len(obj.Faces) != 2 {
		t.Errorf("expected 2 faces, got %d", len(obj.Faces))
	}
	if obj.HasGroups() {
		t.Errorf("expected no groups, got %v", obj.GroupFaceCounts)
	}
}

func TestParseOBJ_VertexValues(t *testing.T) {
	obj, _ := ParseOBJ("v   1.5  -2.25\t3e1  \nvn 0 0 -1")

	want := [3]float32{1.5, -2.25, 30}
	if obj.Vertices[0] != want {
		t.Errorf("expected vertex %v, got %v", want, obj.Vertices[0])
	}
	if obj.Normals[0] != [3]float32{0, 0, -1} {
		t.Errorf("expected normal (0,0,-1), got %v", obj.Normals[0])
	}
}

func TestParseOBJ_SkipsCommentsAndTexCoords(t *testing.T) {
	text := "# comment\n\n   \nvt 0.5 0.5\nv 1 2 3\no thing\ns off\nusemtl red\n"
	obj, diags := ParseOBJ(text)

	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
	if len(obj.Vertices) != 1 {
		t.Errorf("expected 1 vertex, got %d", len(obj.Vertices))
	}
}

func TestParseOBJ_CRLF(t *testing.T) {
	obj, diags := ParseOBJ("v 0 0 0\r\nv 1 0 0\r\nv 0 1 0\r\nf 1 2 3\r\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if len(obj.Faces) != 1 {
		t.Errorf("expected 1 face, got %d", len(obj.Faces))
	}
}

func TestParseOBJ_PositiveIndices(t *testing.T) {
	obj, _ := ParseOBJ("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	want := [3]int{0, 1, 2}
	if obj.Faces[0].Vertices != want {
		t.Errorf("expected vertex indices %v, got %v", want, obj.Faces[0].Vertices)
	}
	for i, n := range obj.Faces[0].Normals {
		if n.Valid {
			t.Errorf("corner %d: expected absent normal", i)
		}
	}
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	text := `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vn 0 0 1
vn 1 0 0
f -1//-1 1//1 -3//-2
`
	obj, diags := ParseOBJ(text)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}

	face := obj.Faces[0]
	// -1 with 4 vertices resolves to 3, 1 resolves to 0
	if face.Vertices != [3]int{3, 0, 1} {
		t.Errorf("expected vertex indices [3 0 1], got %v", face.Vertices)
	}

	wantNormals := [3]OBJNormalRef{
		{Index: 1, Valid: true},
		{Index: 0, Valid: true},
		{Index: 0, Valid: true},
	}
	if face.Normals != wantNormals {
		t.Errorf("expected normals %v, got %v", wantNormals, face.Normals)
	}
}

func TestParseOBJ_NegativeIndexIsRelativeToLineOrder(t *testing.T) {
	text := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
v 5 5 5
f -3 -2 -1
`
	obj, _ := ParseOBJ(text)
	if len(obj.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(obj.Faces))
	}
	if obj.Faces[0].Vertices != [3]int{0, 1, 2} {
		t.Errorf("face 0: expected [0 1 2], got %v", obj.Faces[0].Vertices)
	}
	if obj.Faces[1].Vertices != [3]int{1, 2, 3} {
		t.Errorf("face 1: expected [1 2 3], got %v", obj.Faces[1].Vertices)
	}
}

func TestParseOBJ_CornerShapes(t *testing.T) {
	tests := []struct {
		name       string
		face       string
		wantNormal bool
	}{
		{"vertex only", "f 1 2 3", false},
		{"vertex and texture", "f 1/1 2/1 3/1", false},
		{"vertex and normal", "f 1//1 2//1 3//1", true},
		{"full", "f 1/1/1 2/1/1 3/1/1", true},
		{"empty normal slot", "f 1/1/ 2/1/ 3/1/", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\n" + tc.face
			obj, diags := ParseOBJ(text)
			if len(diags) != 0 {
				t.Fatalf("expected no diagnostics, got %v", diags)
			}
			if len(obj.Faces) != 1 {
				t.Fatalf("expected 1 face, got %d", len(obj.Faces))
			}
			for i, n := range obj.Faces[0].Normals {
				if n.Valid != tc.wantNormal {
					t.Errorf("corner %d: normal valid = %v, want %v", i, n.Valid, tc.wantNormal)
				}
			}
		})
	}
}

func TestParseOBJ_Groups(t *testing.T) {
	text := `
v 0 0 0
v 1 0 0
v 0 1 0
g first
f 1 2 3
f 1 2 3
f 1 2 3
g empty
g second
f 1 2 3
g trailing
`
	obj, _ := ParseOBJ(text)

	want := []int{3, 1}
	if len(obj.GroupFaceCounts) != len(want) {
		t.Fatalf("expected group counts %v, got %v", want, obj.GroupFaceCounts)
	}
	for i := range want {
		if obj.GroupFaceCounts[i] != want[i] {
			t.Errorf("group %d: expected %d faces, got %d", i, want[i], obj.GroupFaceCounts[i])
		}
	}
}

func TestParseOBJ_GroupSumMatchesFaces(t *testing.T) {
	text := "v 0 0 0\nv 1 0 0\nv 0 1 0\ng a\nf 1 2 3\ng b\nf 1 2 3\nf 1 2 3\ng c\nf 1 2 3\n"
	obj, _ := ParseOBJ(text)

	sum := 0
	for _, n := range obj.GroupFaceCounts {
		if n == 0 {
			t.Error("group counts must not contain zero entries")
		}
		sum += n
	}
	if sum != len(obj.Faces) {
		t.Errorf("expected group sum %d, got %d", len(obj.Faces), sum)
	}
}

func TestParseOBJ_FacesBeforeFirstGroup(t *testing.T) {
	text := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nf 1 2 3\ng named\nf 1 2 3\n"
	obj, _ := ParseOBJ(text)

	// Leading faces form their own implicit group
	want := []int{2, 1}
	if len(obj.GroupFaceCounts) != 2 || obj.GroupFaceCounts[0] != want[0] || obj.GroupFaceCounts[1] != want[1] {
		t.Errorf("expected group counts %v, got %v", want, obj.GroupFaceCounts)
	}
}

func TestParseOBJ_MalformedFaceLine(t *testing.T) {
	text := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3 4\nf 1 2\n"
	obj, diags := ParseOBJ(text)

	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Kind != OBJMalformedFace {
			t.Errorf("expected MalformedFaceLine, got %v", d.Kind)
		}
		if !errors.Is(d, ErrOBJMalformedFace) {
			t.Errorf("expected diagnostic to wrap ErrOBJMalformedFace")
		}
	}
	if diags[0].Line != 5 || diags[1].Line != 6 {
		t.Errorf("expected lines 5 and 6, got %d and %d", diags[0].Line, diags[1].Line)
	}

	// The quad keeps its first triangle, the two-corner line is dropped
	if len(obj.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(obj.Faces))
	}
	if obj.Faces[0].Vertices != [3]int{0, 1, 2} {
		t.Errorf("expected first three corners, got %v", obj.Faces[0].Vertices)
	}
}

func TestParseOBJ_UnrecognizedCorner(t *testing.T) {
	obj, diags := ParseOBJ("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n")

	if len(obj.Faces) != 0 {
		t.Errorf("expected face to be rejected, got %d faces", len(obj.Faces))
	}
	if len(diags) != 1 || diags[0].Kind != OBJUnrecognizedCorner {
		t.Fatalf("expected one UnrecognizedCornerShape diagnostic, got %v", diags)
	}
	if diags[0].Token != "1/1/1/1" {
		t.Errorf("expected offending token, got %q", diags[0].Token)
	}
}

func TestParseOBJ_InvalidNumbers(t *testing.T) {
	text := "v 0 0 0\nv 1 zero 0\nv 0 1 0\nv 1 1 1\nf 1 x 3\nvn 0 0 nan?\n"
	obj, diags := ParseOBJ(text)

	if len(obj.Vertices) != 3 {
		t.Errorf("expected 3 vertices, got %d", len(obj.Vertices))
	}
	if len(obj.Faces) != 0 {
		t.Errorf("expected no faces, got %d", len(obj.Faces))
	}
	if len(obj.Normals) != 0 {
		t.Errorf("expected no normals, got %d", len(obj.Normals))
	}

	counts := CountDiagnostics(diags)
	if counts[OBJInvalidNumber] != 3 {
		t.Errorf("expected 3 InvalidNumber diagnostics, got %d (%v)", counts[OBJInvalidNumber], diags)
	}
	if diags[0].Token != "zero" || diags[0].Line != 2 {
		t.Errorf("expected token %q on line 2, got %q on line %d", "zero", diags[0].Token, diags[0].Line)
	}
}

func TestParseOBJ_NonFiniteNumbers(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		token string
	}{
		{"nan vertex", "v nan 0 0", "nan"},
		{"NaN vertex", "v 0 NaN 0", "NaN"},
		{"inf vertex", "v 0 0 inf", "inf"},
		{"negative inf vertex", "v -Inf 0 0", "-Inf"},
		{"plus inf normal", "vn 0 +Inf 0", "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, diags := ParseOBJ(tt.line + "\nv 1 0 0\nv 0 1 0\nv 0 0 1\n")

			if len(obj.Vertices) != 3 || len(obj.Normals) != 0 {
				t.Errorf("expected the line rejected, got %d vertices %d normals", len(obj.Vertices), len(obj.Normals))
			}
			if len(diags) != 1 {
				t.Fatalf("expected 1 diagnostic, got %v", diags)
			}
			if diags[0].Kind != OBJInvalidNumber || diags[0].Token != tt.token {
				t.Errorf("expected InvalidNumber on %q, got %v %q", tt.token, diags[0].Kind, diags[0].Token)
			}
			if !errors.Is(diags[0], ErrOBJInvalidNumber) {
				t.Errorf("expected ErrOBJInvalidNumber, got %v", diags[0])
			}
		})
	}
}

func TestParseOBJ_MalformedVertex(t *testing.T) {
	obj, diags := ParseOBJ("v 1 2\nvn\n")

	if len(obj.Vertices) != 0 || len(obj.Normals) != 0 {
		t.Errorf("expected nothing parsed, got %d vertices %d normals", len(obj.Vertices), len(obj.Normals))
	}
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	if !errors.Is(diags[0], ErrOBJMalformedVertex) {
		t.Errorf("expected ErrOBJMalformedVertex, got %v", diags[0])
	}
}

func TestParseOBJ_IndexOutOfRange(t *testing.T) {
	text := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1 2 9\nf 0 1 2\nf 1//1 2//5 3//1\n"
	obj, diags := ParseOBJ(text)

	counts := CountDiagnostics(diags)
	if counts[OBJIndexOutOfRange] != 3 {
		t.Errorf("expected 3 IndexOutOfRange diagnostics, got %v", diags)
	}

	// Only the face with the dangling normal survives, minus that normal
	if len(obj.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(obj.Faces))
	}
	if _, ok := obj.Faces[0].Normals[1].Get(); ok {
		t.Error("expected dangling normal to be absent")
	}
	if idx, ok := obj.Faces[0].Normals[0].Get(); !ok || idx != 0 {
		t.Errorf("expected normal 0, got %d (valid=%v)", idx, ok)
	}
}

func TestParseOBJ_RejectedFacesDoNotCountTowardGroups(t *testing.T) {
	text := "v 0 0 0\nv 1 0 0\nv 0 1 0\ng a\nf 1 2 3\nf 1 2 99\n"
	obj, _ := ParseOBJ(text)

	if len(obj.GroupFaceCounts) != 1 || obj.GroupFaceCounts[0] != 1 {
		t.Errorf("expected group counts [1], got %v", obj.GroupFaceCounts)
	}
}

func TestParseOBJ_Empty(t *testing.T) {
	obj, diags := ParseOBJ("")
	if obj == nil {
		t.Fatal("expected non-nil OBJ")
	}
	if len(diags) != 0 || len(obj.Vertices) != 0 || len(obj.Faces) != 0 {
		t.Errorf("expected empty result, got %+v %v", obj, diags)
	}
}

func TestOBJDiagnostic_Error(t *testing.T) {
	d := OBJDiagnostic{Line: 7, Kind: OBJInvalidNumber, Token: "abc", Err: ErrOBJInvalidNumber}
	msg := d.Error()
	if !strings.Contains(msg, "line 7") || !strings.Contains(msg, `"abc"`) {
		t.Errorf("unexpected message: %s", msg)
	}
	if OBJUnrecognizedCorner.String() != "UnrecognizedCornerShape" {
		t.Errorf("unexpected kind name: %s", OBJUnrecognizedCorner)
	}
}

func TestParseOBJFile_Cube(t *testing.T) {
	obj, diags, err := ParseOBJFile(filepath.Join("testdata", "cube.obj"), "")
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
	if len(obj.Vertices) != 8 {
		t.Errorf("expected 8 vertices, got %d", len(obj.Vertices))
	}
	if len(obj.Faces) != 12 {
		t.Errorf("expected 12 faces, got %d", len(obj.Faces))
	}
	if obj.HasGroups() {
		t.Errorf("expected no groups, got %v", obj.GroupFaceCounts)
	}
}

func TestParseOBJFile_PyramidGroups(t *testing.T) {
	obj, diags, err := ParseOBJFile(filepath.Join("testdata", "pyramid_groups.obj"), "utf-8")
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
	if len(obj.Faces) != 6 {
		t.Fatalf("expected 6 faces, got %d", len(obj.Faces))
	}
	if len(obj.GroupFaceCounts) != 2 || obj.GroupFaceCounts[0] != 2 || obj.GroupFaceCounts[1] != 4 {
		t.Errorf("expected group counts [2 4], got %v", obj.GroupFaceCounts)
	}

	last := obj.Faces[5]
	if last.Vertices != [3]int{3, 0, 4} {
		t.Errorf("expected negative refs to resolve to [3 0 4], got %v", last.Vertices)
	}
	if idx, ok := last.Normals[0].Get(); !ok || idx != 4 {
		t.Errorf("expected normal 4, got %d (valid=%v)", idx, ok)
	}
}

func TestParseOBJFile_Missing(t *testing.T) {
	_, _, err := ParseOBJFile(filepath.Join(t.TempDir(), "nope.obj"), "")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}
