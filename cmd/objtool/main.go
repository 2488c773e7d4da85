// objtool is a CLI utility for inspecting and exporting Wavefront OBJ meshes.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/formats"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

var (
	errUsage   = errors.New("usage")
	errInvalid = errors.New("file has diagnostics")
)

// Export file names, written inside the output directory.
const (
	positionsFile = "positions.f32"
	normalsFile   = "normals.f32"
	colorsFile    = "colors.u8"
)

func main() {
	if err := logger.Init("warn", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(exitFailure)
	}
	defer logger.Sync()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a sub-command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitFailure
	}

	command, rest := args[0], args[1:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(rest, stdout, stderr)
	case "groups":
		err = cmdGroups(rest, stdout, stderr)
	case "bbox":
		err = cmdBBox(rest, stdout, stderr)
	case "validate", "check":
		err = cmdValidate(rest, stdout, stderr)
	case "export", "x":
		err = cmdExport(rest, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return exitFailure
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitFailure
	case errors.Is(err, errInvalid):
		return exitInvalid
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `objtool - Wavefront OBJ mesh utility

Usage:
  objtool <command> [options] <file.obj> [args]

Commands:
  info <file.obj>                Show vertex, face and group counts
  groups <file.obj>              List face groups and their colour bands
  bbox <file.obj>                Show the bounding box
  validate <file.obj>            List parse diagnostics (exit 2 if any)
  export <file.obj> <dir>        Write GPU vertex streams as raw little-endian files

Common options:
  -charset <name>                Text encoding: utf-8, utf-16, euc-kr

Examples:
  objtool info teapot.obj
  objtool validate -n 0 scan.obj
  objtool export -seed 7 teapot.obj ./out`)
}

// newFlagSet creates a sub-command flag set with the shared -charset flag.
func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	charset := fs.String("charset", "utf-8", "Text encoding of the OBJ file")
	return fs, charset
}

func parseArgs(fs *flag.FlagSet, args []string, need int, usage string, stderr io.Writer) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < need {
		fmt.Fprintf(stderr, "Usage: objtool %s\n", usage)
		return errUsage
	}
	return nil
}

func cmdInfo(args []string, stdout, stderr io.Writer) error {
	fs, charset := newFlagSet("info", stderr)
	if err := parseArgs(fs, args, 1, "info [-charset c] <file.obj>", stderr); err != nil {
		return err
	}

	path := fs.Arg(0)
	obj, diags, err := formats.ParseOBJFile(path, *charset)
	if err != nil {
		return err
	}

	usable := "no"
	if model.HasUsableNormals(obj) {
		usable = "yes"
	}

	fmt.Fprintf(stdout, "File:        %s\n", path)
	fmt.Fprintf(stdout, "Vertices:    %d\n", len(obj.Vertices))
	fmt.Fprintf(stdout, "Normals:     %d (usable: %s)\n", len(obj.Normals), usable)
	fmt.Fprintf(stdout, "Faces:       %d\n", len(obj.Faces))
	fmt.Fprintf(stdout, "Groups:      %d\n", len(obj.GroupFaceCounts))
	fmt.Fprintf(stdout, "Draw count:  %d\n", model.DrawVertexCount(obj))
	fmt.Fprintf(stdout, "Diagnostics: %d\n", len(diags))

	if len(diags) > 0 {
		printDiagnosticSummary(stdout, diags)
	}
	return nil
}

// printDiagnosticSummary prints per-kind counts, most frequent first.
func printDiagnosticSummary(w io.Writer, diags []formats.OBJDiagnostic) {
	type kindStat struct {
		kind  formats.OBJDiagnosticKind
		count int
	}
	var stats []kindStat
	for kind, count := range formats.CountDiagnostics(diags) {
		stats = append(stats, kindStat{kind, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].kind < stats[j].kind
	})

	for _, s := range stats {
		fmt.Fprintf(w, "  %-24s %d\n", s.kind, s.count)
	}
}

// GroupBand is the span of faces that share one colour.
type GroupBand struct {
	Index     int // -1 for the faces left over after the declared groups
	FirstFace int
	Faces     int
}

// GroupBands mirrors how colours are assigned: declared groups in order,
// clipped to faceCount, then one band for any remaining faces.
func GroupBands(faceCount int, groups []int) []GroupBand {
	var bands []GroupBand
	next := 0
	for i, n := range groups {
		if next >= faceCount {
			break
		}
		if next+n > faceCount {
			n = faceCount - next
		}
		bands = append(bands, GroupBand{Index: i, FirstFace: next, Faces: n})
		next += n
	}
	if len(groups) > 0 && next < faceCount {
		bands = append(bands, GroupBand{Index: -1, FirstFace: next, Faces: faceCount - next})
	}
	return bands
}

func cmdGroups(args []string, stdout, stderr io.Writer) error {
	fs, charset := newFlagSet("groups", stderr)
	if err := parseArgs(fs, args, 1, "groups [-charset c] <file.obj>", stderr); err != nil {
		return err
	}

	obj, _, err := formats.ParseOBJFile(fs.Arg(0), *charset)
	if err != nil {
		return err
	}

	if !obj.HasGroups() {
		fmt.Fprintf(stdout, "No groups: %d faces coloured in pairs (%d bands)\n",
			len(obj.Faces), (len(obj.Faces)+1)/2)
		return nil
	}

	for _, b := range GroupBands(len(obj.Faces), obj.GroupFaceCounts) {
		label := fmt.Sprintf("group %d", b.Index)
		if b.Index < 0 {
			label = "ungrouped"
		}
		fmt.Fprintf(stdout, "  %-12s faces %d-%d (%d)\n", label, b.FirstFace, b.FirstFace+b.Faces-1, b.Faces)
	}
	return nil
}

func cmdBBox(args []string, stdout, stderr io.Writer) error {
	fs, charset := newFlagSet("bbox", stderr)
	if err := parseArgs(fs, args, 1, "bbox [-charset c] <file.obj>", stderr); err != nil {
		return err
	}

	obj, _, err := formats.ParseOBJFile(fs.Arg(0), *charset)
	if err != nil {
		return err
	}
	bbox, err := model.ComputeBBox(obj.Vertices)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Min:        (%g, %g, %g)\n", bbox.Min.X, bbox.Min.Y, bbox.Min.Z)
	fmt.Fprintf(stdout, "Max:        (%g, %g, %g)\n", bbox.Max.X, bbox.Max.Y, bbox.Max.Z)
	fmt.Fprintf(stdout, "Center:     (%g, %g, %g)\n", bbox.Center.X, bbox.Center.Y, bbox.Center.Z)
	fmt.Fprintf(stdout, "Extents:    (%g, %g, %g)\n", bbox.Extents.X, bbox.Extents.Y, bbox.Extents.Z)
	r := bbox.Reposition()
	fmt.Fprintf(stdout, "Reposition: (%g, %g, %g)\n", r.X, r.Y, r.Z)
	return nil
}

func cmdValidate(args []string, stdout, stderr io.Writer) error {
	fs, charset := newFlagSet("validate", stderr)
	limit := fs.Int("n", 50, "Limit listed diagnostics (0 = all)")
	if err := parseArgs(fs, args, 1, "validate [-charset c] [-n N] <file.obj>", stderr); err != nil {
		return err
	}

	path := fs.Arg(0)
	_, diags, err := formats.ParseOBJFile(path, *charset)
	if err != nil {
		return err
	}

	if len(diags) == 0 {
		fmt.Fprintf(stdout, "%s: OK\n", path)
		return nil
	}

	for i, d := range diags {
		if *limit > 0 && i >= *limit {
			fmt.Fprintf(stdout, "... %d more (use -n 0 for all)\n", len(diags)-i)
			break
		}
		fmt.Fprintf(stdout, "%s:%d: %s: %s\n", path, d.Line, d.Kind, diagnosticMessage(d))
	}
	fmt.Fprintf(stderr, "\n(%d diagnostics)\n", len(diags))
	return errInvalid
}

// diagnosticMessage is the diagnostic without its line prefix.
func diagnosticMessage(d formats.OBJDiagnostic) string {
	if d.Token != "" {
		return fmt.Sprintf("%v: %q", d.Err, d.Token)
	}
	return d.Err.Error()
}

func cmdExport(args []string, stdout, stderr io.Writer) error {
	fs, charset := newFlagSet("export", stderr)
	seed := fs.Float64("seed", 1, "Seed for deterministic colours")
	random := fs.Bool("random", false, "Use non-deterministic colours")
	flat := fs.Bool("flat", false, "Ignore stored normals and use face normals")
	if err := parseArgs(fs, args, 2, "export [-charset c] [-seed S] [-random] [-flat] <file.obj> <dir>", stderr); err != nil {
		return err
	}

	var rng model.RNG = model.NewSineRNG(*seed)
	if *random {
		rng = nil
	}

	mgr := assets.NewManager(logger.Named("objtool"))
	defer mgr.Close()

	m, err := mgr.Load(fs.Arg(0), assets.Options{
		Charset: *charset,
		Build: model.BuildOptions{
			PreferStoredNormals: !*flat,
			RNG:                 rng,
		},
	})
	if err != nil {
		return err
	}

	outDir := fs.Arg(1)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	streams := []struct {
		name string
		data any
	}{
		{positionsFile, m.Mesh.Positions},
		{normalsFile, m.Mesh.Normals},
		{colorsFile, m.Mesh.Colors},
	}
	for _, s := range streams {
		if err := writeStream(filepath.Join(outDir, s.name), s.data); err != nil {
			return err
		}
	}

	logger.Debug("exported streams",
		zap.String("path", m.Path),
		zap.String("dir", outDir),
		zap.Int("faces", m.Mesh.FaceCount),
	)

	fmt.Fprintf(stdout, "Exported %d faces (%d corners) to %s\n", m.Mesh.FaceCount, m.Mesh.VertexCount(), outDir)
	if m.Mesh.UsedStoredNormals {
		fmt.Fprintln(stdout, "Normals: stored")
	} else {
		fmt.Fprintln(stdout, "Normals: per face")
	}
	return nil
}

// writeStream writes a slice of fixed-size values in little-endian order.
func writeStream(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
