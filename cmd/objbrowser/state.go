package main

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/picking"
	"github.com/Faultbox/objview/pkg/formats"
)

// notifyDuration is how long the overlay message stays visible.
const notifyDuration = 2 * time.Second

// pendingPath hands a file chosen in the dialog goroutine to the render
// loop, which owns all SDL and GL calls.
type pendingPath struct {
	mu   sync.Mutex
	path string
}

// Set queues a path, replacing any path not yet taken.
func (p *pendingPath) Set(path string) {
	p.mu.Lock()
	p.path = path
	p.mu.Unlock()
}

// Take returns the queued path and clears it.
func (p *pendingPath) Take() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	path := p.path
	p.path = ""
	return path
}

// notification is a short overlay message.
type notification struct {
	msg string
	at  time.Time
}

// Show displays msg from now on.
func (n *notification) Show(msg string, now time.Time) {
	n.msg = msg
	n.at = now
}

// Visible reports whether the message should still be drawn.
func (n *notification) Visible(now time.Time) bool {
	return n.msg != "" && now.Sub(n.at) < notifyDuration
}

// statusText is the status bar line for the loaded model.
func statusText(m *assets.Model) string {
	if m == nil {
		return "No model loaded. Use File > Open (Ctrl+O)."
	}
	return fmt.Sprintf("%s | %d vertices | %d faces | %d groups | %d diagnostics",
		filepath.Base(m.Path),
		len(m.OBJ.Vertices),
		m.Mesh.FaceCount,
		len(m.OBJ.GroupFaceCounts),
		len(m.Diagnostics),
	)
}

// diagnosticLines formats up to limit diagnostics (0 = all).
func diagnosticLines(diags []formats.OBJDiagnostic, limit int) []string {
	n := len(diags)
	if limit > 0 && n > limit {
		n = limit
	}
	lines := make([]string, 0, n)
	for _, d := range diags[:n] {
		lines = append(lines, fmt.Sprintf("%s: %v", d.Kind, d))
	}
	return lines
}

// pickLines describes a picked face: its group and the one-based OBJ
// vertex indices of its corners.
func pickLines(m *assets.Model, hit picking.Hit) []string {
	if m == nil || hit.Face < 0 || hit.Face >= len(m.OBJ.Faces) {
		return nil
	}
	f := m.OBJ.Faces[hit.Face]

	group := "none"
	if g := model.FaceGroup(m.OBJ.GroupFaceCounts, hit.Face); g >= 0 {
		group = fmt.Sprintf("%d", g)
	}

	return []string{
		fmt.Sprintf("Face:     %d", hit.Face),
		fmt.Sprintf("Group:    %s", group),
		fmt.Sprintf("Corners:  %d %d %d", f.Vertices[0]+1, f.Vertices[1]+1, f.Vertices[2]+1),
		fmt.Sprintf("Point:    (%.2f, %.2f, %.2f)", hit.Point.X, hit.Point.Y, hit.Point.Z),
	}
}
