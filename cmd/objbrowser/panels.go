package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/picking"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/internal/engine/ui"
)

// maxListedDiagnostics caps the diagnostics tree.
const maxListedDiagnostics = 200

var projectionModes = []string{config.ProjectionPerspective, config.ProjectionOrthographic}

// renderViewport draws the scene into the framebuffer and shows it.
func (app *App) renderViewport() {
	avail := imgui.ContentRegionAvail()
	if avail.X < 1 || avail.Y < 1 {
		return
	}

	app.fb.Resize(int32(avail.X), int32(avail.Y))
	app.fb.RenderTo(app.scene.Background, func() {
		app.renderer.Draw(app.scene, app.fb.Aspect())
	})

	ui.Image(app.fb.ColorTexture(), avail.X, avail.Y, true, app.scene.Background)

	if !imgui.IsItemHovered() {
		app.mouseWasDown = false
		return
	}

	// A press released without dragging picks a face
	down := imgui.IsMouseDown(imgui.MouseButtonLeft)
	if imgui.IsMouseClickedBool(imgui.MouseButtonLeft) {
		app.dragged = false
	}
	if app.mouseWasDown && !down && !app.dragged {
		origin := imgui.ItemRectMin()
		mouse := imgui.MousePos()
		app.pick(mouse.X-origin.X, mouse.Y-origin.Y, avail.X, avail.Y)
	}
	app.mouseWasDown = down

	// Drag to orbit, scroll to zoom
	mousePos := imgui.MousePos()
	if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
		app.dragged = true
		app.scene.Camera.HandleDrag(mousePos.X-app.lastMousePos.X, mousePos.Y-app.lastMousePos.Y)
	}
	app.lastMousePos = mousePos

	if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
		app.scene.Camera.HandleZoom(wheel)
	}
}

// pick selects the nearest face under a viewport pixel.
func (app *App) pick(x, y, w, h float32) {
	if app.model == nil {
		return
	}
	inv, ok := app.scene.MVP(w / h).Inverse()
	if !ok {
		return
	}
	app.picked, app.hasPicked = picking.PickFace(picking.ScreenToRay(x, y, w, h, inv), app.model.Mesh)
}

// renderControls draws the slider panel.
func (app *App) renderControls() {
	s := app.scene

	if imgui.CollapsingHeaderTreeNodeFlagsV("Transform", imgui.TreeNodeFlagsDefaultOpen) {
		changed := ui.SliderAxes("Translate", &s.Object.Translation, s.Limits.Translation, "%.1f")
		rot := [3]scene.Range{s.Limits.Rotation, s.Limits.Rotation, s.Limits.Rotation}
		if ui.SliderAxes("Rotate", &s.Object.Rotation, rot, "%.0f deg") {
			changed = true
		}
		scale := [3]scene.Range{s.Limits.Scale, s.Limits.Scale, s.Limits.Scale}
		if ui.SliderAxes("Scale", &s.Object.Scale, scale, "%.2f") {
			changed = true
		}
		if changed {
			s.ClampObject()
		}
		if imgui.Button("Reset View") {
			s.Reset()
		}
		imgui.SameLine()
		imgui.TextDisabled("(Drag to orbit, scroll to zoom)")
	}

	if imgui.CollapsingHeaderTreeNodeFlagsV("Projection", imgui.TreeNodeFlagsDefaultOpen) {
		for _, mode := range projectionModes {
			if imgui.RadioButtonBool(mode, s.Projection.Mode == mode) {
				s.Projection.Mode = mode
			}
			imgui.SameLine()
		}
		imgui.NewLine()
		if s.Projection.Mode == config.ProjectionPerspective {
			imgui.SliderFloatV("FOV", &s.Projection.FOV, 10, 120, "%.0f deg", imgui.SliderFlagsNone)
		}
		imgui.SliderFloatV("Near", &s.Projection.Near, 0.1, 100, "%.1f", imgui.SliderFlagsLogarithmic)
		imgui.SliderFloatV("Far", &s.Projection.Far, s.Projection.Near+1, 100000, "%.0f", imgui.SliderFlagsLogarithmic)
	}

	if imgui.CollapsingHeaderTreeNodeFlagsV("Lighting", imgui.TreeNodeFlagsDefaultOpen) {
		imgui.Checkbox("Enabled", &s.Light.Enabled)
		az := imgui.SliderFloatV("Azimuth", &app.lightAzimuth, 0, 360, "%.0f deg", imgui.SliderFlagsNone)
		el := imgui.SliderFloatV("Elevation", &app.lightElevation, -90, 90, "%.0f deg", imgui.SliderFlagsNone)
		if az || el {
			s.Light.Direction = lighting.DirectionFromAngles(app.lightAzimuth, app.lightElevation)
		}
		imgui.SliderFloatV("Ambient", &s.Light.Ambient, 0, 1, "%.2f", imgui.SliderFlagsNone)
		imgui.SliderFloatV("Diffuse", &s.Light.Diffuse, 0, 1, "%.2f", imgui.SliderFlagsNone)
	}

	if imgui.CollapsingHeaderTreeNodeFlagsV("Display", imgui.TreeNodeFlagsDefaultOpen) {
		imgui.Checkbox("Back-face culling", &s.CullFaces)
		imgui.Checkbox("Bounding box", &s.ShowBBox)
		if imgui.ColorEdit4("Background", &s.Background) {
			app.backend.SetBgColor(s.Background)
		}
	}

	if imgui.CollapsingHeaderTreeNodeFlagsV("Mesh", imgui.TreeNodeFlagsDefaultOpen) {
		app.renderMeshControls()
	}
}

func (app *App) renderMeshControls() {
	if imgui.Checkbox("Use stored normals", &app.preferStored) {
		app.rebuild()
	}
	if imgui.IsItemHovered() {
		imgui.SetTooltip("Use vn data when every vertex has a normal")
	}

	if imgui.Checkbox("Deterministic colours", &app.deterministic) {
		app.rebuild()
	}
	if app.deterministic {
		if imgui.SliderIntV("Seed", &app.seed, 0, 1000, "%d", imgui.SliderFlagsNone) {
			app.rebuild()
		}
	}
	if imgui.Button("Recolor") {
		app.recolor()
	}

	m := app.model
	if m == nil {
		imgui.TextDisabled("No model loaded")
		return
	}

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Vertices: %d", len(m.OBJ.Vertices)))
	imgui.Text(fmt.Sprintf("Normals:  %d", len(m.OBJ.Normals)))
	imgui.Text(fmt.Sprintf("Faces:    %d", m.Mesh.FaceCount))
	if m.Mesh.UsedStoredNormals {
		imgui.TextColored(imgui.NewVec4(0.2, 0.6, 0.2, 1), "Stored normals")
	} else {
		imgui.TextDisabled("Per-face normals")
	}

	b := m.Mesh.BBox
	imgui.Text(fmt.Sprintf("Min: (%.2f, %.2f, %.2f)", b.Min.X, b.Min.Y, b.Min.Z))
	imgui.Text(fmt.Sprintf("Max: (%.2f, %.2f, %.2f)", b.Max.X, b.Max.Y, b.Max.Z))

	if app.hasPicked {
		imgui.Separator()
		for _, line := range pickLines(m, app.picked) {
			imgui.Text(line)
		}
		if imgui.SmallButton("Clear selection") {
			app.hasPicked = false
		}
	} else {
		imgui.TextDisabled("Click the viewport to pick a face")
	}

	if len(m.OBJ.GroupFaceCounts) > 0 {
		if imgui.TreeNodeExStrV(fmt.Sprintf("Groups (%d)", len(m.OBJ.GroupFaceCounts)), imgui.TreeNodeFlagsNone) {
			for i, n := range m.OBJ.GroupFaceCounts {
				imgui.Text(fmt.Sprintf("%d: %d faces", i, n))
			}
			imgui.TreePop()
		}
	}

	if len(m.Diagnostics) > 0 {
		label := fmt.Sprintf("Diagnostics (%d)", len(m.Diagnostics))
		if imgui.TreeNodeExStrV(label, imgui.TreeNodeFlagsNone) {
			for _, line := range diagnosticLines(m.Diagnostics, maxListedDiagnostics) {
				imgui.TextColored(imgui.NewVec4(0.8, 0.4, 0.1, 1), line)
			}
			if len(m.Diagnostics) > maxListedDiagnostics {
				imgui.TextDisabled(fmt.Sprintf("... %d more", len(m.Diagnostics)-maxListedDiagnostics))
			}
			imgui.TreePop()
		}
	}
}
