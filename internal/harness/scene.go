package harness

import (
	"fmt"

	"github.com/Faultbox/physdraw/internal/config"
	"github.com/Faultbox/physdraw/internal/debugdraw"
	"github.com/Faultbox/physdraw/internal/physics"
)

// physicsConfig converts the scene section into world settings. An empty
// body list selects the built-in scene.
func physicsConfig(sc config.SceneConfig) (physics.Config, error) {
	pc := physics.DefaultConfig()
	pc.PixelsPerMeter = float64(sc.PixelsPerMeter)
	pc.GravityX, pc.GravityY = sc.Gravity[0], sc.Gravity[1]
	if sc.Iterations > 0 {
		pc.Iterations = sc.Iterations
	}
	if sc.MaxStep > 0 {
		pc.MaxStep = sc.MaxStep
	}
	if len(sc.Bodies) == 0 {
		return pc, nil
	}

	pc.Bodies = make([]physics.BodySpec, 0, len(sc.Bodies))
	for i, bc := range sc.Bodies {
		spec, err := bodySpec(bc)
		if err != nil {
			return physics.Config{}, fmt.Errorf("scene body %d: %w", i, err)
		}
		pc.Bodies = append(pc.Bodies, spec)
	}
	return pc, nil
}

func bodySpec(bc config.BodyConfig) (physics.BodySpec, error) {
	kind := physics.BodyKind(bc.Kind)
	switch kind {
	case "":
		kind = physics.Dynamic
	case physics.Dynamic, physics.Static, physics.Kinematic:
	default:
		return physics.BodySpec{}, fmt.Errorf("unknown body kind %q", bc.Kind)
	}
	return physics.BodySpec{
		Name:          bc.Name,
		Kind:          kind,
		X:             bc.Position[0],
		Y:             bc.Position[1],
		Angle:         bc.Angle,
		Width:         bc.Size[0],
		Height:        bc.Size[1],
		Radius:        bc.Radius,
		X1:            bc.Edge[0],
		Y1:            bc.Edge[1],
		X2:            bc.Edge[2],
		Y2:            bc.Edge[3],
		Density:       bc.Density,
		Friction:      bc.Friction,
		FixedRotation: bc.FixedRotation,
		Sensor:        bc.Sensor,
	}, nil
}

func drawConfig(sc config.SceneConfig) debugdraw.Config {
	dc := debugdraw.DefaultConfig()
	dc.PixelsPerMeter = sc.PixelsPerMeter
	dc.LineWidth = sc.LineWidth
	dc.FrameMode = debugdraw.ParseFrameMode(sc.FrameMode)
	if sc.DrawCircles {
		dc.Flags |= debugdraw.DrawCircles
	}
	if sc.DrawPoints {
		dc.Flags |= debugdraw.DrawPoints
	}
	return dc
}

func toColor(c [3]float32) debugdraw.Color {
	return debugdraw.Color{R: c[0], G: c[1], B: c[2]}
}
