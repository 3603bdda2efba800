package racetrack

import (
	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/racetrack/observation"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// actuator converts clipped actions in [-1, 1]² into forces or
// velocities on the agent body
type actuator interface {
	createAgent(*box2d.B2World) *box2d.B2Body
	actuate(agent *box2d.B2Body, action *mat.VecDense)
}

// carActuator drives the agent like a top-down car. The first action
// dimension is throttle/brake and the second is steering. Before each
// step, a Grip fraction of the car's sideways velocity is removed so
// that the car travels along its heading rather than skidding.
type carActuator struct {
	Physics
}

func (c carActuator) createAgent(w *box2d.B2World) *box2d.B2Body {
	carDef := box2d.MakeB2BodyDef()
	carDef.Type = dynamicBody
	carDef.LinearDamping = c.LinearDamping
	carDef.AngularDamping = c.AngularDamping
	car := w.CreateBody(&carDef)

	carShape := box2d.NewB2PolygonShape()
	carShape.SetAsBox(CarHalfWidth, CarHalfLength)

	carFix := box2d.MakeB2FixtureDef()
	carFix.Shape = carShape
	carFix.Density = 1.0
	carFix.Friction = 0.1
	carFix.Restitution = 0.0
	car.CreateFixtureFromDef(&carFix)

	return car
}

func (c carActuator) actuate(car *box2d.B2Body, action *mat.VecDense) {
	throttle, steer := action.AtVec(0), action.AtVec(1)

	heading := observation.HeadingFromAngle(car.GetAngle())

	// Right-hand normal of the heading
	right := r2.Vec{X: heading.Y, Y: -heading.X}
	vel := car.GetLinearVelocity()
	lateral := c.Grip * (vel.X*right.X + vel.Y*right.Y)
	car.SetLinearVelocity(box2d.MakeB2Vec2(
		vel.X-lateral*right.X,
		vel.Y-lateral*right.Y,
	))

	force := box2d.MakeB2Vec2(
		heading.X*throttle*c.EnginePower,
		heading.Y*throttle*c.EnginePower,
	)
	car.ApplyForceToCenter(force, true)
	car.ApplyTorque(-steer*c.SteerTorque, true)
}

// pointActuator moves the agent directly. The two action dimensions
// are the x and y displacement of the agent, scaled by MoveSpeed and
// the duration of the step.
type pointActuator struct {
	Physics
}

func (p pointActuator) createAgent(w *box2d.B2World) *box2d.B2Body {
	pointDef := box2d.MakeB2BodyDef()
	pointDef.Type = dynamicBody
	pointDef.FixedRotation = true
	point := w.CreateBody(&pointDef)

	pointShape := box2d.NewB2CircleShape()
	pointShape.M_radius = PointRadius

	pointFix := box2d.MakeB2FixtureDef()
	pointFix.Shape = pointShape
	pointFix.Density = 1.0
	point.CreateFixtureFromDef(&pointFix)

	return point
}

// actuate sets the agent velocity so that a world step of dt seconds
// displaces the agent by action * MoveSpeed * dt
func (p pointActuator) actuate(point *box2d.B2Body, action *mat.VecDense) {
	point.SetLinearVelocity(box2d.MakeB2Vec2(
		action.AtVec(0)*p.MoveSpeed,
		action.AtVec(1)*p.MoveSpeed,
	))
}
