package racetrack

import (
	"sync"

	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/racetrack/episode"
	"github.com/samuelfneumann/racetrack/observation"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	staticBody  uint8 = 0
	dynamicBody uint8 = 2

	velocityIterations int = 8
	positionIterations int = 3
)

// box2dMu serializes updates to every world. Box2D keeps package-level
// collision counters and contact registers which are shared by all
// B2Worlds.
var box2dMu sync.Mutex

// contactDetector records every contact the agent begins with another
// fixture during a world step. Contacts are recorded in the order that
// Box2D reports them.
type contactDetector struct {
	w *world
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	fixA, fixB := contact.GetFixtureA(), contact.GetFixtureB()

	var other *box2d.B2Fixture
	switch c.w.agent {
	case fixA.GetBody():
		other = fixB
	case fixB.GetBody():
		other = fixA
	default:
		return
	}

	if tag, ok := other.GetUserData().(episode.Contact); ok {
		c.w.contacts = append(c.w.contacts, tag)
	}
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {}
func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
}
func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
}

// world is the Box2D simulation host of a racetrack. It owns the
// agent's body and implements episode.Host so that the episode
// controller can respawn the agent. The world is top-down, so there
// is no gravity.
type world struct {
	world box2d.B2World
	track Track

	walls     []*box2d.B2Body
	obstacles []*box2d.B2Body
	targets   []*box2d.B2Body
	agent     *box2d.B2Body

	contacts []episode.Contact
}

// newWorld creates the static walls and obstacles of a track along
// with the agent body. The agent body is created by makeAgent, which
// should attach the agent's fixtures to the body.
func newWorld(track Track, makeAgent func(*box2d.B2World) *box2d.B2Body) *world {
	w := &world{
		world: box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		track: track,
	}
	w.world.SetContactListener(&contactDetector{w})

	// Walls along the bounds of the track
	min, max := track.Bounds.Min, track.Bounds.Max
	corners := []box2d.B2Vec2{
		box2d.MakeB2Vec2(min.X, min.Y),
		box2d.MakeB2Vec2(min.X, max.Y),
		box2d.MakeB2Vec2(max.X, max.Y),
		box2d.MakeB2Vec2(max.X, min.Y),
	}
	w.walls = make([]*box2d.B2Body, len(corners))
	for i := range corners {
		wallDef := box2d.NewB2BodyDef()
		wallDef.Type = staticBody
		w.walls[i] = w.world.CreateBody(wallDef)

		wallShape := box2d.NewB2EdgeShape()
		wallShape.Set(corners[i], corners[(i+1)%len(corners)])

		wallFix := box2d.MakeB2FixtureDef()
		wallFix.Shape = wallShape
		wallFix.UserData = episode.Contact{Tag: episode.Wall}
		w.walls[i].CreateFixtureFromDef(&wallFix)
	}

	// Obstacles
	w.obstacles = make([]*box2d.B2Body, len(track.Obstacles))
	for i, box := range track.Obstacles {
		obstacleDef := box2d.NewB2BodyDef()
		obstacleDef.Type = staticBody
		obstacleDef.Position = box2d.MakeB2Vec2(
			(box.Min.X+box.Max.X)/2,
			(box.Min.Y+box.Max.Y)/2,
		)
		w.obstacles[i] = w.world.CreateBody(obstacleDef)

		obstacleShape := box2d.NewB2PolygonShape()
		obstacleShape.SetAsBox((box.Max.X-box.Min.X)/2, (box.Max.Y-box.Min.Y)/2)

		obstacleFix := box2d.MakeB2FixtureDef()
		obstacleFix.Shape = obstacleShape
		obstacleFix.UserData = episode.Contact{Tag: episode.Obstacle}
		w.obstacles[i].CreateFixtureFromDef(&obstacleFix)
	}

	w.agent = makeAgent(&w.world)
	return w
}

// Respawn implements the episode.Host interface. It rebuilds the
// checkpoint and finish sensors for the course, then places the agent
// at position with the track's spawn angle and zero linear and angular
// velocity.
func (w *world) Respawn(position r2.Vec, course episode.Course) {
	box2dMu.Lock()
	defer box2dMu.Unlock()

	for _, target := range w.targets {
		w.world.DestroyBody(target)
	}
	w.targets = w.targets[:0]

	for i, p := range course.Checkpoints {
		w.targets = append(w.targets,
			w.createSensor(p, episode.CheckpointContact(i)))
	}
	w.targets = append(w.targets,
		w.createSensor(course.Finish, episode.Contact{Tag: episode.Finish}))

	w.agent.SetTransform(box2d.MakeB2Vec2(position.X, position.Y),
		w.track.SpawnAngle)
	w.agent.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	w.agent.SetAngularVelocity(0)
	w.agent.SetAwake(true)

	w.contacts = w.contacts[:0]
}

// createSensor creates a circular sensor at p which reports contact as
// its contact tag
func (w *world) createSensor(p r2.Vec, contact episode.Contact) *box2d.B2Body {
	sensorDef := box2d.NewB2BodyDef()
	sensorDef.Type = staticBody
	sensorDef.Position = box2d.MakeB2Vec2(p.X, p.Y)
	sensor := w.world.CreateBody(sensorDef)

	sensorShape := box2d.NewB2CircleShape()
	sensorShape.M_radius = w.track.TargetRadius

	sensorFix := box2d.MakeB2FixtureDef()
	sensorFix.Shape = sensorShape
	sensorFix.IsSensor = true
	sensorFix.UserData = contact
	sensor.CreateFixtureFromDef(&sensorFix)

	return sensor
}

// step advances the physics by dt seconds and returns the contacts
// the agent began during the step. The returned slice is only valid
// until the next call to step or Respawn.
func (w *world) step(dt float64) []episode.Contact {
	w.contacts = w.contacts[:0]

	box2dMu.Lock()
	defer box2dMu.Unlock()
	w.world.Step(dt, velocityIterations, positionIterations)

	return w.contacts
}

// agentState returns the current kinematic state of the agent
func (w *world) agentState() episode.AgentState {
	pos := w.agent.GetPosition()
	vel := w.agent.GetLinearVelocity()

	return episode.AgentState{
		Position: r2.Vec{X: pos.X, Y: pos.Y},
		Velocity: r2.Vec{X: vel.X, Y: vel.Y},
		Heading:  observation.HeadingFromAngle(w.agent.GetAngle()),
	}
}
