package episode

import "fmt"

// Tag labels what an agent came into contact with during a tick
type Tag int

const (
	Checkpoint Tag = iota
	Finish
	Wall
	Obstacle
)

func (t Tag) String() string {
	switch t {
	case Checkpoint:
		return "Checkpoint"
	case Finish:
		return "Finish"
	case Wall:
		return "Wall"
	case Obstacle:
		return "Obstacle"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Contact is a single contact event produced by the simulation host's
// collision system. ID identifies which checkpoint was touched and is
// ignored for all other tags.
type Contact struct {
	Tag Tag
	ID  int
}

// CheckpointContact returns a contact with checkpoint i
func CheckpointContact(i int) Contact {
	return Contact{Tag: Checkpoint, ID: i}
}

func (c Contact) String() string {
	if c.Tag == Checkpoint {
		return fmt.Sprintf("Checkpoint[%d]", c.ID)
	}
	return c.Tag.String()
}
