package domain

// JointKind determines which metric applies when comparing two snapshots of a
// joint: revolute joints move in degrees, prismatic joints in meters, fixed
// joints never move. The kind is part of the rig's static description, not of
// whoever consumes the snapshots.
type JointKind string

const (
	JointRevolute  JointKind = "revolute"
	JointPrismatic JointKind = "prismatic"
	JointFixed     JointKind = "fixed"
)

func (k JointKind) Valid() bool {
	switch k {
	case JointRevolute, JointPrismatic, JointFixed:
		return true
	}
	return false
}

// JointDescription is the static description of one rig joint.
type JointDescription struct {
	ID   EntityID
	Name string
	Kind JointKind
}

// Rig is the static description of a tracked rig: joint IDs and their kinds.
type Rig struct {
	Name   string
	Joints map[EntityID]JointDescription
}

// Joint looks up a joint's static description.
func (r Rig) Joint(id EntityID) (JointDescription, bool) {
	j, ok := r.Joints[id]
	return j, ok
}
