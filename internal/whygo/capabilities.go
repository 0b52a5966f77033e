package whygo

// MaxGoalsPerPerson is the number of active individual goals a person may
// hold. The dashboard stops offering "Add Goal" at this count.
const MaxGoalsPerPerson = 3

// Capabilities describes which leadership features a level unlocks.
type Capabilities struct {
	CanViewTeam     bool
	CanApproveGoals bool
}

// Leadership reports whether any leadership feature is available.
func (c Capabilities) Leadership() bool {
	return c.CanViewTeam || c.CanApproveGoals
}

// CapabilitiesFor returns the capabilities granted to a level.
// Unknown levels get none.
func CapabilitiesFor(level Level) Capabilities {
	switch level {
	case LevelExecutive, LevelDepartmentHead, LevelManager:
		return Capabilities{CanViewTeam: true, CanApproveGoals: true}
	case LevelIC:
		return Capabilities{}
	}
	return Capabilities{}
}
