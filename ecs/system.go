package ecs

// System represents a behavior that operates on entities with specific components.
// Systems may declare Query and Singleton fields; the Scheduler initializes
// them on registration and refreshes every Query before the system runs.
type System interface {
	Execute(frame *UpdateFrame)
}
