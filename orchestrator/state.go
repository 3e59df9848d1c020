package orchestrator

// State is the lifecycle state of the orchestrator.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
	Updating
	Rendering
	SwitchPending
	Exiting
	Terminated
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Updating:
		return "updating"
	case Rendering:
		return "rendering"
	case SwitchPending:
		return "switch pending"
	case Exiting:
		return "exiting"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandSwitch
	CommandQuit
)

// SceneCommand is a request issued by a script or an input handler. It is
// carried out once the update phase is over.
type SceneCommand struct {
	Kind  CommandKind
	Scene string
}

// commandQueue holds at most one command. Quit wins over a switch.
type commandQueue struct {
	pending SceneCommand
}

func (q *commandQueue) SwitchScene(name string) {
	if q.pending.Kind == CommandQuit {
		return
	}
	q.pending = SceneCommand{Kind: CommandSwitch, Scene: name}
}

func (q *commandQueue) Quit() {
	q.pending = SceneCommand{Kind: CommandQuit}
}

func (q *commandQueue) quitRequested() bool {
	return q.pending.Kind == CommandQuit
}

// take returns the pending command and leaves none behind.
func (q *commandQueue) take() SceneCommand {
	cmd := q.pending
	q.pending = SceneCommand{}
	return cmd
}
