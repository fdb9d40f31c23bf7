package vars

// Quest is a structured composite: a display name, a status enum and an
// ordered list of objectives. Objective order matters — index-based actions
// address objectives by position, so reordering silently changes the meaning
// of previously authored indices.
type Quest struct {
	node
	name       string
	status     QuestStatus
	objectives []*Objective
}

// NewQuest creates a quest in the NotStarted state with no objectives.
func NewQuest(key, name string) *Quest {
	return &Quest{node: node{key: key}, name: name, status: QuestNotStarted}
}

func (q *Quest) Kind() Kind { return KindQuest }

func (q *Quest) Name() string        { return q.name }
func (q *Quest) SetName(name string) { q.name = name }

func (q *Quest) Status() QuestStatus          { return q.status }
func (q *Quest) SetStatus(status QuestStatus) { q.status = status }

// Objectives returns the ordered objective list.
func (q *Quest) Objectives() []*Objective { return q.objectives }

// Children exposes objectives as tree children so ID search reaches them.
func (q *Quest) Children() []Variable {
	children := make([]Variable, len(q.objectives))
	for i, o := range q.objectives {
		children[i] = o
	}
	return children
}

// AddObjective appends an objective and takes ownership of its parent link.
func (q *Quest) AddObjective(o *Objective) {
	if o == nil {
		return
	}
	for _, existing := range q.objectives {
		if existing == o {
			return
		}
	}
	q.objectives = append(q.objectives, o)
	o.setParent(q)
}

// EnsureOneObjective guarantees a non-empty objective list by appending a
// default objective (target 1, progress 0) only when the list is empty.
func (q *Quest) EnsureOneObjective() {
	if len(q.objectives) > 0 {
		return
	}
	q.AddObjective(NewObjective("objective_1", "", 1))
}

// AllObjectivesComplete reports whether every objective has reached its
// target. A quest with no objectives is never complete.
func (q *Quest) AllObjectivesComplete() bool {
	if len(q.objectives) == 0 {
		return false
	}
	for _, o := range q.objectives {
		if !o.Completed() {
			return false
		}
	}
	return true
}

// Objective tracks a single quest goal: a target value and current progress.
// Progress is not clamped to [0, target] here; clamping is an opt-in
// behavior of the mutation that changes it.
type Objective struct {
	node
	name     string
	target   int
	progress int
}

// NewObjective creates an objective with zero progress.
func NewObjective(key, name string, target int) *Objective {
	return &Objective{node: node{key: key}, name: name, target: target}
}

func (o *Objective) Kind() Kind { return KindObjective }

func (o *Objective) Children() []Variable { return nil }

func (o *Objective) Name() string        { return o.name }
func (o *Objective) SetName(name string) { o.name = name }

func (o *Objective) Target() int       { return o.target }
func (o *Objective) SetTarget(t int)   { o.target = t }
func (o *Objective) Progress() int     { return o.progress }
func (o *Objective) SetProgress(p int) { o.progress = p }

// Completed reports whether progress has reached the target.
func (o *Objective) Completed() bool { return o.progress >= o.target }
