package model

// MinDuration is the shortest transition a Dimmer will run, in clock units.
const MinDuration uint32 = 32

type ActionKind uint8

const (
	KindDimmer ActionKind = iota + 1
)

func (k ActionKind) String() string {
	switch k {
	case KindDimmer:
		return "dimmer"
	default:
		return "unknown"
	}
}

// Action is a timed mutation owned by exactly one Pattern.
type Action interface {
	Kind() ActionKind
	// Tick advances the action by dt clock units and reports whether the
	// pattern changed visibly.
	Tick(dt uint32) bool
	Done() bool
}

// leveler is the slice of a Pattern an action is allowed to touch.
type leveler interface {
	Level() uint8
	SetLevel(pct uint8)
}

// Dimmer ramps a pattern's brightness level linearly to a target.
type Dimmer struct {
	target leveler

	start   uint8
	goal    uint8
	applied uint8

	elapsed  uint32
	duration uint32
	done     bool
}

func newDimmer(p leveler, goal uint8, dur uint32) *Dimmer {
	d := &Dimmer{}
	d.retarget(p, goal, dur)
	return d
}

// retarget restarts the ramp from the pattern's current level.
func (d *Dimmer) retarget(p leveler, goal uint8, dur uint32) {
	if dur < MinDuration {
		dur = MinDuration
	}
	if goal > 100 {
		goal = 100
	}
	d.target = p
	d.start = p.Level()
	d.applied = d.start
	d.goal = goal
	d.duration = dur
	d.elapsed = 0
	d.done = false
}

func (d *Dimmer) Kind() ActionKind { return KindDimmer }

func (d *Dimmer) Done() bool { return d.done }

func (d *Dimmer) Goal() uint8 { return d.goal }

func (d *Dimmer) Tick(dt uint32) bool {
	if d.done {
		return false
	}
	if dt > d.duration-d.elapsed {
		d.elapsed = d.duration
	} else {
		d.elapsed += dt
	}
	if d.elapsed == d.duration {
		d.done = true
	}

	lvl := d.level()
	if lvl == d.applied {
		return false
	}
	d.applied = lvl
	d.target.SetLevel(lvl)
	return true
}

func (d *Dimmer) level() uint8 {
	if d.elapsed >= d.duration {
		return d.goal
	}
	dur := int64(d.duration)
	delta := (int64(d.goal) - int64(d.start)) * int64(d.elapsed)
	// round half away from zero
	if delta >= 0 {
		delta += dur / 2
	} else {
		delta -= dur / 2
	}
	return uint8(int64(d.start) + delta/dur)
}
