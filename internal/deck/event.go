package deck

import "fmt"

// Event is a learner's answer to the top card.
type Event int

const (
	Fail Event = iota + 1
	Repeat
	Learn
	Pass
)

var eventNames = map[Event]string{
	Fail:   "fail",
	Repeat: "repeat",
	Learn:  "learn",
	Pass:   "pass",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Stats counts the answers given during a session.
type Stats struct {
	Learned  int
	Failed   int
	Repeated int
	Passed   int
}

// Total is the number of answers given.
func (s Stats) Total() int {
	return s.Learned + s.Failed + s.Repeated + s.Passed
}
