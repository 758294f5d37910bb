// Package teleop simulates the driver-controlled phase of a match.
//
// The phase is a transition interval, four timed shifts and an endgame. The
// alliance that lost autonomous gets its hub active first; while a hub is
// inactive its alliance banks fuel into a capped hopper that is released on
// the next active shift or at the endgame. A tied autonomous leaves both hubs
// active for the whole phase.
package teleop
