// Package profile turns one team's scouted match history into phase specific
// statistical profiles. Autonomous and teleop profiling filter matches
// independently; a team without qualifying matches yields a zero profile.
package profile
