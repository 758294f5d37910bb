// Package prediction orchestrates the match forecast: it profiles the six
// teams, aggregates the autonomous phase per alliance, simulates teleop on
// the schedule implied by the autonomous winner and turns the combined score
// ranges into win chances.
//
// An Engine holds no state between calls. Concurrent predictions over the
// same dataset are safe as long as the dataset is not mutated.
package prediction
